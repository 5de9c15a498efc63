package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/codecrypto-org/viem/internal/accounts"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/network"
	"github.com/codecrypto-org/viem/internal/refresh"
	"github.com/codecrypto-org/viem/internal/txn"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"
)

var (
	accountsCommand = cli.Command{
		Name:   "accounts",
		Usage:  "List accounts derived from the configured mnemonic with their balances",
		Flags:  []cli.Flag{countFlag, showKeysFlag},
		Action: listAccounts,
	}
	balanceCommand = cli.Command{
		Name:      "balance",
		Usage:     "Print the native balance of one or more addresses",
		ArgsUsage: "<address> [address...]",
		Action:    showBalances,
	}
	blockCommand = cli.Command{
		Name:   "block",
		Usage:  "Print the latest block head",
		Action: showBlock,
	}
	sendCommand = cli.Command{
		Name:   "send",
		Usage:  "Transfer native currency and wait for the receipt",
		Flags:  []cli.Flag{keyFlag, indexFlag, walletFlag, toFlag, amountFlag, noWaitFlag, timeoutFlag},
		Action: sendValue,
	}
	demoCommand = cli.Command{
		Name:   "demo",
		Usage:  "Send 1.5 ether from the first to the second development account",
		Flags:  []cli.Flag{timeoutFlag},
		Action: runDemo,
	}
	ensureChainCommand = cli.Command{
		Name:   "ensure-chain",
		Usage:  "Switch the wallet to the configured network, adding it when unknown",
		Flags:  []cli.Flag{walletFlag},
		Action: ensureChain,
	}
)

// withSignal derives the command context from the signal-aware root context.
func withSignal() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func listAccounts(ctx *cli.Context) error {
	c := withSignal()
	ring, err := env.keyring(ctx)
	if err != nil {
		return err
	}
	balances, err := env.reader.GetBalances(c, ring.Addresses())
	if err != nil {
		return err
	}

	showKeys := ctx.Bool(showKeysFlag.Name)
	header := []string{"#", "Address", "Balance (" + env.cfg.Network.NativeCurrency.Symbol + ")"}
	if showKeys {
		header = append(header, "Private key")
	}
	table := newTable(header...)

	total := units.Zero
	for i, acct := range ring.All() {
		row := []string{strconv.Itoa(acct.Index), acct.Display(), units.ToDisplay(balances[i])}
		if showKeys {
			row = append(row, accounts.PrivateKeyHex(acct))
		}
		table.Append(row)
		total = total.Add(balances[i])
	}
	footer := []string{"", "Total", units.ToDisplay(total)}
	if showKeys {
		footer = append(footer, "")
	}
	table.SetFooter(footer)
	table.Render()
	return nil
}

func showBalances(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return model.Validationf("at least one address required")
	}
	addrs := make([]common.Address, 0, ctx.NArg())
	for _, raw := range ctx.Args() {
		addr, err := parseAddress(raw)
		if err != nil {
			return err
		}
		addrs = append(addrs, addr)
	}
	balances, err := env.reader.GetBalances(withSignal(), addrs)
	if err != nil {
		return err
	}
	table := newTable("Address", "Balance ("+env.cfg.Network.NativeCurrency.Symbol+")", "Wei")
	for i, addr := range addrs {
		table.Append([]string{addr.Hex(), units.ToDisplay(balances[i]), balances[i].String()})
	}
	table.Render()
	return nil
}

func showBlock(*cli.Context) error {
	head, err := env.reader.GetBlockHead(withSignal())
	if err != nil {
		return err
	}
	table := newTable("Number", "Hash", "Timestamp")
	table.Append([]string{strconv.FormatUint(head.Number, 10), head.Hash.Hex(), head.Timestamp.UTC().String()})
	table.Render()
	return nil
}

func sendValue(ctx *cli.Context) error {
	c := withSignal()
	to := ctx.String(toFlag.Name)
	if to == "" {
		return model.Validationf("--to is required")
	}
	amount, err := units.ToSmallestUnit(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}
	from, signer, err := env.sender(c, ctx)
	if err != nil {
		return err
	}

	refresher := refresh.New(env.reader, env.logger, refresh.WithChainLabel(env.label))
	orch := env.orchestrator(signer, refresher)
	req := txn.Request{From: from, To: to, Value: amount}

	if ctx.Bool(noWaitFlag.Name) {
		tx, err := orch.Submit(c, req)
		if err != nil {
			return err
		}
		fmt.Println(tx.Hash.Hex())
		return nil
	}

	out, err := orch.SubmitAndWait(c, req, env.confirmTimeout(ctx))
	printOutcome(out)
	if err != nil {
		return err
	}
	if snap, ok := refresher.Latest(); ok {
		printSnapshot(snap)
	}
	return nil
}

// runDemo transfers 1.5 ether between the first two development accounts and
// prints both balances before and after.
func runDemo(ctx *cli.Context) error {
	c := withSignal()
	ring, err := accounts.KeyringFromMnemonic(env.cfg.Wallet.Mnemonic, 2)
	if err != nil {
		return err
	}
	if err := verifyChain(c); err != nil {
		return err
	}
	from, _ := ring.At(0)
	to, _ := ring.At(1)

	before, err := env.reader.GetBalances(c, ring.Addresses())
	if err != nil {
		return err
	}
	printBalances("before", ring.Addresses(), before)

	amount, err := units.ToSmallestUnit("1.5")
	if err != nil {
		return err
	}
	orch := env.orchestrator(txn.NewLocalSigner(env.client, env.cfg.Network.ChainID, env.logger), nil)
	out, err := orch.SubmitAndWait(c, txn.Request{From: from, To: to.Display(), Value: amount}, env.confirmTimeout(ctx))
	printOutcome(out)
	if err != nil {
		return err
	}

	after, err := env.reader.GetBalances(c, ring.Addresses())
	if err != nil {
		return err
	}
	printBalances("after", ring.Addresses(), after)
	return nil
}

func ensureChain(ctx *cli.Context) error {
	kind := ctx.String(walletFlag.Name)
	if kind == "" {
		kind = "bridge"
	}
	if kind == "node" {
		return verifyChain(withSignal())
	}
	// provider runs the switch as part of connecting.
	p, err := env.provider(withSignal(), kind)
	if err != nil {
		return err
	}
	fmt.Printf("%s is on %s (%s)\n", p.Info().Name, env.cfg.Network.Name, env.cfg.Network.HexChainID())
	return nil
}

func verifyChain(c context.Context) error {
	if err := network.VerifyNode(c, env.cfg.Network, env.reader); err != nil {
		return err
	}
	fmt.Printf("node is on %s (%d)\n", env.cfg.Network.Name, env.cfg.Network.ChainID)
	return nil
}

func parseAddress(raw string) (common.Address, error) {
	if !strings.HasPrefix(raw, "0x") || !common.IsHexAddress(raw) {
		return common.Address{}, model.Validationf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func printOutcome(out model.Outcome) {
	table := newTable("Hash", "State", "Block", "Gas used", "Polls")
	block, gas := "-", "-"
	if out.Receipt != nil {
		block = strconv.FormatUint(out.Receipt.BlockNumber, 10)
		gas = strconv.FormatUint(out.Receipt.GasUsed, 10)
	}
	hash := "-"
	if out.Tx.Hash != (common.Hash{}) {
		hash = out.Tx.Hash.Hex()
	}
	table.Append([]string{hash, string(out.State), block, gas, strconv.Itoa(out.Polls)})
	table.Render()
	if out.Err != nil && !errors.Is(out.Err, model.ErrReverted) {
		env.logger.Debug("transaction outcome error", "error", out.Err)
	}
}

func printBalances(title string, addrs []common.Address, balances []units.Amount) {
	fmt.Println(title)
	table := newTable("Address", "Balance ("+env.cfg.Network.NativeCurrency.Symbol+")")
	for i, addr := range addrs {
		table.Append([]string{addr.Hex(), units.ToDisplay(balances[i])})
	}
	table.Render()
}

func printSnapshot(snap refresh.Snapshot) {
	table := newTable("Address", "Balance ("+env.cfg.Network.NativeCurrency.Symbol+")", "Token")
	for addr, bal := range snap.Native {
		tok := "-"
		if v, ok := snap.Token[addr]; ok {
			tok = units.ToDisplay(v)
		}
		table.Append([]string{addr.Hex(), units.ToDisplay(bal), tok})
	}
	table.SetFooter([]string{"block " + strconv.FormatUint(snap.Block, 10), "", ""})
	table.Render()
}
