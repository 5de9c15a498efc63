package main

import (
	"fmt"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/refresh"
	"github.com/codecrypto-org/viem/internal/token"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/urfave/cli.v1"
)

var tokenCommand = cli.Command{
	Name:  "token",
	Usage: "Read and write the configured ERC-20 token",
	Subcommands: []cli.Command{
		{
			Name:   "info",
			Usage:  "Print name, symbol and total supply",
			Flags:  []cli.Flag{tokenFlag},
			Action: tokenInfo,
		},
		{
			Name:      "balance",
			Usage:     "Print token balances of the given holders",
			ArgsUsage: "<address> [address...]",
			Flags:     []cli.Flag{tokenFlag},
			Action:    tokenBalance,
		},
		tokenWriteCommand(token.MethodMint, "<to> <amount>", "Mint tokens to an address"),
		tokenWriteCommand(token.MethodTransfer, "<to> <amount>", "Transfer tokens from the sender"),
		tokenWriteCommand(token.MethodApprove, "<spender> <amount>", "Approve a spender allowance"),
		tokenWriteCommand(token.MethodBurn, "<amount>", "Burn tokens held by the sender"),
	},
}

func tokenWriteCommand(method, argsUsage, usage string) cli.Command {
	return cli.Command{
		Name:      method,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Flags:     []cli.Flag{tokenFlag, keyFlag, indexFlag, walletFlag, timeoutFlag},
		Action: func(ctx *cli.Context) error {
			return tokenWrite(ctx, method)
		},
	}
}

func tokenInfo(ctx *cli.Context) error {
	contract, err := env.contract(ctx, nil)
	if err != nil {
		return err
	}
	info, err := contract.Info(withSignal())
	if err != nil {
		return err
	}
	table := newTable("Address", "Name", "Symbol", "Total supply")
	table.Append([]string{contract.Address().Hex(), info.Name, info.Symbol, units.FormatUnits(info.TotalSupply, token.Decimals)})
	table.Render()
	return nil
}

func tokenBalance(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return model.Validationf("at least one holder address required")
	}
	contract, err := env.contract(ctx, nil)
	if err != nil {
		return err
	}
	holders := make([]common.Address, 0, ctx.NArg())
	for _, raw := range ctx.Args() {
		addr, err := parseAddress(raw)
		if err != nil {
			return err
		}
		holders = append(holders, addr)
	}
	balances, err := contract.BalancesOf(withSignal(), holders...)
	if err != nil {
		return err
	}
	table := newTable("Holder", "Balance")
	for i, h := range holders {
		table.Append([]string{h.Hex(), units.FormatUnits(balances[i], token.Decimals)})
	}
	table.Render()
	return nil
}

func tokenWrite(ctx *cli.Context, method string) error {
	c := withSignal()
	op, err := token.NewOperation(method, ctx.Args()...)
	if err != nil {
		return err
	}
	from, signer, err := env.sender(c, ctx)
	if err != nil {
		return err
	}

	reads, err := env.contract(ctx, nil)
	if err != nil {
		return err
	}
	refresher := refresh.New(env.reader, env.logger,
		refresh.WithToken(reads),
		refresh.WithChainLabel(env.label),
	)
	contract, err := env.contract(ctx, env.orchestrator(signer, refresher))
	if err != nil {
		return err
	}

	out, err := contract.WriteAndWait(c, from, op, env.confirmTimeout(ctx))
	printOutcome(out)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if snap, ok := refresher.Latest(); ok {
		printSnapshot(snap)
	}
	return nil
}
