package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/codecrypto-org/viem/internal/accounts"
	"github.com/codecrypto-org/viem/internal/chain/evm/rpc"
	"github.com/codecrypto-org/viem/internal/chain/ratelimit"
	"github.com/codecrypto-org/viem/internal/circuitbreaker"
	"github.com/codecrypto-org/viem/internal/config"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/network"
	"github.com/codecrypto-org/viem/internal/reader"
	"github.com/codecrypto-org/viem/internal/refresh"
	"github.com/codecrypto-org/viem/internal/token"
	"github.com/codecrypto-org/viem/internal/txn"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/codecrypto-org/viem/internal/wallet/bridge"
	"github.com/codecrypto-org/viem/internal/wallet/nodeprovider"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/urfave/cli.v1"
)

// environment holds the clients shared by all commands of one invocation.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	label  string
	client *rpc.Client
	reader *reader.Reader

	closers []func(context.Context) error
}

func newEnvironment(cfg *config.Config, logger *slog.Logger) *environment {
	label := strings.ToLower(cfg.Network.Name)
	opts := []rpc.Option{
		rpc.WithTimeout(cfg.RPC.Timeout),
		rpc.WithChainLabel(label),
	}
	if cfg.RPC.RateLimitRPS > 0 {
		opts = append(opts, rpc.WithLimiter(ratelimit.NewLimiter(cfg.RPC.RateLimitRPS, cfg.RPC.RateLimitBurst, label)))
	}
	if cfg.RPC.BreakerThreshold > 0 {
		opts = append(opts, rpc.WithBreaker(circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.RPC.BreakerThreshold,
			OpenTimeout:      cfg.RPC.BreakerCooldown,
			Chain:            label,
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("node endpoint breaker state changed", "from", from.String(), "to", to.String())
			},
		})))
	}
	client := rpc.NewClient(cfg.Network.PrimaryRPC(), logger, opts...)

	return &environment{
		cfg:    cfg,
		logger: logger,
		label:  label,
		client: client,
		reader: reader.New(client, logger),
	}
}

func (e *environment) onClose(fn func(context.Context) error) {
	e.closers = append(e.closers, fn)
}

func (e *environment) close(ctx context.Context) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			e.logger.Warn("shutdown step failed", "error", err)
		}
	}
	e.closers = nil
}

func (e *environment) keyring(ctx *cli.Context) (*accounts.Keyring, error) {
	count := e.cfg.Wallet.AccountCount
	if ctx.IsSet(countFlag.Name) {
		count = ctx.Int(countFlag.Name)
	}
	return accounts.KeyringFromMnemonic(e.cfg.Wallet.Mnemonic, count)
}

func (e *environment) confirmTimeout(ctx *cli.Context) time.Duration {
	if d := ctx.Duration(timeoutFlag.Name); d > 0 {
		return d
	}
	return e.cfg.Tx.ConfirmTimeout
}

// sender resolves the signing account and its signer from the command flags:
// --wallet selects a provider, --key a raw key, otherwise --index into the
// configured mnemonic.
func (e *environment) sender(c context.Context, ctx *cli.Context) (model.Account, txn.Signer, error) {
	if err := network.VerifyNode(c, e.cfg.Network, e.reader); err != nil {
		return model.Account{}, nil, err
	}
	chainID := e.cfg.Network.ChainID

	switch kind := ctx.String(walletFlag.Name); kind {
	case "":
	case "node", "bridge":
		provider, err := e.provider(c, kind)
		if err != nil {
			return model.Account{}, nil, err
		}
		registry, err := accounts.NewRegistry(provider, e.logger)
		if err != nil {
			return model.Account{}, nil, err
		}
		if _, err := registry.RequestAccess(c); err != nil {
			return model.Account{}, nil, fmt.Errorf("request accounts: %w", err)
		}
		acct, ok := registry.Active()
		if !ok {
			return model.Account{}, nil, model.Validationf("wallet exposes no accounts")
		}
		return acct, txn.NewProviderSigner(provider, chainID), nil
	default:
		return model.Account{}, nil, model.Validationf("unknown wallet %q, want node or bridge", kind)
	}

	var (
		acct model.Account
		err  error
	)
	if key := ctx.String(keyFlag.Name); key != "" {
		acct, err = accounts.DeriveFromKey(key)
	} else {
		acct, err = accounts.DeriveFromMnemonic(e.cfg.Wallet.Mnemonic, ctx.Int(indexFlag.Name))
	}
	if err != nil {
		return model.Account{}, nil, err
	}
	return acct, txn.NewLocalSigner(e.client, chainID, e.logger), nil
}

// provider connects a wallet provider of the given kind and makes sure it is
// on the configured chain.
func (e *environment) provider(c context.Context, kind string) (wallet.Provider, error) {
	if kind == "node" {
		p := nodeprovider.New(e.client, e.logger, nodeprovider.WithPollInterval(e.cfg.Wallet.PollInterval))
		return wallet.Select([]wallet.Provider{p}, wallet.FlagNode)
	}

	server, err := e.startBridge()
	if err != nil {
		return nil, err
	}
	e.logger.Info("waiting for wallet", "url", "http://"+e.cfg.Wallet.BridgeAddr, "flag", e.cfg.Wallet.ExpectedWallet)
	p, err := server.Await(c, e.cfg.Wallet.ExpectedWallet)
	if err != nil {
		return nil, err
	}
	if err := network.EnsureActiveChain(c, e.cfg.Network, p, e.logger); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *environment) startBridge() (*bridge.Server, error) {
	server := bridge.NewServer(e.logger)
	ln, err := net.Listen("tcp", e.cfg.Wallet.BridgeAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", e.cfg.Wallet.BridgeAddr, err)
	}
	httpServer := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("wallet bridge failed", "error", err)
		}
	}()
	e.onClose(httpServer.Shutdown)
	return server, nil
}

// orchestrator wires a signer to receipt polling and, when given, a refresher
// that re-reads balances after each confirmation.
func (e *environment) orchestrator(signer txn.Signer, refresher *refresh.Refresher) *txn.Orchestrator {
	orch := txn.NewOrchestrator(signer, e.reader, e.logger,
		txn.WithPollInterval(e.cfg.Tx.PollInterval),
		txn.WithChainLabel(e.label),
	)
	if refresher != nil {
		orch.OnOutcome(refresher.OnOutcome)
	}
	return orch
}

func (e *environment) tokenAddress(ctx *cli.Context) (common.Address, error) {
	raw := e.cfg.Token.Address
	if v := ctx.String(tokenFlag.Name); v != "" {
		raw = v
	}
	if raw == "" {
		return common.Address{}, model.Validationf("token address required: set --token or TOKEN_ADDRESS")
	}
	if !strings.HasPrefix(raw, "0x") || !common.IsHexAddress(raw) {
		return common.Address{}, model.Validationf("invalid token address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// contract binds the token at the configured address. Writes go through orch
// when it is non-nil.
func (e *environment) contract(ctx *cli.Context, orch *txn.Orchestrator) (*token.Contract, error) {
	addr, err := e.tokenAddress(ctx)
	if err != nil {
		return nil, err
	}
	var submitter token.Submitter
	if orch != nil {
		submitter = orch
	}
	return token.NewContract(addr, e.reader, submitter, e.logger), nil
}
