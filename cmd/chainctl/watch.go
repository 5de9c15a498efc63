package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/codecrypto-org/viem/internal/accounts"
	"github.com/codecrypto-org/viem/internal/wallet/nodeprovider"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"
)

var errWalletClosed = errors.New("wallet disconnected")

var watchCommand = cli.Command{
	Name:   "watch",
	Usage:  "Connect a wallet and follow its exposed accounts until interrupted",
	Flags:  []cli.Flag{walletFlag},
	Action: watchAccounts,
}

func watchAccounts(ctx *cli.Context) error {
	kind := ctx.String(walletFlag.Name)
	if kind == "" {
		kind = "bridge"
	}
	c := withSignal()
	provider, err := env.provider(c, kind)
	if err != nil {
		return err
	}
	registry, err := accounts.NewRegistry(provider, env.logger)
	if err != nil {
		return err
	}
	if _, err := registry.RequestAccess(c); err != nil {
		return err
	}
	updates := registry.Subscribe()
	printRegistry(registry.Snapshot())

	g, gctx := errgroup.WithContext(c)
	if p, ok := provider.(*nodeprovider.Provider); ok {
		g.Go(func() error { return p.Run(gctx) })
	}
	g.Go(func() error {
		if err := registry.Run(gctx); err != nil {
			return err
		}
		return errWalletClosed
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case snap := <-updates:
				printRegistry(snap)
			}
		}
	})

	err = g.Wait()
	switch {
	case errors.Is(err, errWalletClosed):
		env.logger.Info("wallet disconnected")
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	}
	return err
}

func printRegistry(snap accounts.Snapshot) {
	active := "-"
	if snap.Active != nil {
		active = snap.Active.Hex()
	}
	exposed := make([]string, len(snap.Exposed))
	for i, addr := range snap.Exposed {
		exposed[i] = addr.Hex()
	}
	table := newTable("Epoch", "Active", "Exposed")
	table.Append([]string{strconv.FormatUint(snap.Epoch, 10), active, strings.Join(exposed, "\n")})
	table.Render()
}

