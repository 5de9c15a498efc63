package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/reader"
	"github.com/codecrypto-org/viem/internal/txn"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const balanceConcurrency = 4

// Caller runs read-only contract calls.
type Caller interface {
	Call(ctx context.Context, contract common.Address, call reader.ContractCall) (any, error)
}

// Submitter sends transactions and waits for their outcome.
type Submitter interface {
	Submit(ctx context.Context, req txn.Request) (model.PendingTransaction, error)
	SubmitAndWait(ctx context.Context, req txn.Request, d time.Duration) (model.Outcome, error)
}

// Info is the token's descriptive state.
type Info struct {
	Name        string
	Symbol      string
	TotalSupply units.Amount
}

// Contract binds the token operations to one deployed address.
type Contract struct {
	address   common.Address
	caller    Caller
	submitter Submitter
	logger    *slog.Logger
}

func NewContract(address common.Address, caller Caller, submitter Submitter, logger *slog.Logger) *Contract {
	return &Contract{
		address:   address,
		caller:    caller,
		submitter: submitter,
		logger:    logger.With("component", "token", "contract", address.Hex()),
	}
}

func (c *Contract) Address() common.Address {
	return c.address
}

// Read performs a read operation and returns its decoded value.
func (c *Contract) Read(ctx context.Context, op Operation) (any, error) {
	if op.Writes() {
		return nil, model.Validationf("%s changes state, use Write", op.Method())
	}
	return c.caller.Call(ctx, c.address, op)
}

// Write submits a state-changing operation from the given account.
func (c *Contract) Write(ctx context.Context, from model.Account, op Operation) (model.PendingTransaction, error) {
	req, err := c.request(from, op)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	tx, err := c.submitter.Submit(ctx, req)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	c.logger.Info("token operation submitted", "op", op.String(), "hash", tx.Hash.Hex())
	return tx, nil
}

// WriteAndWait submits op and waits up to d for its outcome.
func (c *Contract) WriteAndWait(ctx context.Context, from model.Account, op Operation, d time.Duration) (model.Outcome, error) {
	req, err := c.request(from, op)
	if err != nil {
		return model.Outcome{State: model.TxStateBuilding, Err: err}, err
	}
	return c.submitter.SubmitAndWait(ctx, req, d)
}

func (c *Contract) request(from model.Account, op Operation) (txn.Request, error) {
	if !op.Writes() {
		return txn.Request{}, model.Validationf("%s is read-only, use Read", op.Method())
	}
	data, err := op.Pack()
	if err != nil {
		return txn.Request{}, err
	}
	return txn.Request{
		From:  from,
		To:    c.address.Hex(),
		Value: units.Zero,
		Data:  data,
		Call:  op.Method(),
	}, nil
}

// Info reads name, symbol and total supply concurrently.
func (c *Contract) Info(ctx context.Context) (Info, error) {
	var info Info
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.readString(gctx, Name())
		info.Name = v
		return err
	})
	g.Go(func() error {
		v, err := c.readString(gctx, Symbol())
		info.Symbol = v
		return err
	})
	g.Go(func() error {
		v, err := c.readAmount(gctx, TotalSupply())
		info.TotalSupply = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Info{}, err
	}
	return info, nil
}

// BalanceOf reads one holder's token balance.
func (c *Contract) BalanceOf(ctx context.Context, holder common.Address) (units.Amount, error) {
	return c.readAmount(ctx, BalanceOf(holder))
}

// BalancesOf reads several balances; results follow the order of holders.
func (c *Contract) BalancesOf(ctx context.Context, holders ...common.Address) ([]units.Amount, error) {
	out := make([]units.Amount, len(holders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceConcurrency)
	for i, h := range holders {
		g.Go(func() error {
			v, err := c.readAmount(gctx, BalanceOf(h))
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Contract) readString(ctx context.Context, op Operation) (string, error) {
	v, err := c.Read(ctx, op)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected result %T", op.Method(), v)
	}
	return s, nil
}

func (c *Contract) readAmount(ctx context.Context, op Operation) (units.Amount, error) {
	v, err := c.Read(ctx, op)
	if err != nil {
		return units.Amount{}, err
	}
	a, ok := v.(units.Amount)
	if !ok {
		return units.Amount{}, fmt.Errorf("%s: unexpected result %T", op.Method(), v)
	}
	return a, nil
}
