// Package refresh re-reads balances touched by a confirmed transaction.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/token"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 10 * time.Second
	updateBuffer   = 8
)

type BalanceReader interface {
	GetBalances(ctx context.Context, addresses []common.Address) ([]units.Amount, error)
}

type TokenBalances interface {
	Address() common.Address
	BalancesOf(ctx context.Context, holders ...common.Address) ([]units.Amount, error)
}

// EpochSource stamps snapshots so readers can tell whether the active
// account changed since.
type EpochSource interface {
	Epoch() uint64
}

// Snapshot holds balances read right after one confirmation.
type Snapshot struct {
	TxHash common.Hash
	Block  uint64
	Epoch  uint64
	Native map[common.Address]units.Amount
	Token  map[common.Address]units.Amount
	At     time.Time
}

type Option func(*Refresher)

// WithToken also refreshes holder balances of tok.
func WithToken(tok TokenBalances) Option {
	return func(r *Refresher) {
		r.token = tok
	}
}

func WithEpochSource(src EpochSource) Option {
	return func(r *Refresher) {
		r.epochs = src
	}
}

func WithTimeout(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithChainLabel(chain string) Option {
	return func(r *Refresher) {
		r.chain = chain
	}
}

type Refresher struct {
	balances BalanceReader
	token    TokenBalances
	epochs   EpochSource
	logger   *slog.Logger
	timeout  time.Duration
	chain    string

	mu      sync.Mutex
	updates chan Snapshot
	latest  *Snapshot
}

func New(balances BalanceReader, logger *slog.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		balances: balances,
		logger:   logger.With("component", "refresh"),
		timeout:  defaultTimeout,
		chain:    "unknown",
		updates:  make(chan Snapshot, updateBuffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Updates delivers snapshots; when the consumer lags the oldest is dropped.
func (r *Refresher) Updates() <-chan Snapshot {
	return r.updates
}

// Latest returns the most recent snapshot, if any.
func (r *Refresher) Latest() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Snapshot{}, false
	}
	return *r.latest, true
}

// OnOutcome refreshes after confirmed outcomes. It matches the
// orchestrator's hook signature.
func (r *Refresher) OnOutcome(out model.Outcome) {
	if out.State != model.TxStateConfirmed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.Refresh(ctx, out); err != nil {
		r.logger.Warn("balance refresh failed", "hash", out.Tx.Hash.Hex(), "error", err)
	}
}

// Refresh reads balances of every party of out.
func (r *Refresher) Refresh(ctx context.Context, out model.Outcome) (snap Snapshot, err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.RefreshTotal.WithLabelValues(r.chain, result).Inc()
	}()

	var epoch uint64
	if r.epochs != nil {
		epoch = r.epochs.Epoch()
	}
	parties := Parties(out.Tx)
	holders := parties
	if r.token != nil && out.Tx.To == r.token.Address() {
		holders = withoutAddress(parties, r.token.Address())
	}

	var native, tokens []units.Amount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		native, err = r.balances.GetBalances(gctx, parties)
		return err
	})
	if r.token != nil {
		g.Go(func() error {
			var err error
			tokens, err = r.token.BalancesOf(gctx, holders...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("refresh after %s: %w", out.Tx.Hash.Hex(), err)
	}

	snap = Snapshot{
		TxHash: out.Tx.Hash,
		Epoch:  epoch,
		Native: make(map[common.Address]units.Amount, len(parties)),
		At:     time.Now(),
	}
	if out.Receipt != nil {
		snap.Block = out.Receipt.BlockNumber
	}
	for i, addr := range parties {
		snap.Native[addr] = native[i]
	}
	if r.token != nil {
		snap.Token = make(map[common.Address]units.Amount, len(holders))
		for i, addr := range holders {
			snap.Token[addr] = tokens[i]
		}
	}
	r.publish(snap)
	return snap, nil
}

func (r *Refresher) publish(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = &snap
	for {
		select {
		case r.updates <- snap:
			return
		default:
		}
		select {
		case <-r.updates:
		default:
		}
	}
}

// Parties lists the distinct addresses whose balances tx can change: sender,
// recipient, and for token calls the account argument.
func Parties(tx model.PendingTransaction) []common.Address {
	out := []common.Address{tx.From}
	add := func(a common.Address) {
		if a == (common.Address{}) {
			return
		}
		for _, have := range out {
			if have == a {
				return
			}
		}
		out = append(out, a)
	}
	add(tx.To)
	if tx.Call != "" {
		if op, err := token.Decode(tx.Data); err == nil {
			add(op.Account())
		}
	}
	return out
}

func withoutAddress(list []common.Address, drop common.Address) []common.Address {
	out := make([]common.Address, 0, len(list))
	for _, a := range list {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}
