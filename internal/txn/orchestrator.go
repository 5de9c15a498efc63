// Package txn submits transactions and tracks each one until it is mined,
// reverted, or its caller stops waiting.
package txn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/tracing"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
)

const defaultPollInterval = time.Second

// ReceiptSource looks up receipts; nil means not mined yet.
type ReceiptSource interface {
	GetReceipt(ctx context.Context, hash common.Hash) (*model.Receipt, error)
}

// Sleeper pauses between receipt polls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type clockSleeper struct {
	clock clock.Clock
}

func (s clockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := s.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Option func(*Orchestrator)

func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithClock drives timestamps, timeouts and the default sleeper from c.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleeper = s
	}
}

// WithChainLabel sets the chain label used on metrics.
func WithChainLabel(chain string) Option {
	return func(o *Orchestrator) {
		o.chain = chain
	}
}

type Orchestrator struct {
	signer       Signer
	receipts     ReceiptSource
	logger       *slog.Logger
	clock        clock.Clock
	sleeper      Sleeper
	pollInterval time.Duration
	chain        string

	hooksMu sync.RWMutex
	hooks   []func(model.Outcome)
}

func NewOrchestrator(signer Signer, receipts ReceiptSource, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		signer:       signer,
		receipts:     receipts,
		logger:       logger.With("component", "orchestrator"),
		clock:        clock.New(),
		pollInterval: defaultPollInterval,
		chain:        "unknown",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sleeper == nil {
		o.sleeper = clockSleeper{clock: o.clock}
	}
	return o
}

// OnOutcome registers fn to run after every terminal outcome.
func (o *Orchestrator) OnOutcome(fn func(model.Outcome)) {
	o.hooksMu.Lock()
	defer o.hooksMu.Unlock()
	o.hooks = append(o.hooks, fn)
}

// Submit validates req and hands it to the signer. Validation failures never
// reach the network.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (tx model.PendingTransaction, err error) {
	if err := req.Validate(); err != nil {
		metrics.TxRejectedTotal.WithLabelValues(o.chain, "validation").Inc()
		return model.PendingTransaction{}, err
	}

	ctx, span := tracing.Start(ctx, "txn", "submit",
		attribute.String("from", req.From.Display()),
		attribute.String("to", req.To),
		attribute.String("kind", req.kind()))
	defer func() { tracing.End(span, err) }()

	hash, err := o.signer.Send(ctx, req)
	if err != nil {
		metrics.TxRejectedTotal.WithLabelValues(o.chain, "submit").Inc()
		return model.PendingTransaction{}, err
	}
	metrics.TxSubmittedTotal.WithLabelValues(o.chain, req.kind()).Inc()
	span.SetAttributes(attribute.String("tx_hash", hash.Hex()))

	tx = model.PendingTransaction{
		Hash:        hash,
		From:        req.From.Address,
		To:          req.Recipient(),
		Call:        req.Call,
		Value:       req.Value.Big(),
		Data:        append([]byte(nil), req.Data...),
		SubmittedAt: o.clock.Now(),
	}
	o.logger.Info("transaction submitted", "hash", hash.Hex(), "from", req.From.Display(), "to", req.To, "kind", req.kind())
	return tx, nil
}

// Wait polls for tx's receipt until it is mined or ctx is done. A mined
// failure stops polling immediately with ErrReverted; ctx expiry yields
// TimedOut with ErrTimedOut. A failed receipt lookup ends the wait with the
// transport error unchanged and the outcome still Submitted, so the caller
// may Wait again on the same hash. The transaction itself is never cancelled.
//
// OnOutcome hooks run before Wait returns and should be quick.
func (o *Orchestrator) Wait(ctx context.Context, tx model.PendingTransaction) (model.Outcome, error) {
	out := o.wait(ctx, tx)
	o.notify(out)
	return out, out.Err
}

func (o *Orchestrator) wait(ctx context.Context, tx model.PendingTransaction) model.Outcome {
	ctx, span := tracing.Start(ctx, "txn", "wait", attribute.String("tx_hash", tx.Hash.Hex()))
	metrics.TxInFlight.WithLabelValues(o.chain).Inc()
	defer metrics.TxInFlight.WithLabelValues(o.chain).Dec()

	out := o.poll(ctx, tx)

	metrics.TxOutcomesTotal.WithLabelValues(o.chain, out.State.String()).Inc()
	metrics.TxReceiptPolls.WithLabelValues(o.chain).Observe(float64(out.Polls))
	if out.State.Terminal() && !tx.SubmittedAt.IsZero() {
		metrics.TxConfirmLatency.WithLabelValues(o.chain).Observe(o.clock.Since(tx.SubmittedAt).Seconds())
	}
	span.SetAttributes(attribute.String("state", out.State.String()), attribute.Int("polls", out.Polls))
	tracing.End(span, out.Err)

	if out.State == model.TxStateSubmitted {
		o.logger.Warn("receipt poll failed", "hash", tx.Hash.Hex(), "poll", out.Polls, "error", out.Err)
	} else {
		o.logger.Info("transaction tracked", "hash", tx.Hash.Hex(), "state", out.State, "polls", out.Polls)
	}
	return out
}

func (o *Orchestrator) poll(ctx context.Context, tx model.PendingTransaction) model.Outcome {
	out := model.Outcome{Tx: tx, State: model.TxStateSubmitted}
	for {
		if ctx.Err() != nil {
			return o.timedOut(out, ctx.Err())
		}

		receipt, err := o.receipts.GetReceipt(ctx, tx.Hash)
		out.Polls++
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return o.timedOut(out, ctx.Err())
			}
			out.Err = err
			return out
		case receipt != nil:
			out.Receipt = receipt
			if receipt.Succeeded() {
				out.State = model.TxStateConfirmed
				return out
			}
			out.State = model.TxStateReverted
			out.Err = fmt.Errorf("%s in block %d: %w", tx.Hash.Hex(), receipt.BlockNumber, model.ErrReverted)
			return out
		}

		if err := o.sleeper.Sleep(ctx, o.pollInterval); err != nil {
			return o.timedOut(out, err)
		}
	}
}

func (o *Orchestrator) timedOut(out model.Outcome, cause error) model.Outcome {
	out.State = model.TxStateTimedOut
	if errors.Is(cause, context.Canceled) {
		out.Err = fmt.Errorf("%s: %w: %w", out.Tx.Hash.Hex(), model.ErrTimedOut, cause)
	} else {
		out.Err = fmt.Errorf("%s after %d polls: %w", out.Tx.Hash.Hex(), out.Polls, model.ErrTimedOut)
	}
	return out
}

// WaitWithTimeout bounds Wait by d. A non-positive d waits without bound.
func (o *Orchestrator) WaitWithTimeout(ctx context.Context, tx model.PendingTransaction, d time.Duration) (model.Outcome, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = o.clock.WithTimeout(ctx, d)
		defer cancel()
	}
	return o.Wait(ctx, tx)
}

// SubmitAndWait submits req and waits up to d for its outcome.
func (o *Orchestrator) SubmitAndWait(ctx context.Context, req Request, d time.Duration) (model.Outcome, error) {
	tx, err := o.Submit(ctx, req)
	if err != nil {
		return model.Outcome{State: model.TxStateBuilding, Err: err}, err
	}
	return o.WaitWithTimeout(ctx, tx, d)
}

// Track waits for tx in its own goroutine. The channel yields exactly one
// outcome and is then closed; hooks run after the outcome is delivered.
func (o *Orchestrator) Track(ctx context.Context, tx model.PendingTransaction) <-chan model.Outcome {
	ch := make(chan model.Outcome, 1)
	go func() {
		out := o.wait(ctx, tx)
		ch <- out
		close(ch)
		o.notify(out)
	}()
	return ch
}

func (o *Orchestrator) notify(out model.Outcome) {
	o.hooksMu.RLock()
	hooks := make([]func(model.Outcome), len(o.hooks))
	copy(hooks, o.hooks)
	o.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(out)
	}
}
