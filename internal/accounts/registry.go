package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

const subscriberBuffer = 4

// Snapshot is the registry state after one change.
type Snapshot struct {
	Exposed []common.Address
	Active  *common.Address
	Epoch   uint64
}

// Registry tracks the accounts exposed by one wallet provider.
type Registry struct {
	provider wallet.Provider
	logger   *slog.Logger
	label    string

	mu      sync.RWMutex
	exposed []common.Address
	active  *common.Address
	epoch   uint64
	applied uint64 // count of applied account sets, orders fetches against Run
	subs    []chan Snapshot
}

// NewRegistry binds the registry to provider. A nil provider is reported as
// ErrProviderNotFound.
func NewRegistry(provider wallet.Provider, logger *slog.Logger) (*Registry, error) {
	if provider == nil {
		return nil, fmt.Errorf("new account registry: %w", model.ErrProviderNotFound)
	}
	label := provider.Info().Name
	return &Registry{
		provider: provider,
		logger:   logger.With("component", "account_registry", "provider", label),
		label:    label,
	}, nil
}

func (r *Registry) Provider() wallet.Provider {
	return r.provider
}

// ListExposed asks the provider for the accounts it currently exposes and
// applies the result.
func (r *Registry) ListExposed(ctx context.Context) ([]common.Address, error) {
	return r.fetch(ctx, "eth_accounts")
}

// RequestAccess prompts the wallet for account access. It blocks until the
// user approves or rejects; a rejection is returned unchanged.
func (r *Registry) RequestAccess(ctx context.Context) ([]common.Address, error) {
	return r.fetch(ctx, "eth_requestAccounts")
}

// fetch applies the reply only if no other set was applied while the request
// was in flight, so a slow reply never overwrites a newer notification.
func (r *Registry) fetch(ctx context.Context, method string) ([]common.Address, error) {
	r.mu.RLock()
	since := r.applied
	r.mu.RUnlock()

	raw, err := r.provider.Request(ctx, method, nil)
	if err != nil {
		return nil, err
	}
	addrs, err := wallet.DecodeAddresses(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if !r.replace(addrs, &since) {
		r.logger.Debug("discarding stale account list", "method", method, "accounts", len(addrs))
	}
	return addrs, nil
}

// Run applies accountsChanged notifications until ctx is done or the
// provider closes its channel. A closed channel counts as an empty set.
func (r *Registry) Run(ctx context.Context) error {
	events := r.provider.AccountsChanged()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case addrs, ok := <-events:
			if !ok {
				r.logger.Warn("provider closed account notifications")
				r.apply(nil)
				return nil
			}
			metrics.AccountsChangedTotal.WithLabelValues(r.label).Inc()
			r.apply(addrs)
		}
	}
}

// apply replaces the exposed set in one step. The active account survives if
// still exposed, otherwise the first exposed account takes over.
func (r *Registry) apply(addrs []common.Address) {
	r.replace(addrs, nil)
}

// replace applies addrs unless since is set and another set was applied after
// it was taken.
func (r *Registry) replace(addrs []common.Address, since *uint64) bool {
	next := make([]common.Address, len(addrs))
	copy(next, addrs)

	r.mu.Lock()
	if since != nil && r.applied != *since {
		r.mu.Unlock()
		return false
	}
	r.applied++
	prev := r.active
	var active *common.Address
	if prev != nil && containsAddress(next, *prev) {
		a := *prev
		active = &a
	} else if len(next) > 0 {
		a := next[0]
		active = &a
	}
	r.exposed = next
	r.active = active
	if !sameAddressPtr(prev, active) {
		r.epoch++
	}
	snap := r.snapshotLocked()
	subs := r.subs
	r.mu.Unlock()

	metrics.AccountsExposed.WithLabelValues(r.label).Set(float64(len(next)))
	if !sameAddressPtr(prev, active) {
		r.logger.Info("active account changed", "from", addrString(prev), "to", addrString(active), "exposed", len(next), "epoch", snap.Epoch)
	}
	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
			r.logger.Debug("dropping snapshot for slow subscriber", "epoch", snap.Epoch)
		}
	}
	return true
}

// SetActive selects one of the exposed accounts.
func (r *Registry) SetActive(addr common.Address) error {
	r.mu.Lock()
	if !containsAddress(r.exposed, addr) {
		r.mu.Unlock()
		return model.Validationf("account %s is not exposed by the provider", addr.Hex())
	}
	changed := r.active == nil || *r.active != addr
	a := addr
	r.active = &a
	if changed {
		r.epoch++
	}
	snap := r.snapshotLocked()
	subs := r.subs
	r.mu.Unlock()

	if changed {
		for _, ch := range subs {
			select {
			case ch <- snap:
			default:
			}
		}
	}
	return nil
}

// Active returns the active account, if any.
func (r *Registry) Active() (model.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return model.Account{}, false
	}
	return model.Account{Address: *r.active, Origin: model.OriginInjected, Index: -1}, true
}

func (r *Registry) Exposed() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]common.Address, len(r.exposed))
	copy(out, r.exposed)
	return out
}

// Epoch advances every time the active account changes.
func (r *Registry) Epoch() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

// IsStale reports whether data read at epoch belongs to a previous active account.
func (r *Registry) IsStale(epoch uint64) bool {
	return r.Epoch() != epoch
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every change.
// Snapshots are dropped for subscribers that fall behind.
func (r *Registry) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}

func (r *Registry) snapshotLocked() Snapshot {
	exposed := make([]common.Address, len(r.exposed))
	copy(exposed, r.exposed)
	var active *common.Address
	if r.active != nil {
		a := *r.active
		active = &a
	}
	return Snapshot{Exposed: exposed, Active: active, Epoch: r.epoch}
}

func containsAddress(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}

func sameAddressPtr(a, b *common.Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func addrString(a *common.Address) string {
	if a == nil {
		return "none"
	}
	return a.Hex()
}
