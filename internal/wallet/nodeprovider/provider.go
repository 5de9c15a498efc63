// Package nodeprovider exposes a node's unlocked accounts as a wallet
// provider. Account changes are detected by polling eth_accounts.
package nodeprovider

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
)

const defaultPollInterval = 2 * time.Second

// Requester is the raw JSON-RPC surface of the node client.
type Requester interface {
	Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)
}

type Provider struct {
	node     Requester
	info     wallet.Info
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
	events   chan []common.Address

	mu    sync.Mutex
	last  []common.Address
	known bool
}

var _ wallet.Provider = (*Provider)(nil)

// Option configures optional Provider behaviour.
type Option func(*Provider)

func WithClock(c clock.Clock) Option {
	return func(p *Provider) {
		p.clock = c
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithName overrides the provider's display name and id.
func WithName(name string) Option {
	return func(p *Provider) {
		p.info.Name = name
		p.info.ID = name
	}
}

func New(node Requester, logger *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		node: node,
		info: wallet.Info{
			ID:    "node",
			Name:  "node",
			Flags: map[string]bool{wallet.FlagNode: true},
		},
		clock:    clock.New(),
		interval: defaultPollInterval,
		events:   make(chan []common.Address, 1),
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = logger.With("component", "nodeprovider", "provider", p.info.Name)
	return p
}

func (p *Provider) Info() wallet.Info {
	return p.info
}

// Request forwards to the node. eth_requestAccounts needs no approval on an
// unlocked node and is served as eth_accounts.
func (p *Provider) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if method == "eth_requestAccounts" {
		method = "eth_accounts"
	}
	return p.node.Request(ctx, method, params)
}

func (p *Provider) AccountsChanged() <-chan []common.Address {
	return p.events
}

// Run polls eth_accounts until ctx is done, then closes the event channel.
func (p *Provider) Run(ctx context.Context) error {
	p.logger.Info("account watcher started", "interval", p.interval)
	defer close(p.events)

	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("account watcher stopping")
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Provider) poll(ctx context.Context) {
	raw, err := p.node.Request(ctx, "eth_accounts", nil)
	if err != nil {
		p.logger.Warn("eth_accounts poll failed", "error", err)
		return
	}
	addrs, err := wallet.DecodeAddresses(raw)
	if err != nil {
		p.logger.Warn("eth_accounts returned malformed payload", "error", err)
		return
	}

	p.mu.Lock()
	changed := p.known && !sameAddresses(p.last, addrs)
	first := !p.known
	p.last = addrs
	p.known = true
	p.mu.Unlock()

	if first || !changed {
		return
	}
	p.logger.Info("accounts changed", "count", len(addrs))
	select {
	case p.events <- addrs:
	case <-ctx.Done():
	}
}

func sameAddresses(a, b []common.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
