// Package circuitbreaker stops hammering a node endpoint that keeps failing at the
// transport level. After a cool-down a limited number of trial calls decide
// whether the endpoint is back.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/codecrypto-org/viem/internal/metrics"
)

// ErrCircuitOpen is returned by Allow while the endpoint is considered down.
var ErrCircuitOpen = errors.New("node endpoint breaker open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	FailureThreshold int           // consecutive failures before opening (default 5)
	SuccessThreshold int           // half-open successes before closing (default 2)
	OpenTimeout      time.Duration // time spent open before half-open (default 15s)
	Chain            string        // metrics label
	Clock            clock.Clock
	OnStateChange    func(from, to State)
}

// Breaker guards one endpoint. The zero value is not usable; use New.
type Breaker struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	failures  int
	successes int
	openedAt  time.Time
}

func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	if cfg.Chain == "" {
		cfg.Chain = "unknown"
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	b := &Breaker{cfg: cfg}
	metrics.RPCBreakerState.WithLabelValues(cfg.Chain).Set(float64(StateClosed))
	return b
}

// Allow reports whether a call may go out. A nil Breaker always allows.
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	if b.state == StateOpen {
		metrics.RPCBreakerRejections.WithLabelValues(b.cfg.Chain).Inc()
		return ErrCircuitOpen
	}
	return nil
}

// Record feeds the result of one call. Only transport failures should be
// recorded as failures; an error object returned by the node means it is up.
func (b *Breaker) Record(failed bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if failed {
		b.failures++
		b.successes = 0
		switch {
		case b.state == StateHalfOpen:
			b.openLocked()
		case b.state == StateClosed && b.failures >= b.cfg.FailureThreshold:
			b.openLocked()
		}
		return
	}
	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.setLocked(StateClosed)
		}
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	return b.state
}

func (b *Breaker) expireLocked() {
	if b.state == StateOpen && b.cfg.Clock.Since(b.openedAt) >= b.cfg.OpenTimeout {
		b.setLocked(StateHalfOpen)
	}
}

func (b *Breaker) openLocked() {
	b.openedAt = b.cfg.Clock.Now()
	b.setLocked(StateOpen)
}

func (b *Breaker) setLocked(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.successes = 0
	if to == StateClosed {
		b.failures = 0
	}
	metrics.RPCBreakerState.WithLabelValues(b.cfg.Chain).Set(float64(to))
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
