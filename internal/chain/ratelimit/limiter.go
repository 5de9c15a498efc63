package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"golang.org/x/time/rate"
)

// Limiter is a client-side token bucket in front of the node. A nil *Limiter
// never delays, so callers can leave limiting disabled without branching.
type Limiter struct {
	limiter *rate.Limiter
	chain   string
}

// NewLimiter allows rps calls per second with a burst of burst tokens.
// It returns nil when rps is not positive.
func NewLimiter(rps float64, burst int, chain string) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		chain:   chain,
	}
}

// Wait consumes exactly one token, blocking until it is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	r := l.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("rate: cannot reserve token")
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}
	metrics.RPCRateLimitWaits.WithLabelValues(l.chain).Inc()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// RecordRPCCall counts one call under its result class.
func RecordRPCCall(chain, method string, err error) {
	metrics.RPCCallsTotal.WithLabelValues(chain, method, ClassifyRPCError(err)).Inc()
}

// ClassifyRPCError buckets an error for metric labels only; the error itself
// is returned to callers untouched.
func ClassifyRPCError(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var rpcErr *model.ProviderError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == model.CodeUserRejected {
			return "user_rejected"
		}
		return "rpc_error"
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout"):
		return "timeout"
	case strings.Contains(lower, "http status 429") || strings.Contains(lower, "too many requests"):
		return "rate_limited"
	case strings.Contains(lower, "http status 5"):
		return "server_error"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") || strings.Contains(lower, "broken pipe") ||
		strings.Contains(lower, "eof"):
		return "network_error"
	default:
		return "client_error"
	}
}
