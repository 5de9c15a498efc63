package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(10.0, 5, "31337")

	require.NotNil(t, l)
	assert.Equal(t, "31337", l.chain)
	assert.InDelta(t, 10.0, float64(l.limiter.Limit()), 0.001)
	assert.Equal(t, 5, l.limiter.Burst())
}

func TestNewLimiter_DisabledIsNil(t *testing.T) {
	l := NewLimiter(0, 5, "31337")
	assert.Nil(t, l)
	assert.NoError(t, l.Wait(context.Background()))
}

func TestNewLimiter_BurstFloor(t *testing.T) {
	l := NewLimiter(5, 0, "31337")
	require.NotNil(t, l)
	assert.Equal(t, 1, l.limiter.Burst())
}

func TestLimiter_AllowWithinBurst(t *testing.T) {
	const burst = 5
	l := NewLimiter(100, burst, "31337")

	for i := 0; i < burst; i++ {
		start := time.Now()
		require.NoError(t, l.Wait(context.Background()))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	}
}

func TestLimiter_WaitWhenExhausted(t *testing.T) {
	l := NewLimiter(10, 1, "31337")

	require.NoError(t, l.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_ContextCancelled(t *testing.T) {
	l := NewLimiter(0.1, 1, "31337")
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClassifyRPCError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.DeadlineExceeded, "canceled"},
		{&model.ProviderError{Code: model.CodeUserRejected, Message: "User rejected"}, "user_rejected"},
		{fmt.Errorf("wrap: %w", &model.ProviderError{Code: -32000, Message: "nonce too low"}), "rpc_error"},
		{errors.New("http status 429: slow down"), "rate_limited"},
		{errors.New("http status 503: unavailable"), "server_error"},
		{errors.New("dial tcp: connection refused"), "network_error"},
		{errors.New("i/o timeout"), "timeout"},
		{errors.New("weird"), "client_error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRPCError(tt.err))
	}
}
