package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newLogger(tt.level)
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, logger.Enabled(ctx, tt.want-1))
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", addr.Hex())

	for _, bad := range []string{"", "70997970c51812dc3a010c7d01b50e0d17dc79c8", "0x1234", "0xzz997970c51812dc3a010c7d01b50e0d17dc79c8"} {
		_, err := parseAddress(bad)
		assert.ErrorIs(t, err, model.ErrValidation, bad)
	}
}

func TestAppCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"accounts", "balance", "block", "send", "demo", "token", "ensure-chain", "watch"} {
		assert.True(t, names[want], want)
	}
}
