package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/codecrypto-org/viem/internal/chain/evm/rpc"
	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/tracing"
	"github.com/codecrypto-org/viem/internal/wallet"
	"go.opentelemetry.io/otel/attribute"
)

// Switcher brings wallet providers onto one chain.
type Switcher struct {
	desc   Descriptor
	logger *slog.Logger
	label  string
}

func NewSwitcher(desc Descriptor, logger *slog.Logger) *Switcher {
	return &Switcher{
		desc:   desc,
		logger: logger.With("component", "network", "chain_id", desc.ChainID),
		label:  strconv.FormatUint(desc.ChainID, 10),
	}
}

// EnsureActiveChain makes the provider's active chain equal to the
// descriptor. An unknown chain is added once and switched to once more;
// there is no further retry.
func (s *Switcher) EnsureActiveChain(ctx context.Context, provider wallet.Provider) (err error) {
	ctx, span := tracing.Start(ctx, "network", "ensure_active_chain",
		attribute.Int64("chain_id", int64(s.desc.ChainID)))
	result := "already_active"
	defer func() {
		if err != nil {
			result = resultFor(err)
		}
		metrics.ChainSwitchTotal.WithLabelValues(s.label, result).Inc()
		tracing.End(span, err)
	}()

	if provider == nil {
		return fmt.Errorf("ensure chain %s: %w", s.desc.HexChainID(), model.ErrChainUnavailable)
	}

	current, err := providerChainID(ctx, provider)
	if err != nil {
		return model.NewTransportError("eth_chainId", err)
	}
	if current == s.desc.ChainID {
		return nil
	}
	s.logger.Info("switching wallet chain", "from", current, "provider", provider.Info().Name)

	err = s.switchChain(ctx, provider)
	if err == nil {
		result = "switched"
		return nil
	}
	if code, ok := model.ProviderErrorCode(err); !ok || code != model.CodeUnrecognizedChain {
		return classify("wallet_switchEthereumChain", err)
	}

	s.logger.Info("chain unknown to wallet, adding it", "chain", s.desc.Name)
	if _, err := provider.Request(ctx, "wallet_addEthereumChain", []interface{}{s.desc.AddChainParams()}); err != nil {
		return classify("wallet_addEthereumChain", err)
	}
	if err := s.switchChain(ctx, provider); err != nil {
		return classify("wallet_switchEthereumChain", err)
	}
	result = "added"
	return nil
}

func (s *Switcher) switchChain(ctx context.Context, provider wallet.Provider) error {
	_, err := provider.Request(ctx, "wallet_switchEthereumChain", []interface{}{
		map[string]string{"chainId": s.desc.HexChainID()},
	})
	return err
}

// EnsureActiveChain is a one-shot form of Switcher.EnsureActiveChain.
func EnsureActiveChain(ctx context.Context, desc Descriptor, provider wallet.Provider, logger *slog.Logger) error {
	return NewSwitcher(desc, logger).EnsureActiveChain(ctx, provider)
}

func providerChainID(ctx context.Context, provider wallet.Provider) (uint64, error) {
	raw, err := provider.Request(ctx, "eth_chainId", nil)
	if err != nil {
		return 0, err
	}
	var hexID string
	if err := json.Unmarshal(raw, &hexID); err != nil {
		return 0, fmt.Errorf("unmarshal chain id: %w", err)
	}
	id, err := rpc.ParseHexUint64(hexID)
	if err != nil {
		return 0, fmt.Errorf("decode chain id: %w", err)
	}
	return id, nil
}

func classify(method string, err error) error {
	if code, ok := model.ProviderErrorCode(err); ok && code == model.CodeUserRejected {
		return fmt.Errorf("%s: %w: %w", method, model.ErrChainSwitchRejected, err)
	}
	return model.NewTransportError(method, err)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, model.ErrChainSwitchRejected):
		return "rejected"
	case errors.Is(err, model.ErrChainUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// ChainIDReader is the node call VerifyNode needs.
type ChainIDReader interface {
	ChainID(ctx context.Context) (uint64, error)
}

// VerifyNode checks that the node behind node serves the described chain.
func VerifyNode(ctx context.Context, desc Descriptor, node ChainIDReader) error {
	id, err := node.ChainID(ctx)
	if err != nil {
		return err
	}
	if id != desc.ChainID {
		return fmt.Errorf("%w: node reports chain %d, expected %d", model.ErrChainUnavailable, id, desc.ChainID)
	}
	return nil
}
