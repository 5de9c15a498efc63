// Package wallet defines the boundary to EIP-1193 style wallet providers and
// selects one provider out of an aggregated set.
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/ethereum/go-ethereum/common"
)

// Well-known self-identification flags.
const (
	FlagMetaMask = "isMetaMask"
	FlagNode     = "isNode"
)

// Info is how a provider identifies itself.
type Info struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Flags map[string]bool `json:"flags"`
}

// Has reports whether the provider sets flag to true.
func (i Info) Has(flag string) bool {
	return i.Flags[flag]
}

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks . Provider

// Provider is an explicit handle to one wallet. Request may block until the
// user approves or rejects out-of-band.
type Provider interface {
	Info() Info
	Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)
	// AccountsChanged delivers every accountsChanged notification in order.
	// The channel is closed when the provider disconnects.
	AccountsChanged() <-chan []common.Address
}

// Select returns the first provider that self-identifies with flag.
func Select(providers []Provider, flag string) (Provider, error) {
	for _, p := range providers {
		if p == nil {
			continue
		}
		if p.Info().Has(flag) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no provider with %s among %d", model.ErrProviderNotFound, flag, len(providers))
}

// DecodeAddresses parses a JSON array of hex addresses, rejecting malformed entries.
func DecodeAddresses(raw json.RawMessage) ([]common.Address, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("unmarshal accounts: %w", err)
	}
	out := make([]common.Address, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("malformed account %q", s)
		}
		out = append(out, common.HexToAddress(s))
	}
	return out, nil
}
