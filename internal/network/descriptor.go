// Package network describes the target chain and brings wallet providers
// onto it.
package network

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/units"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AnvilChainID is the chain id the local development node is started with.
const AnvilChainID uint64 = 3133731337

type NativeCurrency struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// Descriptor is the static identity of one chain. It is not mutated after
// loading.
type Descriptor struct {
	ChainID          uint64         `yaml:"chain_id"`
	Name             string         `yaml:"name"`
	NativeCurrency   NativeCurrency `yaml:"native_currency"`
	RPCURLs          []string       `yaml:"rpc_urls"`
	BlockExplorerURL string         `yaml:"block_explorer_url"`
}

// Anvil returns the descriptor of the local development node at rpcURL.
func Anvil(rpcURL string) Descriptor {
	return Descriptor{
		ChainID: AnvilChainID,
		Name:    "Anvil",
		NativeCurrency: NativeCurrency{
			Name:     "Ether",
			Symbol:   "ETH",
			Decimals: units.EtherDecimals,
		},
		RPCURLs:          []string{rpcURL},
		BlockExplorerURL: rpcURL,
	}
}

func (d Descriptor) Validate() error {
	if d.ChainID == 0 {
		return model.Validationf("chain id must be positive")
	}
	if strings.TrimSpace(d.Name) == "" {
		return model.Validationf("chain name is required")
	}
	if d.NativeCurrency.Decimals != units.EtherDecimals {
		return model.Validationf("native currency decimals must be %d, got %d", units.EtherDecimals, d.NativeCurrency.Decimals)
	}
	if d.NativeCurrency.Symbol == "" {
		return model.Validationf("native currency symbol is required")
	}
	if len(d.RPCURLs) == 0 {
		return model.Validationf("at least one rpc url is required")
	}
	for _, raw := range d.RPCURLs {
		if err := checkURL(raw); err != nil {
			return model.Validationf("rpc url %q: %v", raw, err)
		}
	}
	if d.BlockExplorerURL != "" {
		if err := checkURL(d.BlockExplorerURL); err != nil {
			return model.Validationf("explorer url %q: %v", d.BlockExplorerURL, err)
		}
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("absolute url required")
	}
	return nil
}

// HexChainID is the chain id in the 0x form wallets compare against.
func (d Descriptor) HexChainID() string {
	return hexutil.EncodeUint64(d.ChainID)
}

// PrimaryRPC returns the first rpc url.
func (d Descriptor) PrimaryRPC() string {
	if len(d.RPCURLs) == 0 {
		return ""
	}
	return d.RPCURLs[0]
}

// AddChainParams is the wallet_addEthereumChain parameter object.
type AddChainParams struct {
	ChainID           string             `json:"chainId"`
	ChainName         string             `json:"chainName"`
	NativeCurrency    nativeCurrencyJSON `json:"nativeCurrency"`
	RPCURLs           []string           `json:"rpcUrls"`
	BlockExplorerURLs []string           `json:"blockExplorerUrls,omitempty"`
}

type nativeCurrencyJSON struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

func (d Descriptor) AddChainParams() AddChainParams {
	p := AddChainParams{
		ChainID:   d.HexChainID(),
		ChainName: d.Name,
		NativeCurrency: nativeCurrencyJSON{
			Name:     d.NativeCurrency.Name,
			Symbol:   d.NativeCurrency.Symbol,
			Decimals: d.NativeCurrency.Decimals,
		},
		RPCURLs: append([]string(nil), d.RPCURLs...),
	}
	if d.BlockExplorerURL != "" {
		p.BlockExplorerURLs = []string{d.BlockExplorerURL}
	}
	return p
}
