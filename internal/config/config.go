package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codecrypto-org/viem/internal/network"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DevMnemonic is the well-known mnemonic of the local development node.
const DevMnemonic = "test test test test test test test test test test test junk"

type Config struct {
	Network network.Descriptor
	RPC     RPCConfig
	Wallet  WalletConfig
	Tx      TxConfig
	Token   TokenConfig
	Server  ServerConfig
	Tracing TracingConfig
	Log     LogConfig
}

type RPCConfig struct {
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	// Consecutive transport failures before calls fail fast; 0 disables.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

type WalletConfig struct {
	Mnemonic       string
	AccountCount   int
	BridgeAddr     string
	ExpectedWallet string // provider identity flag, e.g. isMetaMask
	PollInterval   time.Duration
}

type TxConfig struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

type TokenConfig struct {
	Address string
}

type ServerConfig struct {
	MetricsAddr string
}

type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

type LogConfig struct {
	Level string
}

// Load reads configuration from an optional .env file, an optional network
// YAML file and the environment, in increasing precedence.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	desc := network.Anvil(getEnv("RPC_URL", "http://127.0.0.1:8545"))
	if path := getEnv("NETWORK_FILE", ""); path != "" {
		if err := mergeNetworkFile(&desc, path); err != nil {
			return nil, err
		}
	}
	applyNetworkEnv(&desc)

	cfg := &Config{
		Network: desc,
		RPC: RPCConfig{
			Timeout:          getEnvDuration("RPC_TIMEOUT", 30*time.Second),
			RateLimitRPS:     getEnvFloat("RPC_RATE_LIMIT_RPS", 0),
			RateLimitBurst:   getEnvInt("RPC_RATE_LIMIT_BURST", 10),
			BreakerThreshold: getEnvInt("RPC_BREAKER_THRESHOLD", 5),
			BreakerCooldown:  getEnvDuration("RPC_BREAKER_COOLDOWN", 15*time.Second),
		},
		Wallet: WalletConfig{
			Mnemonic:       getEnv("MNEMONIC", DevMnemonic),
			AccountCount:   getEnvInt("ACCOUNT_COUNT", 10),
			BridgeAddr:     getEnv("BRIDGE_ADDR", "127.0.0.1:8765"),
			ExpectedWallet: getEnv("EXPECTED_WALLET", "isMetaMask"),
			PollInterval:   getEnvDuration("WALLET_POLL_INTERVAL", 2*time.Second),
		},
		Tx: TxConfig{
			PollInterval:   getEnvDuration("TX_POLL_INTERVAL", time.Second),
			ConfirmTimeout: getEnvDuration("TX_CONFIRM_TIMEOUT", 2*time.Minute),
		},
		Token: TokenConfig{
			Address: getEnv("TOKEN_ADDRESS", ""),
		},
		Server: ServerConfig{
			MetricsAddr: getEnv("METRICS_ADDR", ""),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if c.RPC.RateLimitRPS < 0 {
		return fmt.Errorf("RPC_RATE_LIMIT_RPS must be >= 0")
	}
	if c.RPC.BreakerThreshold < 0 {
		return fmt.Errorf("RPC_BREAKER_THRESHOLD must be >= 0")
	}
	if c.Tx.PollInterval <= 0 {
		return fmt.Errorf("TX_POLL_INTERVAL must be positive")
	}
	if c.Tx.ConfirmTimeout < 0 {
		return fmt.Errorf("TX_CONFIRM_TIMEOUT must be >= 0")
	}
	if c.Wallet.AccountCount < 1 {
		return fmt.Errorf("ACCOUNT_COUNT must be >= 1")
	}
	if c.Token.Address != "" && !(strings.HasPrefix(c.Token.Address, "0x") && common.IsHexAddress(c.Token.Address)) {
		return fmt.Errorf("TOKEN_ADDRESS %q is not a hex address", c.Token.Address)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// loadDotEnv fills unset variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type networkFile struct {
	Network network.Descriptor `yaml:"network"`
}

func mergeNetworkFile(dst *network.Descriptor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read network file: %w", err)
	}
	var parsed networkFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse network file %s: %w", path, err)
	}
	src := parsed.Network
	if src.ChainID != 0 {
		dst.ChainID = src.ChainID
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.NativeCurrency.Name != "" {
		dst.NativeCurrency.Name = src.NativeCurrency.Name
	}
	if src.NativeCurrency.Symbol != "" {
		dst.NativeCurrency.Symbol = src.NativeCurrency.Symbol
	}
	if src.NativeCurrency.Decimals != 0 {
		dst.NativeCurrency.Decimals = src.NativeCurrency.Decimals
	}
	if len(src.RPCURLs) > 0 {
		dst.RPCURLs = src.RPCURLs
	}
	if src.BlockExplorerURL != "" {
		dst.BlockExplorerURL = src.BlockExplorerURL
	}
	return nil
}

func applyNetworkEnv(dst *network.Descriptor) {
	if v := getEnv("RPC_URL", ""); v != "" {
		dst.RPCURLs = []string{v}
	}
	dst.ChainID = getEnvUint64("CHAIN_ID", dst.ChainID)
	dst.Name = getEnv("CHAIN_NAME", dst.Name)
	dst.NativeCurrency.Name = getEnv("CURRENCY_NAME", dst.NativeCurrency.Name)
	dst.NativeCurrency.Symbol = getEnv("CURRENCY_SYMBOL", dst.NativeCurrency.Symbol)
	dst.NativeCurrency.Decimals = getEnvInt("CURRENCY_DECIMALS", dst.NativeCurrency.Decimals)
	dst.BlockExplorerURL = getEnv("EXPLORER_URL", dst.BlockExplorerURL)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvUint64(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseUint(v, 0, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
