package main

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	envFileFlag = cli.StringFlag{
		Name:   "env-file",
		Usage:  "Optional dotenv file loaded before the environment",
		Value:  ".env",
		EnvVar: "ENV_FILE",
	}
	rpcURLFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "JSON-RPC endpoint of the node, overrides RPC_URL",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error), overrides LOG_LEVEL",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "Serve Prometheus metrics on this address, overrides METRICS_ADDR",
	}

	// account selection
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hex private key of the sender",
	}
	indexFlag = cli.IntFlag{
		Name:  "index",
		Usage: "Derivation index of the sender in the configured mnemonic",
	}
	walletFlag = cli.StringFlag{
		Name:  "wallet",
		Usage: "Sign through a wallet provider instead of a local key: node or bridge",
	}
	countFlag = cli.IntFlag{
		Name:  "count",
		Usage: "Number of accounts to derive, overrides ACCOUNT_COUNT",
	}
	showKeysFlag = cli.BoolFlag{
		Name:  "show-keys",
		Usage: "Print private keys next to addresses",
	}

	// transactions
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Recipient address",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "Amount in ether, e.g. 1.5",
	}
	noWaitFlag = cli.BoolFlag{
		Name:  "no-wait",
		Usage: "Return after submission without waiting for a receipt",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "Confirmation timeout, overrides TX_CONFIRM_TIMEOUT",
	}

	// token
	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "Token contract address, overrides TOKEN_ADDRESS",
	}
)
