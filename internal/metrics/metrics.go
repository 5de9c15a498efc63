package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client-side counters and histograms, partitioned by chain id.

var (
	// RPC transport
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Total JSON-RPC calls by method and result class",
	}, []string{"chain", "method", "status"})

	RPCCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainops",
		Subsystem: "rpc",
		Name:      "call_duration_seconds",
		Help:      "JSON-RPC round-trip duration",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"chain", "method"})

	RPCRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "rpc",
		Name:      "rate_limit_waits_total",
		Help:      "Total calls delayed by the client-side rate limiter",
	}, []string{"chain"})

	RPCBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chainops",
		Subsystem: "rpc",
		Name:      "breaker_state",
		Help:      "Node endpoint breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"chain"})

	RPCBreakerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "rpc",
		Name:      "breaker_rejections_total",
		Help:      "Calls refused without reaching the node while the breaker was open",
	}, []string{"chain"})

	// Transaction orchestrator
	TxSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "submitted_total",
		Help:      "Total transactions accepted by the node",
	}, []string{"chain", "kind"})

	TxRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "rejected_total",
		Help:      "Total transactions that failed validation or submission",
	}, []string{"chain", "stage"})

	TxOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "outcomes_total",
		Help:      "Total terminal tracking outcomes by state",
	}, []string{"chain", "state"})

	TxReceiptPolls = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "receipt_polls",
		Help:      "Receipt polls needed to reach a terminal state",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
	}, []string{"chain"})

	TxConfirmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "confirm_duration_seconds",
		Help:      "Time from submission to terminal state",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"chain"})

	TxInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chainops",
		Subsystem: "tx",
		Name:      "in_flight",
		Help:      "Transactions currently being tracked",
	}, []string{"chain"})

	// Accounts and network
	AccountsChangedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "accounts",
		Name:      "changed_total",
		Help:      "Total accountsChanged notifications applied",
	}, []string{"provider"})

	AccountsExposed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chainops",
		Subsystem: "accounts",
		Name:      "exposed",
		Help:      "Accounts currently exposed by the provider",
	}, []string{"provider"})

	ChainSwitchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "network",
		Name:      "chain_switch_total",
		Help:      "Chain switch attempts by result",
	}, []string{"chain", "result"})

	// Wallet bridge
	BridgeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainops",
		Subsystem: "bridge",
		Name:      "sessions",
		Help:      "Connected wallet bridge sessions",
	})

	BridgeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "bridge",
		Name:      "requests_total",
		Help:      "Requests relayed to browser wallets by result",
	}, []string{"method", "result"})

	// State refresh
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainops",
		Subsystem: "refresh",
		Name:      "runs_total",
		Help:      "Post-confirmation balance refreshes by result",
	}, []string{"chain", "result"})
)
