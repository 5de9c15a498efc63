package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/codecrypto-org/viem/internal/config"
	"github.com/codecrypto-org/viem/internal/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Set via linker flags.
	gitCommit = ""

	app *cli.App
	env *environment

	rootCtx    context.Context
	stopSignal context.CancelFunc
)

func init() {
	app = cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "drive accounts, balances and transactions on a local EVM development node"
	app.Version = gitCommit
	app.Flags = []cli.Flag{
		envFileFlag,
		rpcURLFlag,
		logLevelFlag,
		metricsAddrFlag,
	}
	app.Commands = []cli.Command{
		accountsCommand,
		balanceCommand,
		blockCommand,
		sendCommand,
		demoCommand,
		tokenCommand,
		ensureChainCommand,
		watchCommand,
	}
	app.Before = before
	app.After = after
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// before applies global flag overrides, loads configuration and starts the
// ambient services every command shares.
func before(ctx *cli.Context) error {
	overrides := map[string]string{
		"ENV_FILE":     ctx.GlobalString(envFileFlag.Name),
		"RPC_URL":      ctx.GlobalString(rpcURLFlag.Name),
		"LOG_LEVEL":    ctx.GlobalString(logLevelFlag.Name),
		"METRICS_ADDR": ctx.GlobalString(metricsAddrFlag.Name),
	}
	for k, v := range overrides {
		if v != "" {
			if err := os.Setenv(k, v); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	rootCtx, stopSignal = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	shutdownTracing, err := tracing.Init(rootCtx, tracing.Config{
		ServiceName: "chainctl",
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	env = newEnvironment(cfg, logger)
	env.onClose(shutdownTracing)

	if cfg.Server.MetricsAddr != "" {
		go runMetricsServer(rootCtx, cfg.Server.MetricsAddr, logger)
	}
	return nil
}

func after(*cli.Context) error {
	if env != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		env.close(ctx)
	}
	if stopSignal != nil {
		stopSignal()
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func runMetricsServer(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server shutdown error", "error", err)
		}
	}()

	logger.Info("metrics server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}
