package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/transfer-simulator/internal/api"
	"github.com/ayo6706/transfer-simulator/internal/config"
	"github.com/ayo6706/transfer-simulator/internal/observability"
	"github.com/ayo6706/transfer-simulator/internal/report"
	"github.com/ayo6706/transfer-simulator/internal/simulation"
	"github.com/ayo6706/transfer-simulator/internal/worker"
	"go.uber.org/zap"
)

// Run bootstraps logging, metrics and the optional monitor server, runs one
// simulation and writes its report to out. It blocks until the run ends.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	restore := zap.ReplaceGlobals(logger)
	defer restore()
	observability.Init()

	return run(ctx, cfg, logger, out)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	controller, err := simulation.New(
		simulation.Settings{Workers: cfg.Workers, Amount: cfg.Amount, Accounts: cfg.Accounts},
		simulation.WithSeed(cfg.Seed),
		simulation.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		shutdown, err := startMonitor(cfg, logger, controller)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	if cfg.ProgressInterval > 0 {
		stopProgress := worker.NewProgressWorker(controller).WithInterval(cfg.ProgressInterval).Run(ctx)
		defer stopProgress()
	}

	result, err := controller.Run(ctx)
	if err != nil {
		return err
	}
	if err := report.Render(out, cfg.Format, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// startMonitor serves the monitor router in the background. The returned
// func shuts the server down.
func startMonitor(cfg *config.Config, logger *zap.Logger, controller *simulation.Controller) (func(), error) {
	ln, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.MetricsAddr, err)
	}

	router := api.NewRouter(logger, controller, cfg.PublicRateLimitRPS)
	server := &http.Server{
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("monitor server starting", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("monitor server failed", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("monitor server shutdown failed", zap.Error(err))
		}
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	// Reports go to stdout; keep logs on stderr.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
