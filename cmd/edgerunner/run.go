package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tradeforge/edgerunner/internal/config"
	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/feed"
	"github.com/tradeforge/edgerunner/internal/logger"
	"github.com/tradeforge/edgerunner/internal/metrics"
	"github.com/tradeforge/edgerunner/internal/report"
	"github.com/tradeforge/edgerunner/internal/runner"
)

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	return logger.Must(level, cfg.Logging.Format)
}

func loadBars(ctx context.Context, cfg *config.Config) ([]core.Bar, error) {
	start, end, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	provider := &feed.CSVProvider{Path: cfg.Data.File}
	return provider.FetchHistory(ctx, cfg.Data.Symbol, start, end, cfg.Data.Interval)
}

func newRunner(cfg *config.Config, log *zap.Logger, reg *metrics.Registry, extra ...runner.Option) *runner.Runner {
	opts := []runner.Option{runner.WithMetrics(reg)}
	opts = append(opts, extra...)
	if cfg.Report.Journal {
		opts = append(opts, runner.WithJournal(&report.Journal{Dir: cfg.Report.Dir}))
	}
	return runner.New(log, opts...)
}

// serveMetrics starts the prometheus endpoint when enabled. Returns a
// shutdown func; a no-op one when metrics are off.
func serveMetrics(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) func() {
	if !cfg.Metrics.Enabled {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", zap.Error(err))
		}
	}()
	log.Info("metrics endpoint up",
		zap.String("addr", cfg.Metrics.Addr), zap.String("path", cfg.Metrics.Path))
	return func() { srv.Close() }
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()
	return ctx, cancel
}

func printOutcome(out runner.Outcome) {
	if out.Err != nil {
		fmt.Printf("[%s] FAILED: %v\n", out.Name, out.Err)
		return
	}
	report.Render(os.Stdout, out.RunID, out.Result, out.Summary)
}
