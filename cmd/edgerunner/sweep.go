package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradeforge/edgerunner/internal/metrics"
	"github.com/tradeforge/edgerunner/internal/runner"
)

var sweepConcurrency int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run every risk preset against the same history",
	Long:  "Backtest the conservative, moderate, and aggressive presets in parallel and compare results",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepConcurrency, "concurrency", 3, "parallel runs")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg)
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	reg := metrics.NewRegistry()
	stopMetrics := serveMetrics(cfg, reg, log)
	defer stopMetrics()

	bars, err := loadBars(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading bars: %w", err)
	}
	log.Info("bars loaded",
		zap.String("symbol", cfg.Data.Symbol), zap.Int("count", len(bars)))

	jobs, err := runner.SweepJobs(cfg, bars)
	if err != nil {
		return err
	}

	r := newRunner(cfg, log, reg, runner.WithConcurrency(sweepConcurrency))
	outcomes := r.RunBatch(ctx, jobs)

	var failed int
	for _, out := range outcomes {
		printOutcome(out)
		if out.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(outcomes))
	}
	return nil
}
