package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradeforge/edgerunner/internal/config"
	"github.com/tradeforge/edgerunner/internal/metrics"
	"github.com/tradeforge/edgerunner/internal/runner"
)

var (
	backtestFile    string
	backtestSymbol  string
	backtestFrom    string
	backtestTo      string
	backtestProfile string
	backtestBalance float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one backtest",
	Long:  "Score historical bars, simulate under the account's loss limits, and show performance statistics",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestFile, "file", "", "CSV bar history (overrides config)")
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "symbol to backtest (overrides config)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "start date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "end date YYYY-MM-DD (overrides config)")
	backtestCmd.Flags().StringVar(&backtestProfile, "profile", "", "risk preset: conservative, moderate, aggressive")
	backtestCmd.Flags().Float64Var(&backtestBalance, "balance", 0, "starting balance (overrides config)")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigWithFlags()
	if err != nil {
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

	job, err := runner.BuildJob(cfg, bars, backtestProfile)
	if err != nil {
		return err
	}

	outcomes := newRunner(cfg, log, reg).RunBatch(ctx, []runner.Job{job})
	printOutcome(outcomes[0])
	return outcomes[0].Err
}

func loadConfigWithFlags() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if backtestFile != "" {
		cfg.Data.File = backtestFile
	}
	if backtestSymbol != "" {
		cfg.Data.Symbol = backtestSymbol
	}
	if backtestFrom != "" {
		cfg.Data.Start = backtestFrom
	}
	if backtestTo != "" {
		cfg.Data.End = backtestTo
	}
	if backtestBalance > 0 {
		cfg.Account.Balance = backtestBalance
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
