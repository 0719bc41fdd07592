// Package runner assembles runs from configuration and executes them.
// Runs are independent: each owns its state, so a batch parallelizes
// freely across configurations while every run stays bar-sequential
// inside.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradeforge/edgerunner/internal/config"
	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/indicator"
	"github.com/tradeforge/edgerunner/internal/metrics"
	"github.com/tradeforge/edgerunner/internal/report"
	"github.com/tradeforge/edgerunner/internal/risk"
	"github.com/tradeforge/edgerunner/internal/signal"
	"github.com/tradeforge/edgerunner/internal/sim"
)

// Job is one prepared run.
type Job struct {
	Name   string
	Params sim.Params
	Inputs sim.Inputs
}

// Outcome is the terminal state of one job. Err is set when the run
// aborted; the rest of the batch is unaffected.
type Outcome struct {
	RunID    string
	Name     string
	Result   *sim.Result
	Summary  report.Summary
	Err      error
	Duration time.Duration
}

// Runner executes batches.
type Runner struct {
	logger      *zap.Logger
	metrics     *metrics.Registry
	journal     *report.Journal
	concurrency int
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithJournal writes every completed run to the journal directory.
func WithJournal(j *report.Journal) Option {
	return func(r *Runner) { r.journal = j }
}

// WithConcurrency caps parallel runs. Defaults to 4.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Runner. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{logger: logger, concurrency: 4}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RunBatch executes the jobs with bounded parallelism and returns
// outcomes in job order. A failing run never takes its siblings down.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = r.runOne(ctx, job)
		}(i, job)
	}
	wg.Wait()
	return outcomes
}

func (r *Runner) runOne(ctx context.Context, job Job) Outcome {
	out := Outcome{
		RunID: uuid.NewString(),
		Name:  job.Name,
	}
	log := r.logger.With(zap.String("run_id", out.RunID), zap.String("job", job.Name))

	if r.metrics != nil {
		r.metrics.RunStarted()
		defer r.metrics.RunFinished()
	}

	started := time.Now()
	simulator, err := sim.New(job.Params, log)
	if err == nil {
		out.Result, err = simulator.Run(ctx, job.Inputs)
	}
	out.Duration = time.Since(started)

	if err != nil {
		out.Err = err
		log.Error("run failed", zap.Error(err), zap.Duration("duration", out.Duration))
		if r.metrics != nil {
			r.metrics.RecordRun(job.Params.Profile.Name, "error", out.Duration.Seconds())
		}
		return out
	}

	out.Summary = report.Summarize(out.Result)
	r.observe(job, out)

	log.Info("run complete",
		zap.Duration("duration", out.Duration),
		zap.Int("trades", out.Summary.TotalTrades),
		zap.Float64("return_pct", out.Summary.ReturnPct),
		zap.Bool("challenge_complete", out.Result.ChallengeComplete))

	if r.journal != nil {
		if err := r.journal.WriteRun(out.RunID, out.Result, out.Summary); err != nil {
			log.Warn("journal write failed", zap.Error(err))
		}
	}
	return out
}

func (r *Runner) observe(job Job, out Outcome) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordRun(job.Params.Profile.Name, "ok", out.Duration.Seconds())
	r.metrics.RecordBars(out.Result.BarsProcessed)
	for reason, n := range out.Summary.ExitReasons {
		for i := 0; i < n; i++ {
			r.metrics.RecordTrade(reason)
		}
	}
	r.metrics.RecordSkip("session", out.Result.Skipped.Session)
	r.metrics.RecordSkip("emergency", out.Result.Skipped.Emergency)
	r.metrics.RecordSkip("hourly_limit", out.Result.Skipped.HourlyLimit)
	r.metrics.RecordSkip("zero_size", out.Result.Skipped.ZeroSize)
	r.metrics.RecordSkip("weak_score", out.Result.Skipped.WeakScore)
}

// BuildJob prepares one run from configuration and bar history: resolve
// the profile, compute indicator columns, score every bar, classify
// volatility, and bundle it all as simulator inputs.
func BuildJob(cfg *config.Config, bars []core.Bar, profileName string) (Job, error) {
	if profileName == "" {
		profileName = cfg.Account.Profile
	}

	override := *cfg
	override.Account.Profile = profileName
	profile, err := override.Profile()
	if err != nil {
		return Job{}, err
	}

	params := sim.Params{
		InitialBalance:   cfg.Account.Balance,
		Profile:          profile,
		StopATRMult:      cfg.Simulator.StopATRMult,
		TrailATRMult:     cfg.Simulator.TrailATRMult,
		TakeProfitRR:     cfg.Simulator.TakeProfitRR,
		ExitThreshold:    cfg.Simulator.ExitThreshold,
		SessionFilter:    cfg.Simulator.SessionFilter,
		SkipHourStart:    cfg.Simulator.SkipHourStart,
		SkipHourEnd:      cfg.Simulator.SkipHourEnd,
		HourlyTradeLimit: cfg.Simulator.HourlyTradeLimit,
		Regime: risk.RegimeParams{
			Window:           cfg.Simulator.RegimeWindow,
			HighThreshold:    cfg.Simulator.RegimeHighThreshold,
			ExtremeThreshold: cfg.Simulator.RegimeExtremeThreshold,
		},
	}

	cols := indicator.Compute(bars, indicator.DefaultParams())
	composer := signal.New(signal.Params{
		RSIBullMin:       cfg.Composer.RSIBullMin,
		RSIBullMax:       cfg.Composer.RSIBullMax,
		RSIBearMin:       cfg.Composer.RSIBearMin,
		RSIBearMax:       cfg.Composer.RSIBearMax,
		ADXStrong:        cfg.Composer.ADXStrong,
		ADXGate:          cfg.Composer.ADXGate,
		VolumeConfirm:    cfg.Composer.VolumeConfirm,
		VolumeFloor:      cfg.Composer.VolumeFloor,
		VolatilityFloor:  cfg.Composer.VolatilityFloor,
		BandEdge:         cfg.Composer.BandEdge,
		BreakoutLookback: cfg.Composer.BreakoutLookback,
	})

	in := sim.Inputs{
		Symbol: cfg.Data.Symbol,
		Bars:   bars,
		Scores: composer.Series(bars, cols),
		ATR:    cols.ATR,
	}
	in.MaterializeRegimes(params.Regime)

	return Job{Name: profileName, Params: params, Inputs: in}, nil
}

// SweepJobs prepares one job per risk preset over the same bars.
func SweepJobs(cfg *config.Config, bars []core.Bar) ([]Job, error) {
	jobs := make([]Job, 0, 3)
	for _, name := range []string{"conservative", "moderate", "aggressive"} {
		job, err := BuildJob(cfg, bars, name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
