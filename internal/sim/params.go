package sim

import (
	"fmt"

	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/risk"
)

// Params fully configures one simulation run. Everything that used to
// be a strategy constant lives here so variants are configuration, not
// subclasses.
type Params struct {
	InitialBalance float64
	Profile        risk.Profile

	// Stop geometry, in ATR multiples and reward units.
	StopATRMult  float64
	TrailATRMult float64
	TakeProfitRR float64

	// ExitThreshold is the score magnitude at which an opposing signal
	// closes the position.
	ExitThreshold int

	// Session filter skips the inclusive UTC hour range entirely.
	SessionFilter bool
	SkipHourStart int
	SkipHourEnd   int

	HourlyTradeLimit int

	Regime risk.RegimeParams
}

// DefaultParams returns the 1-hour crypto calibration for a profile.
func DefaultParams(profile risk.Profile) Params {
	return Params{
		InitialBalance:   10000,
		Profile:          profile,
		StopATRMult:      1.2,
		TrailATRMult:     0.8,
		TakeProfitRR:     2.5,
		ExitThreshold:    3,
		SessionFilter:    true,
		SkipHourStart:    2,
		SkipHourEnd:      6,
		HourlyTradeLimit: 3,
		Regime:           risk.DefaultRegimeParams(),
	}
}

// Validate checks the parameters, including the embedded profile.
func (p Params) Validate() error {
	if p.InitialBalance <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial balance must be positive, got %.2f", p.InitialBalance))
	}
	if p.StopATRMult <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("stop multiple must be positive, got %.2f", p.StopATRMult))
	}
	if p.TakeProfitRR <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("reward ratio must be positive, got %.2f", p.TakeProfitRR))
	}
	if p.SessionFilter && (p.SkipHourStart < 0 || p.SkipHourEnd > 23 || p.SkipHourStart > p.SkipHourEnd) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bad session skip range [%d, %d]", p.SkipHourStart, p.SkipHourEnd))
	}
	if p.HourlyTradeLimit < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("hourly trade limit cannot be negative, got %d", p.HourlyTradeLimit))
	}
	return p.Profile.Validate()
}

// inSkipSession reports whether the hour falls in the filtered range.
func (p Params) inSkipSession(hour int) bool {
	return p.SessionFilter && hour >= p.SkipHourStart && hour <= p.SkipHourEnd
}
