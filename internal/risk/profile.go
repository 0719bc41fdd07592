// Package risk implements layered percentage loss caps and position
// sizing for prop-challenge style accounts. Every limit is expressed as
// a percentage of the initial account balance.
package risk

import (
	"fmt"

	"github.com/tradeforge/edgerunner/internal/core"
)

// Table maps score magnitude to base risk percent. Magnitudes outside
// the table size to zero.
type Table []float64

// Lookup returns the base risk percent for a signed score.
func (t Table) Lookup(score int) float64 {
	m := score
	if m < 0 {
		m = -m
	}
	if m >= len(t) {
		return 0
	}
	return t[m]
}

// Profile is one complete risk parameter set.
type Profile struct {
	Name string

	// Outer limits. Breaching either fails the account.
	MaxDailyLossPct   float64
	MaxOverallLossPct float64

	// Inner cutoffs, hit well before the outer limits.
	DailyLossCutoffPct   float64
	OverallLossCutoffPct float64
	DailyEmergencyPct    float64

	// Per-trade limits.
	HardCapPct float64
	Table      Table

	// Challenge terms.
	ProfitTargetPct float64
	MinTradingDays  int

	// Entry quality bar on score magnitude.
	EntryThreshold int

	// BufferDivisor caps a single trade to this fraction of the
	// remaining daily loss buffer.
	BufferDivisor float64
}

// Conservative returns the tightest preset.
func Conservative() Profile {
	return Profile{
		Name:                 "conservative",
		MaxDailyLossPct:      3.0,
		MaxOverallLossPct:    8.0,
		DailyLossCutoffPct:   1.0,
		OverallLossCutoffPct: 4.0,
		DailyEmergencyPct:    0.5,
		HardCapPct:           1.5,
		Table:                Table{0, 0.2, 0.4, 0.6, 0.8, 1.0, 1.2, 1.4},
		ProfitTargetPct:      15.0,
		MinTradingDays:       5,
		EntryThreshold:       4,
		BufferDivisor:        5,
	}
}

// Moderate returns the default preset.
func Moderate() Profile {
	return Profile{
		Name:                 "moderate",
		MaxDailyLossPct:      4.0,
		MaxOverallLossPct:    10.0,
		DailyLossCutoffPct:   1.5,
		OverallLossCutoffPct: 5.0,
		DailyEmergencyPct:    1.0,
		HardCapPct:           2.0,
		Table:                Table{0, 0.3, 0.6, 0.9, 1.2, 1.5, 1.8, 2.0},
		ProfitTargetPct:      20.0,
		MinTradingDays:       5,
		EntryThreshold:       3,
		BufferDivisor:        5,
	}
}

// Aggressive returns the loosest preset.
func Aggressive() Profile {
	return Profile{
		Name:                 "aggressive",
		MaxDailyLossPct:      6.0,
		MaxOverallLossPct:    12.0,
		DailyLossCutoffPct:   2.0,
		OverallLossCutoffPct: 6.0,
		DailyEmergencyPct:    1.5,
		HardCapPct:           3.0,
		Table:                Table{0, 0.5, 1.0, 1.5, 2.0, 2.5, 2.8, 3.0},
		ProfitTargetPct:      25.0,
		MinTradingDays:       5,
		EntryThreshold:       3,
		BufferDivisor:        5,
	}
}

// ProfileByName resolves a preset by its name.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "conservative":
		return Conservative(), nil
	case "moderate", "":
		return Moderate(), nil
	case "aggressive":
		return Aggressive(), nil
	}
	return Profile{}, core.WrapError(core.ErrUnknownProfile,
		fmt.Errorf("no preset named %q", name))
}

// Validate checks a profile for internally consistent limits.
func (p Profile) Validate() error {
	switch {
	case p.MaxDailyLossPct <= 0 || p.MaxOverallLossPct <= 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("loss limits must be positive, got daily %.2f overall %.2f",
				p.MaxDailyLossPct, p.MaxOverallLossPct))
	case p.DailyLossCutoffPct > p.MaxDailyLossPct:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("daily cutoff %.2f exceeds daily limit %.2f",
				p.DailyLossCutoffPct, p.MaxDailyLossPct))
	case p.OverallLossCutoffPct > p.MaxOverallLossPct:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("overall cutoff %.2f exceeds overall limit %.2f",
				p.OverallLossCutoffPct, p.MaxOverallLossPct))
	case p.DailyEmergencyPct > p.DailyLossCutoffPct:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("emergency threshold %.2f exceeds daily cutoff %.2f",
				p.DailyEmergencyPct, p.DailyLossCutoffPct))
	case p.HardCapPct <= 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("hard cap must be positive, got %.2f", p.HardCapPct))
	case len(p.Table) == 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("empty risk table"))
	case p.BufferDivisor <= 0:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("buffer divisor must be positive, got %.2f", p.BufferDivisor))
	}
	for i, r := range p.Table {
		if r < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("negative risk %.2f at table index %d", r, i))
		}
	}
	return nil
}
