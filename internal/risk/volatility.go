package risk

import (
	"math"

	"github.com/tradeforge/edgerunner/internal/core"
)

// Regime classifies recent realized volatility for size scaling.
type Regime string

const (
	RegimeNormal  Regime = "normal"
	RegimeHigh    Regime = "high"
	RegimeExtreme Regime = "extreme"
)

// Multiplier returns the size scale for the regime. Unknown regimes
// scale by 1.
func (r Regime) Multiplier() float64 {
	switch r {
	case RegimeHigh:
		return 0.8
	case RegimeExtreme:
		return 0.6
	}
	return 1.0
}

// RegimeParams controls volatility classification.
type RegimeParams struct {
	Window           int
	HighThreshold    float64
	ExtremeThreshold float64
}

// DefaultRegimeParams returns the 24-bar hourly calibration.
func DefaultRegimeParams() RegimeParams {
	return RegimeParams{Window: 24, HighThreshold: 5.0, ExtremeThreshold: 8.0}
}

// AssessRegime classifies the volatility leading into bar i from the
// standard deviation of close-to-close percent changes over the window.
// Bars inside the first window are always normal.
func AssessRegime(bars []core.Bar, i int, p RegimeParams) Regime {
	if p.Window <= 0 {
		p = DefaultRegimeParams()
	}
	if i < p.Window {
		return RegimeNormal
	}

	changes := make([]float64, 0, p.Window-1)
	for j := i - p.Window + 1; j < i; j++ {
		prev := bars[j].Close
		if prev == 0 {
			continue
		}
		changes = append(changes, (bars[j+1].Close-prev)/prev)
	}
	if len(changes) < 2 {
		return RegimeNormal
	}

	var mean float64
	for _, c := range changes {
		mean += c
	}
	mean /= float64(len(changes))

	var variance float64
	for _, c := range changes {
		d := c - mean
		variance += d * d
	}
	variance /= float64(len(changes) - 1)

	vol := math.Sqrt(variance) * 100
	switch {
	case vol > p.ExtremeThreshold:
		return RegimeExtreme
	case vol > p.HighThreshold:
		return RegimeHigh
	}
	return RegimeNormal
}
