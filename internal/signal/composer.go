// Package signal reduces indicator columns to one bounded integer score
// per bar. The score's sign gives direction, its magnitude confidence;
// a zero score means stand aside.
package signal

import (
	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/indicator"
)

// MaxScore bounds the composite score to [-MaxScore, MaxScore].
const MaxScore = 5

// Params holds the scoring thresholds.
type Params struct {
	// RSI bands. The bull and bear bands deliberately overlap in the
	// middle so lukewarm momentum contributes nothing.
	RSIBullMin float64
	RSIBullMax float64
	RSIBearMin float64
	RSIBearMax float64

	// ADXStrong awards the regime point; ADXGate below it zeroes the
	// score outright.
	ADXStrong float64
	ADXGate   float64

	// VolumeConfirm awards the volume point; VolumeFloor and
	// VolatilityFloor are hard gates.
	VolumeConfirm   float64
	VolumeFloor     float64
	VolatilityFloor float64

	// BandEdge is how deep into the Bollinger band a bounce or
	// rejection must reach to count as a pattern.
	BandEdge float64

	// BreakoutLookback is the window for prior high/low breakouts.
	BreakoutLookback int
}

// DefaultParams returns the 1-hour crypto calibration.
func DefaultParams() Params {
	return Params{
		RSIBullMin:       40,
		RSIBullMax:       80,
		RSIBearMin:       20,
		RSIBearMax:       60,
		ADXStrong:        25,
		ADXGate:          20,
		VolumeConfirm:    1.2,
		VolumeFloor:      0.8,
		VolatilityFloor:  0.7,
		BandEdge:         0.2,
		BreakoutLookback: 20,
	}
}

// Breakdown records how a score was assembled, for journaling and tests.
type Breakdown struct {
	Trend           int
	Momentum        int
	Regime          int
	Volume          int
	Pattern         int
	ConflictPenalty bool
	Gated           bool
	Score           int
}

// Composer scores bars against a fixed points-and-thresholds table.
type Composer struct {
	params Params
}

// New creates a Composer. Zero params fall back to DefaultParams.
func New(params Params) *Composer {
	if params == (Params{}) {
		params = DefaultParams()
	}
	return &Composer{params: params}
}

// Series scores every bar. Warm-up bars score zero.
func (c *Composer) Series(bars []core.Bar, cols indicator.Columns) []int {
	scores := make([]int, len(bars))
	for i := range bars {
		scores[i], _ = c.Score(bars, cols, i)
	}
	return scores
}

// Score computes the composite score for bar i.
//
// Terms are summed first, then the direction-conflict penalty is applied,
// then the regime gate zeroes everything if it fails. The penalty-before-
// gate ordering is intentional and must not be reordered: it changes
// backtest results.
func (c *Composer) Score(bars []core.Bar, cols indicator.Columns, i int) (int, Breakdown) {
	var b Breakdown
	if !cols.Ready(i) {
		return 0, b
	}

	close := bars[i].Close
	b.Trend = c.trendTerm(close, cols, i)
	b.Momentum = c.momentumTerm(cols, i)

	provisional := b.Trend + b.Momentum
	dir := signOf(provisional)

	if dir != 0 && cols.ADX.ADX[i] >= c.params.ADXStrong {
		b.Regime = dir
	}
	if dir != 0 && cols.VolumeRatio[i] >= c.params.VolumeConfirm {
		b.Volume = dir
	}
	b.Pattern = c.patternTerm(bars, cols, i, b.Trend)

	score := b.Trend + b.Momentum + b.Regime + b.Volume + b.Pattern

	// Conflicting trend and momentum shave one point off the magnitude
	// instead of canceling to zero.
	if b.Trend != 0 && b.Momentum != 0 && signOf(b.Trend) != signOf(b.Momentum) {
		b.ConflictPenalty = true
		score = shrinkToward(score, 1)
	}

	// Hard regime gate, applied last.
	if cols.ADX.ADX[i] < c.params.ADXGate ||
		cols.VolumeRatio[i] < c.params.VolumeFloor ||
		cols.VolatilityRatio[i] < c.params.VolatilityFloor {
		b.Gated = true
		score = 0
	}

	if score > MaxScore {
		score = MaxScore
	} else if score < -MaxScore {
		score = -MaxScore
	}
	b.Score = score
	return score, b
}

// trendTerm awards ±2 for full EMA alignment, ±1 for partial.
func (c *Composer) trendTerm(close float64, cols indicator.Columns, i int) int {
	fast, mid, slow := cols.EMAFast[i], cols.EMAMid[i], cols.EMASlow[i]
	switch {
	case close > fast && fast > mid && mid > slow:
		return 2
	case close < fast && fast < mid && mid < slow:
		return -2
	case close > fast && fast > mid:
		return 1
	case close < fast && fast < mid:
		return -1
	}
	return 0
}

// momentumTerm awards ±1 only when RSI and MACD agree on direction.
func (c *Composer) momentumTerm(cols indicator.Columns, i int) int {
	rsi := cols.RSI[i]
	rsiBull := rsi > c.params.RSIBullMin && rsi < c.params.RSIBullMax
	rsiBear := rsi > c.params.RSIBearMin && rsi < c.params.RSIBearMax

	macdBull := cols.MACD.Line[i] > cols.MACD.Signal[i]
	macdBear := cols.MACD.Line[i] < cols.MACD.Signal[i]

	switch {
	case rsiBull && macdBull && !rsiBear:
		return 1
	case rsiBear && macdBear && !rsiBull:
		return -1
	}
	return 0
}

// patternTerm awards one confirmation point in the trend's direction for
// a band bounce, a band rejection, or a lookback-window breakout.
func (c *Composer) patternTerm(bars []core.Bar, cols indicator.Columns, i, trend int) int {
	if trend == 0 {
		return 0
	}

	pos := cols.Bollinger.Position(bars[i].Close, i)
	if trend > 0 && pos < c.params.BandEdge {
		return 1
	}
	if trend < 0 && pos > 1-c.params.BandEdge {
		return -1
	}

	start := i - c.params.BreakoutLookback
	if start < 0 {
		start = 0
	}
	if start == i {
		return 0
	}
	hi, lo := bars[start].High, bars[start].Low
	for j := start + 1; j < i; j++ {
		if bars[j].High > hi {
			hi = bars[j].High
		}
		if bars[j].Low < lo {
			lo = bars[j].Low
		}
	}
	if trend > 0 && bars[i].Close > hi {
		return 1
	}
	if trend < 0 && bars[i].Close < lo {
		return -1
	}
	return 0
}

func signOf(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// shrinkToward moves v toward zero by n, never crossing it.
func shrinkToward(v, n int) int {
	switch {
	case v > 0:
		v -= n
		if v < 0 {
			v = 0
		}
	case v < 0:
		v += n
		if v > 0 {
			v = 0
		}
	}
	return v
}
