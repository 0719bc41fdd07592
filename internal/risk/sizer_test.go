package risk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeforge/edgerunner/internal/risk"
)

func freshState(balance float64) *risk.State {
	s := risk.NewState(balance)
	s.StartDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	return s
}

// wideProfile removes the inner cutoffs so tests can reach the buffer
// clamp directly.
func wideProfile() risk.Profile {
	p := risk.Moderate()
	p.DailyEmergencyPct = 50
	p.DailyLossCutoffPct = 50
	p.OverallLossCutoffPct = 50
	p.MaxDailyLossPct = 4.0
	return p
}

func TestSizerBasicPipeline(t *testing.T) {
	z := risk.NewSizer(risk.Moderate(), 1.2)
	s := freshState(10000)

	// Score 2 maps to 0.6% on the moderate table, under both the hard
	// cap and the fresh-day buffer clamp of 4/5 = 0.8%.
	res := z.Size(s, 2, 50000, 100, risk.RegimeNormal)
	require.Greater(t, res.Size, 0.0)
	assert.InDelta(t, 0.6, res.RiskPct, 1e-9)
	assert.InDelta(t, 120.0, res.StopDistance, 1e-9)
	// 10000 * 0.6% = 60 risked over a 120 stop.
	assert.InDelta(t, 0.5, res.Size, 1e-9)
	assert.InDelta(t, 0.5*50000, res.Value, 1e-6)
}

func TestSizerZeroScoreAndOutOfRange(t *testing.T) {
	z := risk.NewSizer(risk.Moderate(), 1.2)
	s := freshState(10000)

	assert.Zero(t, z.Size(s, 0, 50000, 100, risk.RegimeNormal).Size)
	assert.Zero(t, z.Size(s, 9, 50000, 100, risk.RegimeNormal).Size)
	assert.Zero(t, z.Size(s, -9, 50000, 100, risk.RegimeNormal).Size)
}

func TestSizerNegativeScoreUsesMagnitude(t *testing.T) {
	z := risk.NewSizer(risk.Moderate(), 1.2)
	long := z.Size(freshState(10000), 2, 50000, 100, risk.RegimeNormal)
	short := z.Size(freshState(10000), -2, 50000, 100, risk.RegimeNormal)
	assert.InDelta(t, long.Size, short.Size, 1e-12)
}

func TestSizerDegenerateATR(t *testing.T) {
	z := risk.NewSizer(risk.Moderate(), 1.2)
	s := freshState(10000)
	assert.Zero(t, z.Size(s, 3, 50000, 0, risk.RegimeNormal).Size)
	assert.Zero(t, z.Size(s, 3, 50000, -1, risk.RegimeNormal).Size)
}

func TestSizerVolatilityRegimeScaling(t *testing.T) {
	z := risk.NewSizer(wideProfile(), 1.2)

	normal := z.Size(freshState(10000), 1, 50000, 100, risk.RegimeNormal)
	high := z.Size(freshState(10000), 1, 50000, 100, risk.RegimeHigh)
	extreme := z.Size(freshState(10000), 1, 50000, 100, risk.RegimeExtreme)

	assert.InDelta(t, 0.3, normal.RiskPct, 1e-9)
	assert.InDelta(t, 0.24, high.RiskPct, 1e-9)
	assert.InDelta(t, 0.18, extreme.RiskPct, 1e-9)
}

func TestSizerHardCap(t *testing.T) {
	p := wideProfile()
	p.Table = risk.Table{0, 5.0} // deliberately above the 2.0 cap
	p.MaxDailyLossPct = 50      // keep the buffer clamp out of the way
	z := risk.NewSizer(p, 1.2)

	res := z.Size(freshState(10000), 1, 50000, 100, risk.RegimeNormal)
	assert.InDelta(t, p.HardCapPct, res.RiskPct, 1e-9)
}

func TestSizerEmergencyTripsDuringSizing(t *testing.T) {
	p := risk.Moderate()
	z := risk.NewSizer(p, 1.2)

	s := freshState(10000)
	s.Balance = 9880 // 1.2% daily loss, over the 1.0% emergency line

	res := z.Size(s, 3, 50000, 100, risk.RegimeNormal)
	assert.Zero(t, res.Size)
	assert.True(t, s.DailyEmergency)
}

func TestSizerOverallCutoffTripsDuringSizing(t *testing.T) {
	p := risk.Moderate()
	p.DailyEmergencyPct = 50 // isolate the overall check
	z := risk.NewSizer(p, 1.2)

	s := freshState(10000)
	s.Balance = 9450
	s.DayStartBalance = 9450 // drawdown happened on prior days

	res := z.Size(s, 3, 50000, 100, risk.RegimeNormal)
	assert.Zero(t, res.Size)
	assert.True(t, s.OverallEmergency)
}

func TestSizerProfitAcceleration(t *testing.T) {
	z := risk.NewSizer(wideProfile(), 1.2)

	s := freshState(10000)
	s.Balance = 10500 // 5% ahead
	s.DayStartBalance = 10500

	res := z.Size(s, 1, 50000, 100, risk.RegimeNormal)
	// 0.3 * min(1.1, 1.05) = 0.315.
	assert.InDelta(t, 0.315, res.RiskPct, 1e-9)
}

func TestSizerWinStreakScaling(t *testing.T) {
	z := risk.NewSizer(wideProfile(), 1.2)

	s := freshState(10000)
	s.ConsecutiveWins = 4

	res := z.Size(s, 1, 50000, 100, risk.RegimeNormal)
	// 0.3 * min(1.05, 1.08) = 0.315.
	assert.InDelta(t, 0.315, res.RiskPct, 1e-9)

	// Two wins is below the streak threshold.
	s = freshState(10000)
	s.ConsecutiveWins = 2
	res = z.Size(s, 1, 50000, 100, risk.RegimeNormal)
	assert.InDelta(t, 0.3, res.RiskPct, 1e-9)
}

func TestSizerBufferClamp(t *testing.T) {
	z := risk.NewSizer(wideProfile(), 1.2)

	// Fresh day: buffer 4.0, clamp 0.8 binds score 5's 1.5%.
	res := z.Size(freshState(10000), 5, 50000, 100, risk.RegimeNormal)
	assert.InDelta(t, 0.8, res.RiskPct, 1e-9)

	// Half the buffer spent: clamp tightens to 0.4.
	s := freshState(10000)
	s.Balance = 9800
	res = z.Size(s, 5, 50000, 100, risk.RegimeNormal)
	assert.InDelta(t, 0.4, res.RiskPct, 1e-9)
}

func TestSizerMonotoneInShrinkingBuffer(t *testing.T) {
	// Size must never grow as the remaining daily buffer shrinks, and
	// must be exactly zero once the buffer is exhausted, across streak
	// and profit variations.
	for _, wins := range []int{0, 3, 5} {
		z := risk.NewSizer(wideProfile(), 1.2)
		prev := -1.0
		first := true
		for balance := 10000.0; balance >= 9550; balance -= 10 {
			s := freshState(10000)
			s.Balance = balance
			s.ConsecutiveWins = wins

			res := z.Size(s, 5, 50000, 100, risk.RegimeNormal)
			require.GreaterOrEqual(t, res.Size, 0.0)

			if s.DailyBuffer(z.Profile) <= 0 {
				assert.Zero(t, res.Size,
					"wins=%d balance=%.0f: exhausted buffer must size to zero", wins, balance)
			}
			if !first {
				assert.LessOrEqual(t, res.Size, prev,
					"wins=%d balance=%.0f: size grew as buffer shrank", wins, balance)
			}
			prev = res.Size
			first = false
		}
	}
}
