package risk

// Acceleration thresholds. Scaling only ever engages with a healthy
// daily buffer behind it.
const (
	profitAccelMinPct    = 3.0
	profitAccelBufferPct = 3.0
	winStreakMin         = 3
	winStreakBufferPct   = 2.5
)

// SizeResult is a fully resolved position size. A zero Size means no
// trade; the other fields are zero too.
type SizeResult struct {
	Size         float64
	StopDistance float64
	RiskPct      float64
	Value        float64
}

// Sizer converts a composite score into a position size under the
// profile's layered caps.
type Sizer struct {
	Profile     Profile
	StopATRMult float64
}

// NewSizer creates a Sizer with the given stop multiple of ATR.
func NewSizer(p Profile, stopATRMult float64) *Sizer {
	if stopATRMult <= 0 {
		stopATRMult = 1.2
	}
	return &Sizer{Profile: p, StopATRMult: stopATRMult}
}

// Size runs the sizing pipeline for one prospective entry.
//
// Order matters: table lookup, volatility scale, profit acceleration,
// win streak, hard cap, then the daily buffer clamp last. The buffer
// clamp is the layer that keeps the multiplicative scaling from ever
// reaching the daily stop, and a buffer at or below zero must size to
// exactly zero.
//
// Size may trip the emergency flags on the state as a side effect when
// it observes a loss threshold already crossed.
func (z *Sizer) Size(s *State, score int, price, atr float64, regime Regime) SizeResult {
	p := z.Profile

	base := p.Table.Lookup(score)
	if base == 0 || !s.CanOpen() || atr <= 0 {
		return SizeResult{}
	}

	dailyLoss := s.DailyLossPct()
	if dailyLoss >= p.DailyEmergencyPct {
		s.DailyEmergency = true
		return SizeResult{}
	}
	if s.OverallLossPct() >= p.OverallLossCutoffPct {
		s.OverallEmergency = true
		return SizeResult{}
	}

	dailyBuffer := s.DailyBuffer(p)
	scale := regime.Multiplier()

	if profit := s.ProfitPct(); profit > profitAccelMinPct && dailyBuffer > profitAccelBufferPct {
		accel := 1.0 + profit*0.01
		if accel > 1.1 {
			accel = 1.1
		}
		scale *= accel
	}

	if s.ConsecutiveWins >= winStreakMin && dailyBuffer > winStreakBufferPct {
		streak := 1.0 + float64(s.ConsecutiveWins)*0.02
		if streak > 1.05 {
			streak = 1.05
		}
		scale *= streak
	}

	riskPct := base * scale
	if riskPct > p.HardCapPct {
		riskPct = p.HardCapPct
	}

	if dailyBuffer <= 0 {
		return SizeResult{}
	}
	if maxBufferRisk := dailyBuffer / p.BufferDivisor; riskPct > maxBufferRisk {
		riskPct = maxBufferRisk
	}

	stopDistance := atr * z.StopATRMult
	riskAmount := s.Balance * riskPct / 100
	size := riskAmount / stopDistance

	return SizeResult{
		Size:         size,
		StopDistance: stopDistance,
		RiskPct:      riskPct,
		Value:        size * price,
	}
}
