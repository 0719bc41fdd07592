package risk

import (
	"fmt"
	"time"
)

// State tracks the account-level risk picture across a run. It is a
// plain value threaded through the simulator, never shared between
// concurrent runs.
type State struct {
	InitialBalance  float64
	Balance         float64
	DayStartBalance float64

	CurrentDay  time.Time
	TradingDays map[time.Time]struct{}

	ConsecutiveWins   int
	ConsecutiveLosses int

	// CanTradeToday clears at the daily loss cutoff; the emergency
	// flags engage at tighter thresholds. DailyEmergency resets at the
	// next day boundary, OverallEmergency never resets within a run.
	CanTradeToday    bool
	DailyEmergency   bool
	OverallEmergency bool

	ChallengeComplete bool
	Alerts            []string
}

// NewState creates a State with the full balance available.
func NewState(initialBalance float64) *State {
	return &State{
		InitialBalance:  initialBalance,
		Balance:         initialBalance,
		DayStartBalance: initialBalance,
		TradingDays:     map[time.Time]struct{}{},
		CanTradeToday:   true,
	}
}

// StartDay rolls the daily counters when the calendar day changes.
// Returns true when a rollover happened.
func (s *State) StartDay(day time.Time) bool {
	if day.Equal(s.CurrentDay) {
		return false
	}
	s.CurrentDay = day
	s.DayStartBalance = s.Balance
	s.DailyEmergency = false
	s.CanTradeToday = true
	return true
}

// MarkTradingDay records the current day as an active trading day.
func (s *State) MarkTradingDay() {
	s.TradingDays[s.CurrentDay] = struct{}{}
}

// DailyLossPct is today's realized loss as a percent of the initial
// balance. Negative when the day is in profit.
func (s *State) DailyLossPct() float64 {
	return (s.DayStartBalance - s.Balance) / s.InitialBalance * 100
}

// OverallLossPct is the run's drawdown from the initial balance.
func (s *State) OverallLossPct() float64 {
	return (s.InitialBalance - s.Balance) / s.InitialBalance * 100
}

// ProfitPct is the run's gain over the initial balance.
func (s *State) ProfitPct() float64 {
	return (s.Balance - s.InitialBalance) / s.InitialBalance * 100
}

// DailyBuffer is the loss room left before the daily limit.
func (s *State) DailyBuffer(p Profile) float64 {
	return p.MaxDailyLossPct - s.DailyLossPct()
}

// OverallBuffer is the loss room left before the overall limit.
func (s *State) OverallBuffer(p Profile) float64 {
	return p.MaxOverallLossPct - s.OverallLossPct()
}

// CanOpen reports whether new entries are permitted at all.
func (s *State) CanOpen() bool {
	return s.CanTradeToday && !s.DailyEmergency && !s.OverallEmergency
}

// ApplyClose settles a realized P&L into the balance, updates streaks,
// and trips whichever loss thresholds the close crossed.
func (s *State) ApplyClose(pnl float64, p Profile) {
	s.Balance += pnl
	pnlPct := pnl / s.InitialBalance * 100

	if pnl > 0 {
		s.ConsecutiveWins++
		s.ConsecutiveLosses = 0
	} else {
		s.ConsecutiveWins = 0
		s.ConsecutiveLosses++
		if -pnlPct > p.DailyEmergencyPct {
			s.Alerts = append(s.Alerts,
				fmt.Sprintf("single trade loss %.2f%% exceeds emergency threshold %.2f%%",
					-pnlPct, p.DailyEmergencyPct))
		}
	}

	dailyLoss := s.DailyLossPct()
	if dailyLoss >= p.DailyEmergencyPct {
		s.DailyEmergency = true
	}
	if dailyLoss >= p.DailyLossCutoffPct {
		s.CanTradeToday = false
	}
	if s.OverallLossPct() >= p.OverallLossCutoffPct {
		s.OverallEmergency = true
	}
}

// CheckChallenge flips ChallengeComplete once the profit target is
// reached with enough distinct trading days behind it.
func (s *State) CheckChallenge(p Profile) bool {
	if s.ChallengeComplete {
		return true
	}
	if p.ProfitTargetPct <= 0 {
		return false
	}
	if s.ProfitPct() >= p.ProfitTargetPct && len(s.TradingDays) >= p.MinTradingDays {
		s.ChallengeComplete = true
	}
	return s.ChallengeComplete
}
