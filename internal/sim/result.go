package sim

import (
	"time"

	"github.com/tradeforge/edgerunner/internal/core"
)

// EquityPoint samples the balance after a bar was processed.
type EquityPoint struct {
	Time    time.Time `json:"time"`
	Balance float64   `json:"balance"`
}

// DailyPnL is one calendar day's realized result.
type DailyPnL struct {
	Day time.Time `json:"day"`
	PnL float64   `json:"pnl"`
}

// SkipCounters records why entries never happened, for diagnostics.
type SkipCounters struct {
	Session     int `json:"session"`
	Emergency   int `json:"emergency"`
	HourlyLimit int `json:"hourly_limit"`
	ZeroSize    int `json:"zero_size"`
	WeakScore   int `json:"weak_score"`
}

// Result is everything one run produced.
type Result struct {
	Symbol   string             `json:"symbol"`
	Profile  string             `json:"profile"`
	Trades   []core.TradeRecord `json:"trades"`
	Equity   []EquityPoint      `json:"equity"`
	DailyPnL []DailyPnL         `json:"daily_pnl"`

	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`

	ChallengeComplete bool `json:"challenge_complete"`
	TradingDays       int  `json:"trading_days"`

	EmergencyStopped bool         `json:"emergency_stopped"`
	Alerts           []string     `json:"alerts,omitempty"`
	Skipped          SkipCounters `json:"skipped"`

	BarsProcessed int `json:"bars_processed"`
}

// ReturnPct is the run's total return as a percent.
func (r *Result) ReturnPct() float64 {
	if r.InitialBalance == 0 {
		return 0
	}
	return (r.FinalBalance - r.InitialBalance) / r.InitialBalance * 100
}

// ClosedTrades returns only the CLOSE records.
func (r *Result) ClosedTrades() []core.TradeRecord {
	out := make([]core.TradeRecord, 0, len(r.Trades)/2)
	for _, t := range r.Trades {
		if t.Action == core.ActionClose {
			out = append(out, t)
		}
	}
	return out
}
