// Package report turns raw run results into summaries and journals.
// Money aggregates use decimals so repeated summation stays exact.
package report

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/edgerunner/internal/sim"
)

// Summary is the per-run performance readout.
type Summary struct {
	TotalTrades int `json:"total_trades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`

	WinRate      decimal.Decimal `json:"win_rate"`
	NetPnL       decimal.Decimal `json:"net_pnl"`
	AvgWin       decimal.Decimal `json:"avg_win"`
	AvgLoss      decimal.Decimal `json:"avg_loss"`
	Expectancy   decimal.Decimal `json:"expectancy"`
	ProfitFactor decimal.Decimal `json:"profit_factor"`

	ReturnPct      float64 `json:"return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`

	ExitReasons map[string]int `json:"exit_reasons"`

	TradingDays       int  `json:"trading_days"`
	ChallengeComplete bool `json:"challenge_complete"`
	EmergencyStopped  bool `json:"emergency_stopped"`
}

// Summarize computes the summary for one run.
func Summarize(res *sim.Result) Summary {
	s := Summary{
		ExitReasons:       map[string]int{},
		TradingDays:       res.TradingDays,
		ChallengeComplete: res.ChallengeComplete,
		EmergencyStopped:  res.EmergencyStopped,
		ReturnPct:         res.ReturnPct(),
	}

	grossWin := decimal.Zero
	grossLoss := decimal.Zero
	for _, t := range res.ClosedTrades() {
		s.TotalTrades++
		s.ExitReasons[string(t.Reason)]++
		pnl := decimal.NewFromFloat(t.PnL)
		if t.IsWin() {
			s.Wins++
			grossWin = grossWin.Add(pnl)
		} else {
			s.Losses++
			grossLoss = grossLoss.Add(pnl.Neg())
		}
	}

	s.NetPnL = grossWin.Sub(grossLoss)
	if s.TotalTrades > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Div(decimal.NewFromInt(int64(s.TotalTrades))).
			Mul(decimal.NewFromInt(100))
		s.Expectancy = s.NetPnL.Div(decimal.NewFromInt(int64(s.TotalTrades)))
	}
	if s.Wins > 0 {
		s.AvgWin = grossWin.Div(decimal.NewFromInt(int64(s.Wins)))
	}
	if s.Losses > 0 {
		s.AvgLoss = grossLoss.Div(decimal.NewFromInt(int64(s.Losses)))
	}
	if grossLoss.IsPositive() {
		s.ProfitFactor = grossWin.Div(grossLoss)
	}

	s.MaxDrawdownPct = maxDrawdown(res.Equity) * 100
	s.SharpeRatio = sharpeRatio(res.DailyPnL, res.InitialBalance)
	return s
}

// maxDrawdown finds the largest peak-to-trough decline over the equity
// curve, as a fraction of the peak.
func maxDrawdown(equity []sim.EquityPoint) float64 {
	var maxDD, peak float64
	for _, p := range equity {
		if p.Balance > peak {
			peak = p.Balance
		}
		if peak > 0 {
			if dd := (peak - p.Balance) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio is the annualized daily-return Sharpe with a zero risk
// free rate.
func sharpeRatio(daily []sim.DailyPnL, initialBalance float64) float64 {
	if len(daily) < 2 || initialBalance <= 0 {
		return 0
	}

	returns := make([]float64, len(daily))
	var mean float64
	for i, d := range daily {
		returns[i] = d.PnL / initialBalance
		mean += returns[i]
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance) * math.Sqrt(365)
}
