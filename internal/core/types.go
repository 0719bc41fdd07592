package core

import "time"

// Side represents the direction of a position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Sign returns +1 for long and -1 for short.
func (s Side) Sign() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

// Bar represents a single OHLCV observation.
type Bar struct {
	Symbol   string
	Interval string // "1h", "4h", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Time     time.Time
}

// IsValid checks that the bar carries a coherent price range.
func (b Bar) IsValid() bool {
	return b.High >= b.Low &&
		b.High >= b.Open && b.High >= b.Close &&
		b.Low <= b.Open && b.Low <= b.Close &&
		b.Low > 0 && !b.Time.IsZero()
}

// Day returns the bar's calendar day in UTC, used for daily risk resets.
func (b Bar) Day() time.Time {
	y, m, d := b.Time.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TradeAction distinguishes the two entries of a trade record pair.
type TradeAction string

const (
	ActionOpen  TradeAction = "OPEN"
	ActionClose TradeAction = "CLOSE"
)

// CloseReason explains why a position was exited.
type CloseReason string

const (
	ReasonStopLoss      CloseReason = "Stop Loss"
	ReasonTakeProfit    CloseReason = "Take Profit"
	ReasonScoreReversal CloseReason = "Score Reversal"
	ReasonEmergencyStop CloseReason = "Emergency Stop"
	ReasonBacktestEnd   CloseReason = "Backtest End"
)

// TradeRecord is one entry of the append-only trade log. Every OPEN is
// eventually followed by exactly one CLOSE before the next OPEN.
type TradeRecord struct {
	Time       time.Time   `json:"time"`
	Action     TradeAction `json:"action"`
	Side       Side        `json:"side,omitempty"`
	EntryPrice float64     `json:"entry_price,omitempty"`
	ExitPrice  float64     `json:"exit_price,omitempty"` // CLOSE only
	Size       float64     `json:"size,omitempty"`
	StopPrice  float64     `json:"stop_price,omitempty"` // OPEN only: initial stop
	RiskPct    float64     `json:"risk_pct,omitempty"`   // OPEN only: risk committed, percent of balance
	Score      int         `json:"score,omitempty"`      // OPEN only: composite score at entry
	Regime     string      `json:"regime,omitempty"`     // OPEN only: volatility regime at entry
	PnL        float64     `json:"pnl"`                  // CLOSE only: realized profit/loss
	PnLPct     float64     `json:"pnl_pct"`              // CLOSE only: PnL as percent of initial balance
	Balance    float64     `json:"balance"`              // balance after the record was applied
	Reason     CloseReason `json:"reason,omitempty"`
}

// IsWin reports whether a CLOSE record realized a profit.
func (t TradeRecord) IsWin() bool {
	return t.Action == ActionClose && t.PnL > 0
}
