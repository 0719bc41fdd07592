// Package sim runs the bar-sequential backtest. The loop is strictly
// sequential: each bar's decisions depend on the mutable state left by
// the previous bar, so runs parallelize across configurations, never
// across bars.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/risk"
)

// Inputs is the fully materialized data for one run. Scores, ATR and
// Regimes are aligned with Bars index for index. A nil Regimes slice
// means all bars are treated as normal volatility.
type Inputs struct {
	Symbol  string
	Bars    []core.Bar
	Scores  []int
	ATR     []float64
	Regimes []risk.Regime
}

// MaterializeRegimes fills Regimes from the bar history.
func (in *Inputs) MaterializeRegimes(p risk.RegimeParams) {
	in.Regimes = make([]risk.Regime, len(in.Bars))
	for i := range in.Bars {
		in.Regimes[i] = risk.AssessRegime(in.Bars, i, p)
	}
}

// SimulationState is the complete mutable state of a run, threaded
// through each bar step. Keeping it one explicit value makes every
// transition testable in isolation.
type SimulationState struct {
	Risk     *risk.State
	Position *Position

	CurrentHour  int
	HourlyTrades int
}

// NewSimulationState creates the flat initial state.
func NewSimulationState(initialBalance float64) *SimulationState {
	return &SimulationState{
		Risk:        risk.NewState(initialBalance),
		CurrentHour: -1,
	}
}

// Simulator executes runs. It is stateless between runs and safe to
// reuse; each Run owns a private SimulationState.
type Simulator struct {
	params Params
	sizer  *risk.Sizer
	logger *zap.Logger
}

// New creates a Simulator. A nil logger disables logging.
func New(params Params, logger *zap.Logger) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		params: params,
		sizer:  risk.NewSizer(params.Profile, params.StopATRMult),
		logger: logger,
	}, nil
}

// Run walks the bars once and returns the complete result. A malformed
// bar aborts this run only; the caller decides what happens to sibling
// runs. The context is checked between bars.
func (sm *Simulator) Run(ctx context.Context, in Inputs) (*Result, error) {
	if len(in.Bars) == 0 {
		return nil, core.ErrNoData
	}
	if len(in.Scores) != len(in.Bars) || len(in.ATR) != len(in.Bars) {
		return nil, core.WrapError(core.ErrRunFailed,
			fmt.Errorf("misaligned inputs: %d bars, %d scores, %d atr",
				len(in.Bars), len(in.Scores), len(in.ATR)))
	}
	if in.Regimes != nil && len(in.Regimes) != len(in.Bars) {
		return nil, core.WrapError(core.ErrRunFailed,
			fmt.Errorf("misaligned regimes: %d bars, %d regimes",
				len(in.Bars), len(in.Regimes)))
	}

	st := NewSimulationState(sm.params.InitialBalance)
	res := &Result{
		Symbol:         in.Symbol,
		Profile:        sm.params.Profile.Name,
		InitialBalance: sm.params.InitialBalance,
	}

	for i, bar := range in.Bars {
		if err := ctx.Err(); err != nil {
			return nil, core.WrapError(core.ErrRunFailed, err)
		}
		if !bar.IsValid() {
			return nil, core.WrapError(core.ErrMalformedBar,
				fmt.Errorf("bar %d at %s", i, bar.Time))
		}
		res.BarsProcessed++

		sm.rollDay(st, res, bar)

		hour := bar.Time.UTC().Hour()
		if sm.params.inSkipSession(hour) {
			res.Skipped.Session++
			res.Equity = append(res.Equity, EquityPoint{Time: bar.Time, Balance: st.Risk.Balance})
			continue
		}

		if !st.Risk.CanOpen() {
			if st.Position != nil {
				sm.closePosition(st, res, bar, core.ReasonEmergencyStop)
			}
			res.Skipped.Emergency++
			res.Equity = append(res.Equity, EquityPoint{Time: bar.Time, Balance: st.Risk.Balance})
			continue
		}

		if st.Risk.CheckChallenge(sm.params.Profile) {
			sm.logger.Info("profit target reached",
				zap.Float64("profit_pct", st.Risk.ProfitPct()),
				zap.Int("trading_days", len(st.Risk.TradingDays)))
			break
		}

		if st.Position != nil {
			sm.stepPosition(st, res, bar, in.Scores[i], in.ATR[i])
		}
		if st.Position == nil {
			regime := risk.RegimeNormal
			if in.Regimes != nil {
				regime = in.Regimes[i]
			}
			sm.tryEnter(st, res, bar, hour, in.Scores[i], in.ATR[i], regime)
		}

		res.Equity = append(res.Equity, EquityPoint{Time: bar.Time, Balance: st.Risk.Balance})
	}

	if st.Position != nil {
		last := in.Bars[len(in.Bars)-1]
		sm.closePosition(st, res, last, core.ReasonBacktestEnd)
	}
	sm.flushDay(st, res)

	res.FinalBalance = st.Risk.Balance
	res.ChallengeComplete = st.Risk.ChallengeComplete
	res.TradingDays = len(st.Risk.TradingDays)
	res.EmergencyStopped = st.Risk.OverallEmergency
	res.Alerts = st.Risk.Alerts
	return res, nil
}

// rollDay handles the calendar-day boundary bookkeeping.
func (sm *Simulator) rollDay(st *SimulationState, res *Result, bar core.Bar) {
	prevDay := st.Risk.CurrentDay
	prevBalance := st.Risk.DayStartBalance

	if !st.Risk.StartDay(bar.Day()) {
		return
	}
	if !prevDay.IsZero() {
		res.DailyPnL = append(res.DailyPnL, DailyPnL{
			Day: prevDay,
			PnL: st.Risk.Balance - prevBalance,
		})
	}
	if st.Position != nil {
		st.Risk.MarkTradingDay()
	}
}

// flushDay records the final partial day.
func (sm *Simulator) flushDay(st *SimulationState, res *Result) {
	if st.Risk.CurrentDay.IsZero() {
		return
	}
	res.DailyPnL = append(res.DailyPnL, DailyPnL{
		Day: st.Risk.CurrentDay,
		PnL: st.Risk.Balance - st.Risk.DayStartBalance,
	})
}

// stepPosition applies the exit checks in strict priority order: stop
// loss, take profit, then score reversal. The trailing stop only moves
// while the position is in profit.
func (sm *Simulator) stepPosition(st *SimulationState, res *Result, bar core.Bar, score int, atr float64) {
	pos := st.Position

	if pos.StopHit(bar.Close) {
		sm.closePosition(st, res, bar, core.ReasonStopLoss)
		return
	}

	if pos.UnrealizedPnL(bar.Close) > 0 {
		pos.Trail(bar.Close, atr*sm.params.TrailATRMult)
	}

	if pos.TargetHit(bar.Close, sm.params.TakeProfitRR) {
		sm.closePosition(st, res, bar, core.ReasonTakeProfit)
		return
	}

	if sm.scoreReversed(pos.Side, score) {
		sm.closePosition(st, res, bar, core.ReasonScoreReversal)
	}
}

// scoreReversed reports a strong opposing signal.
func (sm *Simulator) scoreReversed(side core.Side, score int) bool {
	if sm.params.ExitThreshold <= 0 {
		return false
	}
	if side == core.SideLong {
		return score <= -sm.params.ExitThreshold
	}
	return score >= sm.params.ExitThreshold
}

// tryEnter opens a position when the score clears the profile's entry
// bar and every risk layer leaves a nonzero size.
func (sm *Simulator) tryEnter(st *SimulationState, res *Result, bar core.Bar, hour, score int, atr float64, regime risk.Regime) {
	mag := score
	if mag < 0 {
		mag = -mag
	}
	if mag < sm.params.Profile.EntryThreshold {
		if score != 0 {
			res.Skipped.WeakScore++
		}
		return
	}

	if hour != st.CurrentHour {
		st.CurrentHour = hour
		st.HourlyTrades = 0
	}
	if st.HourlyTrades >= sm.params.HourlyTradeLimit {
		res.Skipped.HourlyLimit++
		return
	}

	sized := sm.sizer.Size(st.Risk, score, bar.Close, atr, regime)
	if sized.Size <= 0 {
		res.Skipped.ZeroSize++
		return
	}

	side := core.SideLong
	if score < 0 {
		side = core.SideShort
	}
	stopPrice := bar.Close - sized.StopDistance*side.Sign()

	st.Position = &Position{
		Side:         side,
		EntryPrice:   bar.Close,
		Size:         sized.Size,
		StopPrice:    stopPrice,
		StopDistance: sized.StopDistance,
		RiskPct:      sized.RiskPct,
		Score:        score,
		Regime:       regime,
		EntryTime:    bar.Time,
	}
	st.HourlyTrades++
	st.Risk.MarkTradingDay()

	res.Trades = append(res.Trades, core.TradeRecord{
		Time:       bar.Time,
		Action:     core.ActionOpen,
		Side:       side,
		EntryPrice: bar.Close,
		Size:       sized.Size,
		StopPrice:  stopPrice,
		RiskPct:    sized.RiskPct,
		Score:      score,
		Regime:     string(regime),
		Balance:    st.Risk.Balance,
	})

	sm.logger.Debug("opened position",
		zap.String("side", string(side)),
		zap.Float64("entry", bar.Close),
		zap.Float64("risk_pct", sized.RiskPct),
		zap.Int("score", score),
		zap.String("regime", string(regime)))
}

// closePosition settles at the bar close and appends the CLOSE record.
func (sm *Simulator) closePosition(st *SimulationState, res *Result, bar core.Bar, reason core.CloseReason) {
	pos := st.Position
	if pos == nil {
		return
	}

	pnl := pos.UnrealizedPnL(bar.Close)
	st.Risk.ApplyClose(pnl, sm.params.Profile)
	st.Position = nil

	res.Trades = append(res.Trades, core.TradeRecord{
		Time:       bar.Time,
		Action:     core.ActionClose,
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  bar.Close,
		Size:       pos.Size,
		PnL:        pnl,
		PnLPct:     pnl / st.Risk.InitialBalance * 100,
		Balance:    st.Risk.Balance,
		Reason:     reason,
	})

	sm.logger.Debug("closed position",
		zap.String("side", string(pos.Side)),
		zap.Float64("exit", bar.Close),
		zap.Float64("pnl", pnl),
		zap.String("reason", string(reason)))
}
