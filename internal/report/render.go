package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tradeforge/edgerunner/internal/sim"
)

// Render writes a human-readable run summary. Numbers are grouped for
// the English locale so large balances stay legible.
func Render(w io.Writer, runID string, res *sim.Result, s Summary) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "=== %s (%s) ===\n", res.Symbol, res.Profile)
	p.Fprintf(w, "Run ID:        %s\n", runID)
	p.Fprintf(w, "Bars:          %d\n", res.BarsProcessed)
	p.Fprintf(w, "Balance:       %.2f -> %.2f\n", res.InitialBalance, res.FinalBalance)
	p.Fprintf(w, "Trades:        %d (%d wins / %d losses)\n", s.TotalTrades, s.Wins, s.Losses)
	p.Fprintf(w, "Win rate:      %s%%\n", s.WinRate.StringFixed(1))
	p.Fprintf(w, "Net PnL:       %s\n", s.NetPnL.StringFixed(2))
	p.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct)
	p.Fprintf(w, "Max drawdown:  %.2f%%\n", s.MaxDrawdownPct)
	p.Fprintf(w, "Sharpe:        %.2f\n", s.SharpeRatio)
	p.Fprintf(w, "Profit factor: %s\n", s.ProfitFactor.StringFixed(2))
	p.Fprintf(w, "Trading days:  %d\n", s.TradingDays)
	for reason, n := range s.ExitReasons {
		p.Fprintf(w, "Exit %-14s %d\n", reason+":", n)
	}
	if res.ChallengeComplete {
		p.Fprintf(w, "Challenge:     COMPLETE\n")
	}
	if res.EmergencyStopped {
		p.Fprintf(w, "Emergency:     STOPPED\n")
	}
	for _, alert := range res.Alerts {
		p.Fprintf(w, "Alert:         %s\n", alert)
	}
	p.Fprintf(w, "\n")
}
