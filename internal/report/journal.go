package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tradeforge/edgerunner/internal/sim"
)

// Journal appends run artifacts to a directory as JSON lines, one file
// per run. Files are append-only so partial writes from a crashed batch
// stay inspectable.
type Journal struct {
	Dir string
}

// WriteRun writes the trade log, the summary, and the daily P&L for a
// run under its ID.
func (j *Journal) WriteRun(runID string, res *sim.Result, s Summary) error {
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return err
	}

	if err := j.appendLines(runID+".trades.jsonl", func(enc *json.Encoder) error {
		for _, t := range res.Trades {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := j.appendLines(runID+".daily.jsonl", func(enc *json.Encoder) error {
		for _, d := range res.DailyPnL {
			if err := enc.Encode(d); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	summaryPath := filepath.Join(j.Dir, runID+".summary.json")
	b, err := json.MarshalIndent(struct {
		RunID   string   `json:"run_id"`
		Symbol  string   `json:"symbol"`
		Profile string   `json:"profile"`
		Summary Summary  `json:"summary"`
		Alerts  []string `json:"alerts,omitempty"`
	}{runID, res.Symbol, res.Profile, s, res.Alerts}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(summaryPath, b, 0o644)
}

func (j *Journal) appendLines(name string, write func(*json.Encoder) error) error {
	f, err := os.OpenFile(filepath.Join(j.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(json.NewEncoder(f)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
