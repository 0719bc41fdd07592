// Package feed supplies bar history to the simulator. Data is always
// fully materialized before a run starts; nothing streams into the loop.
package feed

import (
	"context"
	"sort"
	"time"

	"github.com/tradeforge/edgerunner/internal/core"
)

// Provider fetches bar history for a symbol.
type Provider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error)
}

// MemoryProvider serves preloaded bars, used in tests and by the batch
// runner once a file is loaded.
type MemoryProvider struct {
	bars []core.Bar
}

// NewMemoryProvider copies and time-sorts the bars.
func NewMemoryProvider(bars []core.Bar) *MemoryProvider {
	cp := make([]core.Bar, len(bars))
	copy(cp, bars)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Time.Before(cp[j].Time) })
	return &MemoryProvider{bars: cp}
}

// FetchHistory returns the bars matching symbol, interval and range.
// Zero start/end mean unbounded.
func (m *MemoryProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, err)
	}

	out := make([]core.Bar, 0, len(m.bars))
	for _, b := range m.bars {
		if symbol != "" && b.Symbol != symbol {
			continue
		}
		if interval != "" && b.Interval != interval {
			continue
		}
		if !start.IsZero() && b.Time.Before(start) {
			continue
		}
		if !end.IsZero() && !b.Time.Before(end) {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, core.ErrNoData
	}
	return out, nil
}
