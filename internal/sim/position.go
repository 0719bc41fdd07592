package sim

import (
	"time"

	"github.com/tradeforge/edgerunner/internal/core"
	"github.com/tradeforge/edgerunner/internal/risk"
)

// Position is the single open trade. The simulator holds at most one.
type Position struct {
	Side         core.Side
	EntryPrice   float64
	Size         float64
	StopPrice    float64
	StopDistance float64
	RiskPct      float64
	Score        int
	Regime       risk.Regime
	EntryTime    time.Time

	// TrailingStop is nil until the first profitable bar arms it.
	// Once set it only ever tightens.
	TrailingStop *float64
}

// CurrentStop returns the active stop, trailing when armed.
func (p *Position) CurrentStop() float64 {
	if p.TrailingStop != nil {
		return *p.TrailingStop
	}
	return p.StopPrice
}

// UnrealizedPnL values the position against a price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	return (price - p.EntryPrice) * p.Size * float64(p.Side.Sign())
}

// StopHit reports whether the close breached the active stop.
func (p *Position) StopHit(price float64) bool {
	if p.Side == core.SideLong {
		return price <= p.CurrentStop()
	}
	return price >= p.CurrentStop()
}

// ProfitTarget is the take-profit level at the given reward ratio.
func (p *Position) ProfitTarget(rewardRatio float64) float64 {
	return p.EntryPrice + rewardRatio*p.StopDistance*float64(p.Side.Sign())
}

// TargetHit reports whether the close reached the profit target.
func (p *Position) TargetHit(price, rewardRatio float64) bool {
	target := p.ProfitTarget(rewardRatio)
	if p.Side == core.SideLong {
		return price >= target
	}
	return price <= target
}

// Trail ratchets the trailing stop toward the price by the trail
// distance. It never loosens.
func (p *Position) Trail(price, trailDistance float64) {
	if p.TrailingStop == nil {
		stop := p.StopPrice
		p.TrailingStop = &stop
	}
	if p.Side == core.SideLong {
		if next := price - trailDistance; next > *p.TrailingStop {
			*p.TrailingStop = next
		}
		return
	}
	if next := price + trailDistance; next < *p.TrailingStop {
		*p.TrailingStop = next
	}
}
