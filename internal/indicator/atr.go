package indicator

import "math"

// TrueRange calculates the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar uses
// high-low since there is no previous close.
func TrueRange(highs, lows, closes []float64) []float64 {
	result := make([]float64, len(highs))
	for i := range highs {
		hl := highs[i] - lows[i]
		if i == 0 {
			result[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		result[i] = math.Max(hl, math.Max(hc, lc))
	}
	return result
}

// ATR calculates the Average True Range as a rolling mean of the true
// range, aligned with the input.
func ATR(highs, lows, closes []float64, period int) []float64 {
	return SMA(TrueRange(highs, lows, closes), period)
}
