package indicator

// StochasticResult holds the %K and its smoothed %D line.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic calculates the stochastic oscillator: %K locates the close
// inside the recent high-low range, %D is its SMA. A flat range reports
// the 50 midline.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) StochasticResult {
	n := len(closes)
	k := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - kPeriod + 1
		if start < 0 {
			start = 0
		}
		hi, lo := highs[start], lows[start]
		for j := start + 1; j <= i; j++ {
			if highs[j] > hi {
				hi = highs[j]
			}
			if lows[j] < lo {
				lo = lows[j]
			}
		}
		if hi == lo {
			k[i] = 50
			continue
		}
		k[i] = 100 * (closes[i] - lo) / (hi - lo)
	}
	return StochasticResult{K: k, D: SMA(k, dPeriod)}
}
