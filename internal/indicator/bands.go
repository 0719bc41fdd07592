package indicator

import "math"

// Bands holds a moving-average channel: middle line plus upper and lower
// envelopes.
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Position returns where price sits inside the band at index i, 0 at the
// lower band and 1 at the upper band. A collapsed band reports 0.5.
func (b Bands) Position(price float64, i int) float64 {
	width := b.Upper[i] - b.Lower[i]
	if width <= 0 {
		return 0.5
	}
	return (price - b.Lower[i]) / width
}

// Bollinger calculates Bollinger Bands: SMA ± stdDev multiples of the
// rolling standard deviation.
func Bollinger(prices []float64, period int, stdDev float64) Bands {
	middle := SMA(prices, period)
	n := len(prices)
	upper := make([]float64, n)
	lower := make([]float64, n)

	for i := 0; i < n; i++ {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		window := prices[start : i+1]
		mean := middle[i]
		var variance float64
		for _, p := range window {
			variance += (p - mean) * (p - mean)
		}
		sd := math.Sqrt(variance / float64(len(window)))
		upper[i] = middle[i] + stdDev*sd
		lower[i] = middle[i] - stdDev*sd
	}
	return Bands{Middle: middle, Upper: upper, Lower: lower}
}

// Keltner calculates Keltner Channels: SMA ± an ATR multiple.
func Keltner(highs, lows, closes []float64, period int, atrMult float64) Bands {
	middle := SMA(closes, period)
	atr := ATR(highs, lows, closes, period)
	n := len(closes)
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := 0; i < n; i++ {
		upper[i] = middle[i] + atrMult*atr[i]
		lower[i] = middle[i] - atrMult*atr[i]
	}
	return Bands{Middle: middle, Upper: upper, Lower: lower}
}
