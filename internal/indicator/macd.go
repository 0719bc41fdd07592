package indicator

// MACDResult bundles the MACD line, its signal line, and the histogram.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates the Moving Average Convergence Divergence as the
// difference of a fast and slow EMA, with an EMA of that difference as
// the signal line.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(prices))
	for i := range prices {
		hist[i] = line[i] - sig[i]
	}

	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}
