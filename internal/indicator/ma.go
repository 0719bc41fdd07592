package indicator

// SMA calculates a Simple Moving Average aligned with the input: the result
// has the same length as prices. Positions before the window is full hold
// the running mean of the available prefix so downstream code never sees
// NaN; callers gate on the warm-up period before acting on them.
func SMA(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if period <= 0 {
		return result
	}

	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
			result[i] = sum / float64(period)
		} else {
			result[i] = sum / float64(i+1)
		}
	}
	return result
}

// EMA calculates an Exponential Moving Average aligned with the input.
// The series is seeded from the first price, so early values converge on
// the span-weighted mean as history accumulates.
func EMA(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if len(prices) == 0 || period <= 0 {
		return result
	}

	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	result[0] = ema
	for i := 1; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result[i] = ema
	}
	return result
}
