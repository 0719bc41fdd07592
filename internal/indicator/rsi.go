package indicator

// NeutralRSI is the value reported while the RSI window is still filling.
const NeutralRSI = 50.0

// RSI calculates the Relative Strength Index over a rolling window of
// average gains and losses. The first period bars report NeutralRSI.
// A window with zero average loss maps to 100 (not +Inf); a dead window
// with neither gains nor losses stays neutral.
func RSI(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	for i := range result {
		result[i] = NeutralRSI
	}
	if period <= 0 || len(prices) < period+1 {
		return result
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(prices); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			result[i] = NeutralRSI
		case avgLoss == 0:
			result[i] = 100
		default:
			rs := avgGain / avgLoss
			result[i] = 100 - (100 / (1 + rs))
		}
	}
	return result
}
