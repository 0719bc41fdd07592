package indicator

// ADXResult bundles the trend-strength index with its directional components.
type ADXResult struct {
	ADX     []float64
	DIPlus  []float64
	DIMinus []float64
}

// ADX calculates the Average Directional Index from smoothed directional
// movement over the true range. Values are 0-100 and measure trend
// strength, not direction; bars inside the warm-up region report 0.
func ADX(highs, lows, closes []float64, period int) ADXResult {
	n := len(highs)
	dmPlus := make([]float64, n)
	dmMinus := make([]float64, n)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			dmPlus[i] = up
		}
		if down > up && down > 0 {
			dmMinus[i] = down
		}
	}

	atr := ATR(highs, lows, closes, period)
	smoothPlus := SMA(dmPlus, period)
	smoothMinus := SMA(dmMinus, period)

	diPlus := make([]float64, n)
	diMinus := make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if atr[i] > 0 {
			diPlus[i] = 100 * smoothPlus[i] / atr[i]
			diMinus[i] = 100 * smoothMinus[i] / atr[i]
		}
		if sum := diPlus[i] + diMinus[i]; sum > 0 {
			diff := diPlus[i] - diMinus[i]
			if diff < 0 {
				diff = -diff
			}
			dx[i] = 100 * diff / sum
		}
	}

	adx := SMA(dx, period)
	// The first 2*period bars mix bootstrap artifacts; zero them so the
	// regime filter never sees a phantom trend.
	warm := 2 * period
	if warm > n {
		warm = n
	}
	for i := 0; i < warm; i++ {
		adx[i] = 0
	}

	return ADXResult{ADX: adx, DIPlus: diPlus, DIMinus: diMinus}
}
