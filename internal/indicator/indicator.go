// Package indicator computes fixed-formula technical indicator series over
// a full OHLCV history. All outputs are aligned with the input bars; values
// inside the warm-up region are neutral placeholders and must not drive
// trading decisions.
package indicator

import "github.com/tradeforge/edgerunner/internal/core"

// Params holds the indicator windows. Zero values are replaced by
// DefaultParams.
type Params struct {
	EMAFast int
	EMAMid  int
	EMASlow int

	RSIPeriod  int
	MACDSignal int
	ATRPeriod  int
	ADXPeriod  int

	BBPeriod    int
	BBStdDev    float64
	KeltnerPeriod int
	KeltnerMult   float64
	StochK      int
	StochD      int

	VolumePeriod     int
	VolatilityPeriod int
}

// DefaultParams returns the 1-hour crypto calibration.
func DefaultParams() Params {
	return Params{
		EMAFast:          8,
		EMAMid:           21,
		EMASlow:          50,
		RSIPeriod:        14,
		MACDSignal:       9,
		ATRPeriod:        14,
		ADXPeriod:        14,
		BBPeriod:         20,
		BBStdDev:         2.0,
		KeltnerPeriod:    20,
		KeltnerMult:      2.0,
		StochK:           14,
		StochD:           3,
		VolumePeriod:     20,
		VolatilityPeriod: 24,
	}
}

// WarmupBars returns how many leading bars are unreliable: twice the
// slowest moving-average window, never less than the ADX bootstrap.
func (p Params) WarmupBars() int {
	warm := 2 * p.EMASlow
	if adx := 2 * p.ADXPeriod; adx > warm {
		warm = adx
	}
	return warm
}

// Columns bundles the derived series for one bar history.
type Columns struct {
	EMAFast []float64
	EMAMid  []float64
	EMASlow []float64

	RSI  []float64
	MACD MACDResult
	ADX  ADXResult
	ATR  []float64

	Bollinger  Bands
	Keltner    Bands
	Stochastic StochasticResult

	VolumeRatio     []float64
	VolatilityRatio []float64

	// Warmup is the first index at which every column is trustworthy.
	Warmup int
}

// Ready reports whether index i is past the warm-up region.
func (c Columns) Ready(i int) bool {
	return i >= c.Warmup
}

// Compute derives every indicator column from the bar history. Short
// histories still produce full-length neutral series; Warmup then covers
// the entire input so nothing downstream acts on them.
func Compute(bars []core.Bar, p Params) Columns {
	if p == (Params{}) {
		p = DefaultParams()
	}

	n := len(bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	cols := Columns{
		EMAFast:    EMA(closes, p.EMAFast),
		EMAMid:     EMA(closes, p.EMAMid),
		EMASlow:    EMA(closes, p.EMASlow),
		RSI:        RSI(closes, p.RSIPeriod),
		ADX:        ADX(highs, lows, closes, p.ADXPeriod),
		ATR:        ATR(highs, lows, closes, p.ATRPeriod),
		Bollinger:  Bollinger(closes, p.BBPeriod, p.BBStdDev),
		Keltner:    Keltner(highs, lows, closes, p.KeltnerPeriod, p.KeltnerMult),
		Stochastic: Stochastic(highs, lows, closes, p.StochK, p.StochD),
		Warmup:     p.WarmupBars(),
	}

	// MACD on the fast/mid EMA pair, the crypto calibration used on 1h bars.
	cols.MACD = MACD(closes, p.EMAFast, p.EMAMid, p.MACDSignal)

	volSMA := SMA(volumes, p.VolumePeriod)
	cols.VolumeRatio = make([]float64, n)
	for i := 0; i < n; i++ {
		if volSMA[i] > 0 {
			cols.VolumeRatio[i] = volumes[i] / volSMA[i]
		} else {
			cols.VolumeRatio[i] = 1
		}
	}

	atrMean := SMA(cols.ATR, p.VolatilityPeriod)
	cols.VolatilityRatio = make([]float64, n)
	for i := 0; i < n; i++ {
		if atrMean[i] > 0 {
			cols.VolatilityRatio[i] = cols.ATR[i] / atrMean[i]
		} else {
			cols.VolatilityRatio[i] = 1
		}
	}

	if cols.Warmup > n {
		cols.Warmup = n
	}
	return cols
}
