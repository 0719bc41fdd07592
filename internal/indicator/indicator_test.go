package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/tradeforge/edgerunner/internal/core"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestSMA_Aligned(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	sma := SMA(prices, 3)

	if len(sma) != len(prices) {
		t.Fatalf("expected aligned output, got %d values", len(sma))
	}

	// Prefix means while the window fills, then true SMA(3).
	expected := []float64{10, 10.5, 11, 12, 13, 14}
	for i, v := range expected {
		if !almostEqual(sma[i], v, 1e-9) {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestEMA_TrendsTowardPrice(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	ema := EMA(prices, 3)

	if ema[0] != 10 {
		t.Errorf("EMA seeds from first price, got %f", ema[0])
	}
	for i := 1; i < len(ema); i++ {
		if ema[i] <= ema[i-1] {
			t.Errorf("EMA should be increasing, ema[%d]=%f <= ema[%d]=%f", i, ema[i], i-1, ema[i-1])
		}
		if ema[i] >= prices[i] {
			t.Errorf("EMA should lag rising prices at %d", i)
		}
	}
}

func TestRSI_WarmupNeutral(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104, 105}
	rsi := RSI(prices, 14)

	for i, v := range rsi {
		if v != NeutralRSI {
			t.Errorf("rsi[%d] = %f, want neutral 50 inside warm-up", i, v)
		}
	}
}

func TestRSI_ZeroLossClampsTo100(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i) // monotonic gains, zero losses
	}
	rsi := RSI(prices, 14)

	if rsi[len(rsi)-1] != 100 {
		t.Errorf("zero average loss should clamp RSI to 100, got %f", rsi[len(rsi)-1])
	}
}

func TestRSI_FlatSeriesStaysNeutral(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100
	}
	rsi := RSI(prices, 14)

	if rsi[len(rsi)-1] != NeutralRSI {
		t.Errorf("flat series should stay neutral, got %f", rsi[len(rsi)-1])
	}
}

func TestTrueRange_UsesPrevClose(t *testing.T) {
	highs := []float64{105, 104}
	lows := []float64{100, 101}
	closes := []float64{104, 102}

	tr := TrueRange(highs, lows, closes)

	if tr[0] != 5 {
		t.Errorf("first bar TR = high-low, got %f", tr[0])
	}
	// Bar 1: max(104-101, |104-104|, |101-104|) = 3
	if tr[1] != 3 {
		t.Errorf("tr[1] = %f, want 3", tr[1])
	}
}

func TestATR_ConstantRange(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 102
		lows[i] = 100
		closes[i] = 101
	}

	atr := ATR(highs, lows, closes, 14)
	if !almostEqual(atr[n-1], 2, 1e-9) {
		t.Errorf("constant 2-point range should give ATR 2, got %f", atr[n-1])
	}
}

func TestADX_StrongTrendReadsHigh(t *testing.T) {
	n := 120
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)*2 // relentless uptrend
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base
	}

	res := ADX(highs, lows, closes, 14)

	if res.ADX[10] != 0 {
		t.Errorf("ADX inside bootstrap should be zero, got %f", res.ADX[10])
	}
	if res.ADX[n-1] < 25 {
		t.Errorf("sustained trend should push ADX above 25, got %f", res.ADX[n-1])
	}
	if res.DIPlus[n-1] <= res.DIMinus[n-1] {
		t.Error("uptrend should keep DI+ above DI-")
	}
}

func TestBollinger_PositionBounds(t *testing.T) {
	prices := []float64{100, 102, 98, 101, 99, 103, 97, 100, 102, 98,
		101, 99, 103, 97, 100, 102, 98, 101, 99, 103}
	bands := Bollinger(prices, 20, 2.0)

	last := len(prices) - 1
	pos := bands.Position(prices[last], last)
	if pos < 0 || pos > 1 {
		t.Errorf("in-band close should map to [0,1], got %f", pos)
	}
	if bands.Upper[last] <= bands.Middle[last] || bands.Lower[last] >= bands.Middle[last] {
		t.Error("bands should straddle the middle line")
	}
}

func TestBands_CollapsedWidthIsMidline(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100}
	bands := Bollinger(prices, 5, 2.0)
	if bands.Position(100, 4) != 0.5 {
		t.Error("collapsed band should report midline position")
	}
}

func TestStochastic_FlatRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i], lows[i], closes[i] = 100, 100, 100
	}
	res := Stochastic(highs, lows, closes, 14, 3)
	if res.K[n-1] != 50 {
		t.Errorf("flat range %%K should be 50, got %f", res.K[n-1])
	}
}

func TestStochastic_CloseAtHigh(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 110
		lows[i] = 90
		closes[i] = 110
	}
	res := Stochastic(highs, lows, closes, 14, 3)
	if res.K[n-1] != 100 {
		t.Errorf("close at range high should give %%K 100, got %f", res.K[n-1])
	}
}

func TestCompute_ShortHistoryIsAllWarmup(t *testing.T) {
	bars := makeBars(10)
	cols := Compute(bars, DefaultParams())

	if cols.Warmup != len(bars) {
		t.Errorf("short history warm-up should cover all bars, got %d", cols.Warmup)
	}
	if cols.Ready(9) {
		t.Error("no bar of a short history should be ready")
	}
	if len(cols.RSI) != len(bars) || len(cols.ATR) != len(bars) {
		t.Error("columns must stay aligned with the input")
	}
}

func TestCompute_DefaultWarmup(t *testing.T) {
	bars := makeBars(300)
	cols := Compute(bars, Params{}) // zero params fall back to defaults

	if cols.Warmup != DefaultParams().WarmupBars() {
		t.Errorf("Warmup = %d, want %d", cols.Warmup, DefaultParams().WarmupBars())
	}
	if !cols.Ready(cols.Warmup) {
		t.Error("first post-warm-up bar should be ready")
	}
	if cols.Ready(cols.Warmup - 1) {
		t.Error("last warm-up bar should not be ready")
	}
}

func TestCompute_VolumeRatioNeutralWithoutVolume(t *testing.T) {
	bars := makeBars(50)
	for i := range bars {
		bars[i].Volume = 0
	}
	cols := Compute(bars, DefaultParams())
	if cols.VolumeRatio[49] != 1 {
		t.Errorf("zero-volume series should report neutral ratio 1, got %f", cols.VolumeRatio[49])
	}
}

func makeBars(n int) []core.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	price := 100.0
	for i := 0; i < n; i++ {
		// Gentle sawtooth so ranges and volumes stay non-degenerate.
		delta := float64(i%5) - 2
		bars[i] = core.Bar{
			Symbol:   "TEST",
			Interval: "1h",
			Open:     price,
			High:     price + 2 + delta/2,
			Low:      price - 2,
			Close:    price + delta/2,
			Volume:   1000 + float64(i%7)*50,
			Time:     start.Add(time.Duration(i) * time.Hour),
		}
		price = bars[i].Close
	}
	return bars
}
