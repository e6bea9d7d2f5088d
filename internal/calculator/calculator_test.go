package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/markcheno/go-talib"

	"StockOutlook/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.8f, want %.8f (tol=%g)", label, got, want, tol)
	}
}

// makeSeries builds a daily series starting 2024-01-01 with high/low at ±1% of close.
func makeSeries(t *testing.T, closes []float64) *model.PriceSeries {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c * 1.01,
			Low:   c * 0.99,
			Close: c,
		}
	}
	s, err := model.NewPriceSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

// wave oscillates with a ~12 point period so every 14-return window holds
// both gains and losses.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/2) + float64(i)*0.1
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{100, 102, 104, 103, 105}, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "SMA(3)", got, 104, 1e-12)

	if _, err := CalculateSMA([]float64{1, 2}, 3); !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRollingSMA_MatchesTalib(t *testing.T) {
	closes := wave(120)
	for _, period := range []int{20, 50} {
		got := RollingSMA(closes, period)
		want := talib.Sma(closes, period)
		for i := range closes {
			if i < period-1 {
				if got[i].Valid {
					t.Fatalf("SMA(%d)[%d] should be undefined", period, i)
				}
				continue
			}
			if !got[i].Valid {
				t.Fatalf("SMA(%d)[%d] should be defined", period, i)
			}
			assertClose(t, "SMA vs talib", got[i].Float64, want[i], 1e-9)
		}
	}
}

func TestEMA_SeededAtFirstValue(t *testing.T) {
	// span 3 → α = 0.5
	got := EMA([]float64{1, 2, 3, 3}, 3)
	want := []float64{1, 1.5, 2.25, 2.625}
	for i := range want {
		assertClose(t, "EMA(3)", got[i], want[i], 1e-12)
	}
	if len(EMA(nil, 3)) != 0 {
		t.Error("expected empty EMA for empty input")
	}
}

func TestMACD_FlatPrices(t *testing.T) {
	closes := []float64{50, 50, 50, 50, 50}
	macd, signal := MACD(closes, 12, 26, 9)
	for i := range closes {
		if macd[i] != 0 || signal[i] != 0 {
			t.Errorf("index %d: macd=%v signal=%v, want 0", i, macd[i], signal[i])
		}
	}
}

func TestMACD_SignalIsEMAOfMACD(t *testing.T) {
	closes := wave(60)
	macd, signal := MACD(closes, 12, 26, 9)
	fast, slow := EMA(closes, 12), EMA(closes, 26)
	ref := EMA(macd, 9)
	for i := range closes {
		assertClose(t, "macd", macd[i], fast[i]-slow[i], 0)
		assertClose(t, "signal", signal[i], ref[i], 0)
	}
	assertClose(t, "signal seed", signal[0], macd[0], 0)
}

func TestDailyReturns(t *testing.T) {
	got := DailyReturns([]float64{100, 110, 99})
	if got[0].Valid {
		t.Error("return at index 0 must be undefined")
	}
	assertClose(t, "r1", got[1].Float64, 0.1, 1e-12)
	assertClose(t, "r2", got[2].Float64, -0.1, 1e-12)
}

func TestRSI_SimpleAverage(t *testing.T) {
	// 7 gains of 2% and 7 losses of 1% → avgGain 0.01, avgLoss 0.005, rs ≈ 2
	returns := []model.NullFloat64{{}}
	for i := 0; i < 7; i++ {
		returns = append(returns, model.Some(0.02), model.Some(-0.01))
	}
	rsi := RSI(returns, 14, 1e-10, SmoothingSimple)
	for i := 0; i < 14; i++ {
		if rsi[i].Valid {
			t.Fatalf("rsi[%d] should be undefined", i)
		}
	}
	if !rsi[14].Valid {
		t.Fatal("rsi[14] should be defined")
	}
	assertClose(t, "rsi", rsi[14].Float64, 100-100/3.0, 1e-4)
}

func TestRSI_WilderSmoothing(t *testing.T) {
	returns := []model.NullFloat64{{}}
	for i := 0; i < 7; i++ {
		returns = append(returns, model.Some(0.02), model.Some(-0.01))
	}
	returns = append(returns, model.Some(0.02))

	rsi := RSI(returns, 14, 1e-10, SmoothingWilder)
	assertClose(t, "seed", rsi[14].Float64, 100-100/3.0, 1e-4)
	// avgGain = (0.01*13+0.02)/14, avgLoss = 0.005*13/14 → rs = 0.15/0.065
	assertClose(t, "wilder", rsi[15].Float64, 100-100/(1+0.15/0.065), 1e-4)
}

func TestRSI_Saturation(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
	}
	rsiUp := RSI(DailyReturns(up), 14, 1e-10, SmoothingSimple)
	rsiDown := RSI(DailyReturns(down), 14, 1e-10, SmoothingSimple)
	last := len(up) - 1
	if v := rsiUp[last].Float64; v < 99.99 || v >= 100 {
		t.Errorf("rising series rsi = %v, want just below 100", v)
	}
	if v := rsiDown[last].Float64; v > 1e-6 {
		t.Errorf("falling series rsi = %v, want near 0", v)
	}
}

func TestEstimateSupportResistance_ShortSeriesUsesAllPoints(t *testing.T) {
	closes := []float64{10, 12, 9, 15, 11, 13, 8, 14, 10, 12}
	s := makeSeries(t, closes)

	sr, err := EstimateSupportResistance(s, 30)
	if err != nil {
		t.Fatal(err)
	}
	if sr.Window != 10 {
		t.Errorf("window = %d, want 10", sr.Window)
	}
	assertClose(t, "support", sr.Support, 8*0.99, 1e-12)
	assertClose(t, "resistance", sr.Resistance, 15*1.01, 1e-12)
}

func TestEstimateSupportResistance_TrailingWindow(t *testing.T) {
	s := makeSeries(t, []float64{1, 50, 10, 12, 11})
	sr, err := EstimateSupportResistance(s, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "support", sr.Support, 10*0.99, 1e-12)
	assertClose(t, "resistance", sr.Resistance, 12*1.01, 1e-12)

	sr, err = EstimateSupportResistance(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sr.Window != 5 {
		t.Errorf("default window should cover all 5 points, got %d", sr.Window)
	}
}

func TestEstimateSupportResistance_Empty(t *testing.T) {
	_, err := EstimateSupportResistance(nil, 30)
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		price, low, high, want float64
	}{
		{15, 10, 20, 0.5},
		{5, 10, 20, 0},
		{25, 10, 20, 1},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.price, tt.low, tt.high)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, "position", got, tt.want, 1e-12)
	}
	if _, err := RangePosition(1, 20, 10); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestAlignCloses(t *testing.T) {
	left := makeSeries(t, []float64{1, 2, 3, 4, 5})
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := []model.OHLCV{
		{Time: start, Open: 30, High: 30, Low: 30, Close: 30},
		{Time: start.AddDate(0, 0, 2), Open: 50, High: 50, Low: 50, Close: 50},
		{Time: start.AddDate(0, 0, 10), Open: 90, High: 90, Low: 90, Close: 90},
	}
	right, err := model.NewPriceSeries("OTHER", bars)
	if err != nil {
		t.Fatal(err)
	}

	cmp, err := AlignCloses(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmp.Points) != 2 {
		t.Fatalf("expected 2 shared dates, got %d", len(cmp.Points))
	}
	if cmp.Points[0].Left != 3 || cmp.Points[0].Right != 30 {
		t.Errorf("first point = %+v", cmp.Points[0])
	}
	if cmp.Points[1].Left != 5 || cmp.Points[1].Right != 50 {
		t.Errorf("second point = %+v", cmp.Points[1])
	}

	far := makeSeries(t, []float64{1})
	late, _ := model.NewPriceSeries("LATE", []model.OHLCV{{Time: start.AddDate(1, 0, 0), Open: 1, High: 1, Low: 1, Close: 1}})
	if _, err := AlignCloses(far, late); !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for disjoint series, got %v", err)
	}
}
