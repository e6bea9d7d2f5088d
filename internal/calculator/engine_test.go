package calculator

import (
	"errors"
	"reflect"
	"testing"

	"StockOutlook/internal/model"
)

func TestCompute_AlignedWithInput(t *testing.T) {
	for _, n := range []int{1, 2, 14, 15, 60} {
		s := makeSeries(t, wave(n))
		ind, err := ComputeIndicators(s)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if ind.Len() != s.Len() {
			t.Fatalf("n=%d: length %d, want %d", n, ind.Len(), s.Len())
		}
		for i, p := range ind.Points {
			if !p.Time.Equal(s.At(i).Time) {
				t.Errorf("n=%d: date mismatch at %d", n, i)
			}
			if p.Close != s.At(i).Close {
				t.Errorf("n=%d: close mismatch at %d", n, i)
			}
		}
	}
}

func TestCompute_DefinedFrom(t *testing.T) {
	s := makeSeries(t, wave(80))
	ind, err := ComputeIndicators(s)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range ind.Points {
		if p.DailyReturn.Valid != (i >= 1) {
			t.Errorf("daily_return valid=%v at %d", p.DailyReturn.Valid, i)
		}
		if p.RSI14.Valid != (i >= 14) {
			t.Errorf("rsi14 valid=%v at %d", p.RSI14.Valid, i)
		}
		if p.MA20.Valid != (i >= 19) {
			t.Errorf("ma20 valid=%v at %d", p.MA20.Valid, i)
		}
		if p.MA50.Valid != (i >= 49) {
			t.Errorf("ma50 valid=%v at %d", p.MA50.Valid, i)
		}
		if !p.MACD.Valid || !p.MACDSignal.Valid {
			t.Errorf("macd/signal must be defined at %d", i)
		}
		if p.RSI14.Valid && (p.RSI14.Float64 <= 0 || p.RSI14.Float64 >= 100) {
			t.Errorf("rsi14 %v out of (0,100) at %d", p.RSI14.Float64, i)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	s := makeSeries(t, wave(100))
	before := s.Bars()

	a, err := ComputeIndicators(s)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeIndicators(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same input differ")
	}
	if !reflect.DeepEqual(before, s.Bars()) {
		t.Error("input series was mutated")
	}
}

func TestCompute_NoLookAhead(t *testing.T) {
	closes := wave(90)
	full, err := ComputeIndicators(makeSeries(t, closes))
	if err != nil {
		t.Fatal(err)
	}
	prefix, err := ComputeIndicators(makeSeries(t, closes[:60]))
	if err != nil {
		t.Fatal(err)
	}
	for i := range prefix.Points {
		if !reflect.DeepEqual(prefix.Points[i], full.Points[i]) {
			t.Fatalf("point %d changed when later data was appended", i)
		}
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	_, err := ComputeIndicators(nil)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"defaults", func(*Params) {}, true},
		{"wilder", func(p *Params) { p.RSISmoothing = SmoothingWilder }, true},
		{"zero rsi", func(p *Params) { p.RSIPeriod = 0 }, false},
		{"inverted macd", func(p *Params) { p.FastSpan = 30 }, false},
		{"negative epsilon", func(p *Params) { p.Epsilon = -1 }, false},
		{"unknown smoothing", func(p *Params) { p.RSISmoothing = "ema" }, false},
	}
	for _, tt := range tests {
		p := DefaultParams()
		tt.mutate(&p)
		_, err := NewEngine(p)
		if (err == nil) != tt.ok {
			t.Errorf("%s: err=%v, want ok=%v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

func TestEngine_CustomWindows(t *testing.T) {
	p := DefaultParams()
	p.ShortMAPeriod = 5
	p.LongMAPeriod = 10
	p.RSIPeriod = 7
	e, err := NewEngine(p)
	if err != nil {
		t.Fatal(err)
	}
	ind, err := e.Compute(makeSeries(t, wave(12)))
	if err != nil {
		t.Fatal(err)
	}
	if !ind.Points[4].MA20.Valid || ind.Points[3].MA20.Valid {
		t.Error("short MA should seat at index 4")
	}
	if !ind.Points[9].MA50.Valid || ind.Points[8].MA50.Valid {
		t.Error("long MA should seat at index 9")
	}
	if !ind.Points[7].RSI14.Valid || ind.Points[6].RSI14.Valid {
		t.Error("rsi should seat at index 7")
	}
}
