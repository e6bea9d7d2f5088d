package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func bar(d int, c float64) OHLCV {
	return OHLCV{Time: day(d), Open: c, High: c, Low: c, Close: c}
}

func TestNewPriceSeries_Validation(t *testing.T) {
	tests := []struct {
		name string
		bars []OHLCV
		ok   bool
	}{
		{"ascending with gap", []OHLCV{bar(1, 10), bar(2, 11), bar(5, 12)}, true},
		{"empty", nil, false},
		{"duplicate date", []OHLCV{bar(1, 10), bar(1, 11)}, false},
		{"descending", []OHLCV{bar(2, 10), bar(1, 11)}, false},
		{"zero close", []OHLCV{bar(1, 10), bar(2, 0)}, false},
		{"nan high", []OHLCV{{Time: day(1), Open: 1, High: math.NaN(), Low: 1, Close: 1}}, false},
	}
	for _, tt := range tests {
		_, err := NewPriceSeries("X", tt.bars)
		if (err == nil) != tt.ok {
			t.Errorf("%s: err=%v, want ok=%v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

func TestPriceSeries_Immutable(t *testing.T) {
	bars := []OHLCV{bar(1, 10), bar(2, 11)}
	s, err := NewPriceSeries("X", bars)
	if err != nil {
		t.Fatal(err)
	}
	bars[0].Close = 999
	if s.At(0).Close != 10 {
		t.Error("series aliases the caller's slice")
	}
	out := s.Bars()
	out[1].Close = 999
	if s.At(1).Close != 11 {
		t.Error("Bars() exposes internal storage")
	}
	if tail := s.Tail(5); tail.Len() != 2 {
		t.Errorf("Tail(5) len = %d, want 2", tail.Len())
	}
}

func TestPriceSeries_Close(t *testing.T) {
	s, _ := NewPriceSeries("X", []OHLCV{bar(1, 10), bar(2, 11)})
	if v, err := s.Close(day(2).Add(15 * time.Hour)); err != nil || v != 11 {
		t.Errorf("Close = %v, %v", v, err)
	}
	if _, err := s.Close(day(3)); !errors.Is(err, ErrNoValue) {
		t.Errorf("expected ErrNoValue, got %v", err)
	}
}

func TestIndicatorSeries_Value(t *testing.T) {
	s := &IndicatorSeries{Symbol: "X", Points: []IndicatorPoint{
		{Time: day(1), Close: 10},
		{Time: day(2), Close: 11, RSI14: Some(55)},
	}}

	if v, err := s.Value(day(2), FieldRSI14); err != nil || v != 55 {
		t.Errorf("Value = %v, %v", v, err)
	}
	if _, err := s.Value(day(1), FieldRSI14); !errors.Is(err, ErrNoValue) {
		t.Errorf("undefined field: expected ErrNoValue, got %v", err)
	}
	if _, err := s.Value(day(9), FieldClose); !errors.Is(err, ErrNoValue) {
		t.Errorf("missing date: expected ErrNoValue, got %v", err)
	}
	if _, err := s.Value(day(1), Field("volume")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown field: expected ErrInvalidInput, got %v", err)
	}

	dup := &IndicatorSeries{Symbol: "X", Points: []IndicatorPoint{
		{Time: day(1), Close: 10},
		{Time: day(1).Add(time.Hour), Close: 11},
	}}
	if _, err := dup.Value(day(1), FieldClose); !errors.Is(err, ErrAmbiguousValue) {
		t.Errorf("expected ErrAmbiguousValue, got %v", err)
	}
}

func TestIndicatorSeries_LatestAndWindow(t *testing.T) {
	empty := &IndicatorSeries{}
	if _, err := empty.Latest(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	s := &IndicatorSeries{Points: []IndicatorPoint{{Close: 1}, {Close: 2}, {Close: 3}}}
	last, _ := s.Latest()
	if last.Close != 3 {
		t.Errorf("Latest close = %v", last.Close)
	}
	if w := s.Window(2); len(w) != 2 || w[0].Close != 2 {
		t.Errorf("Window(2) = %+v", w)
	}
}

func TestNullFloat64_JSON(t *testing.T) {
	b, err := json.Marshal(IndicatorPoint{Time: day(1), Close: 1, RSI14: Some(42.5)})
	if err != nil {
		t.Fatal(err)
	}
	var back IndicatorPoint
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.RSI14.Valid || back.RSI14.Float64 != 42.5 {
		t.Errorf("rsi14 = %+v", back.RSI14)
	}
	if back.MACD.Valid {
		t.Error("undefined macd should round-trip as null")
	}
}

func TestParseHorizon(t *testing.T) {
	tests := map[string]Horizon{
		"short": HorizonShort, "Weekly": HorizonShort, " w ": HorizonShort,
		"MEDIUM": HorizonMedium, "monthly": HorizonMedium,
	}
	for in, want := range tests {
		got, err := ParseHorizon(in)
		if err != nil || got != want {
			t.Errorf("ParseHorizon(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseHorizon("yearly"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
