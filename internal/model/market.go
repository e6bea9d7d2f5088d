package model

import (
	"fmt"
	"math"
	"time"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Date returns the trading date of the bar, truncated to midnight in the bar's location.
func (b OHLCV) Date() time.Time {
	y, m, d := b.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.Time.Location())
}

// PriceSeries is an immutable, chronologically sorted run of daily bars
// for one symbol. Gaps between trading days are kept as-is.
type PriceSeries struct {
	symbol string
	bars   []OHLCV
}

// NewPriceSeries validates and copies bars into a PriceSeries.
// Bars must be non-empty, strictly ascending by trading date and carry
// positive finite prices.
func NewPriceSeries(symbol string, bars []OHLCV) (*PriceSeries, error) {
	if len(bars) == 0 {
		return nil, &InvalidInputError{Index: -1, Reason: "price series is empty"}
	}
	for i, b := range bars {
		for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
				return nil, &InvalidInputError{Index: i, Reason: fmt.Sprintf("price %v is not a positive finite number", p)}
			}
		}
		if i > 0 && !bars[i-1].Date().Before(b.Date()) {
			return nil, &InvalidInputError{Index: i, Reason: fmt.Sprintf("date %s does not follow %s",
				b.Date().Format("2006-01-02"), bars[i-1].Date().Format("2006-01-02"))}
		}
	}
	cp := make([]OHLCV, len(bars))
	copy(cp, bars)
	return &PriceSeries{symbol: symbol, bars: cp}, nil
}

// Symbol returns the ticker the series belongs to.
func (s *PriceSeries) Symbol() string { return s.symbol }

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// At returns the i-th bar.
func (s *PriceSeries) At(i int) OHLCV { return s.bars[i] }

// Last returns the most recent bar.
func (s *PriceSeries) Last() OHLCV { return s.bars[len(s.bars)-1] }

// Bars returns a copy of the underlying bars.
func (s *PriceSeries) Bars() []OHLCV {
	cp := make([]OHLCV, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// Tail returns a new series holding at most the last n bars.
func (s *PriceSeries) Tail(n int) *PriceSeries {
	start := len(s.bars) - n
	if start < 0 {
		start = 0
	}
	cp := make([]OHLCV, len(s.bars)-start)
	copy(cp, s.bars[start:])
	return &PriceSeries{symbol: s.symbol, bars: cp}
}

// Closes extracts close prices in order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts high prices in order.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices in order.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Low
	}
	return out
}

// Close returns the single close price recorded for date.
func (s *PriceSeries) Close(date time.Time) (float64, error) {
	var (
		v     float64
		found int
	)
	for _, b := range s.bars {
		if sameDate(b.Time, date) {
			v = b.Close
			found++
		}
	}
	switch found {
	case 0:
		return 0, fmt.Errorf("%s close on %s: %w", s.symbol, date.Format("2006-01-02"), ErrNoValue)
	case 1:
		return v, nil
	default:
		return 0, fmt.Errorf("%s close on %s: %d bars: %w", s.symbol, date.Format("2006-01-02"), found, ErrAmbiguousValue)
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
