package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// NullFloat64 is a float64 that may be undefined, e.g. before a rolling
// window has enough points.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Some returns a defined NullFloat64.
func Some(v float64) NullFloat64 { return NullFloat64{Float64: v, Valid: true} }

func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat64{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// IndicatorPoint is one date of derived indicators.
type IndicatorPoint struct {
	Time        time.Time   `json:"time"`
	Close       float64     `json:"close"`
	DailyReturn NullFloat64 `json:"daily_return"`
	RSI14       NullFloat64 `json:"rsi14"`
	MACD        NullFloat64 `json:"macd"`
	MACDSignal  NullFloat64 `json:"macd_signal"`
	MA20        NullFloat64 `json:"ma20"`
	MA50        NullFloat64 `json:"ma50"`
}

// Snapshot is the latest IndicatorPoint of a series; the classifier's input.
type Snapshot = IndicatorPoint

// Field names a column of an IndicatorPoint.
type Field string

const (
	FieldClose       Field = "close"
	FieldDailyReturn Field = "daily_return"
	FieldRSI14       Field = "rsi14"
	FieldMACD        Field = "macd"
	FieldMACDSignal  Field = "macd_signal"
	FieldMA20        Field = "ma20"
	FieldMA50        Field = "ma50"
)

// Get returns the value of field on the point.
func (p IndicatorPoint) Get(field Field) (NullFloat64, error) {
	switch field {
	case FieldClose:
		return Some(p.Close), nil
	case FieldDailyReturn:
		return p.DailyReturn, nil
	case FieldRSI14:
		return p.RSI14, nil
	case FieldMACD:
		return p.MACD, nil
	case FieldMACDSignal:
		return p.MACDSignal, nil
	case FieldMA20:
		return p.MA20, nil
	case FieldMA50:
		return p.MA50, nil
	default:
		return NullFloat64{}, &InvalidInputError{Index: -1, Reason: fmt.Sprintf("unknown field %q", field)}
	}
}

// IndicatorSeries is aligned one-to-one, by date, with the PriceSeries it
// was computed from.
type IndicatorSeries struct {
	Symbol string           `json:"symbol"`
	Points []IndicatorPoint `json:"points"`
}

// Len returns the number of points.
func (s *IndicatorSeries) Len() int { return len(s.Points) }

// Latest returns the most recent point.
func (s *IndicatorSeries) Latest() (Snapshot, error) {
	if len(s.Points) == 0 {
		return Snapshot{}, &InsufficientDataError{Field: "snapshot", Need: 1}
	}
	return s.Points[len(s.Points)-1], nil
}

// Window returns at most the last n points. The slice is a copy.
func (s *IndicatorSeries) Window(n int) []IndicatorPoint {
	start := len(s.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]IndicatorPoint, len(s.Points)-start)
	copy(out, s.Points[start:])
	return out
}

// Value extracts the single defined value of field recorded for date.
// It fails when no defined value or more than one value exists.
func (s *IndicatorSeries) Value(date time.Time, field Field) (float64, error) {
	var (
		v     NullFloat64
		found int
	)
	for _, p := range s.Points {
		if !sameDate(p.Time, date) {
			continue
		}
		got, err := p.Get(field)
		if err != nil {
			return 0, err
		}
		v = got
		found++
	}
	day := date.Format("2006-01-02")
	switch {
	case found > 1:
		return 0, fmt.Errorf("%s %s on %s: %d points: %w", s.Symbol, field, day, found, ErrAmbiguousValue)
	case found == 0 || !v.Valid:
		return 0, fmt.Errorf("%s %s on %s: %w", s.Symbol, field, day, ErrNoValue)
	}
	return v.Float64, nil
}
