package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"StockOutlook/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, &model.InsufficientDataError{Field: "sma", Need: period, Have: len(prices)}
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// RollingSMA returns the trailing simple moving average at every index.
// Indices before the window is seated are left undefined.
func RollingSMA(values []float64, period int) []model.NullFloat64 {
	out := make([]model.NullFloat64, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if v, err := CalculateSMA(values[:i+1], period); err == nil {
			out[i] = model.Some(v)
		}
	}
	return out
}

// rollingMean is RollingSMA over optional values. A window containing an
// undefined value yields an undefined mean.
func rollingMean(values []model.NullFloat64, period int) []model.NullFloat64 {
	out := make([]model.NullFloat64, len(values))
	if period <= 0 {
		return out
	}
	buf := make([]float64, period)
	for i := period - 1; i < len(values); i++ {
		ok := true
		for j := 0; j < period; j++ {
			v := values[i-period+1+j]
			if !v.Valid {
				ok = false
				break
			}
			buf[j] = v.Float64
		}
		if ok {
			out[i] = model.Some(stat.Mean(buf, nil))
		}
	}
	return out
}
