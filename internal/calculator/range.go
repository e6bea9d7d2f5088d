package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"StockOutlook/internal/model"
)

// DefaultSupportWindow is the trailing window used when none is given.
const DefaultSupportWindow = 30

// EstimateSupportResistance scans the most recent window bars and returns
// the lowest low as support and the highest high as resistance. A series
// shorter than the window is used in full.
func EstimateSupportResistance(series *model.PriceSeries, window int) (model.SupportResistance, error) {
	if series.Len() == 0 {
		return model.SupportResistance{}, &model.InsufficientDataError{Field: "support/resistance", Need: 1}
	}
	if window <= 0 {
		window = DefaultSupportWindow
	}
	recent := series.Tail(window)
	return model.SupportResistance{
		Support:    floats.Min(recent.Lows()),
		Resistance: floats.Max(recent.Highs()),
		Window:     recent.Len(),
	}, nil
}

// RangePosition returns where price sits between low and high (0.0~1.0).
func RangePosition(price, low, high float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
