package calculator

import (
	"StockOutlook/internal/model"
)

// Smoothing selects how average gain/loss are carried forward.
type Smoothing string

const (
	// SmoothingSimple averages the trailing period gains/losses.
	SmoothingSimple Smoothing = "simple"
	// SmoothingWilder seeds with a simple mean, then applies Wilder's
	// recursive smoothing: avg = (prev*(period-1) + x) / period.
	SmoothingWilder Smoothing = "wilder"
)

// DailyReturns computes close[i]/close[i-1] - 1. Index 0, and any index
// whose previous close is zero, is undefined.
func DailyReturns(closes []float64) []model.NullFloat64 {
	out := make([]model.NullFloat64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out[i] = model.Some(closes[i]/closes[i-1] - 1)
	}
	return out
}

// RSI computes the relative strength index from fractional returns.
// rs = avgGain / (avgLoss + epsilon), rsi = 100 - 100/(1+rs).
// The first value is available once period returns have accumulated.
func RSI(returns []model.NullFloat64, period int, epsilon float64, smoothing Smoothing) []model.NullFloat64 {
	gains := make([]model.NullFloat64, len(returns))
	losses := make([]model.NullFloat64, len(returns))
	for i, r := range returns {
		if !r.Valid {
			continue
		}
		gains[i] = model.Some(max(r.Float64, 0))
		losses[i] = model.Some(max(-r.Float64, 0))
	}

	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)
	if smoothing == SmoothingWilder {
		avgGain = wilderSmooth(gains, avgGain, period)
		avgLoss = wilderSmooth(losses, avgLoss, period)
	}

	out := make([]model.NullFloat64, len(returns))
	for i := range returns {
		if !avgGain[i].Valid || !avgLoss[i].Valid {
			continue
		}
		rs := avgGain[i].Float64 / (avgLoss[i].Float64 + epsilon)
		out[i] = model.Some(100 - 100/(1+rs))
	}
	return out
}

// wilderSmooth keeps the first seated simple mean as the seed and carries
// it forward recursively. An undefined input breaks the chain until the
// next seated simple mean.
func wilderSmooth(values, seeds []model.NullFloat64, period int) []model.NullFloat64 {
	out := make([]model.NullFloat64, len(values))
	p := float64(period)
	var prev model.NullFloat64
	for i, v := range values {
		switch {
		case !v.Valid:
			prev = model.NullFloat64{}
		case prev.Valid:
			prev = model.Some((prev.Float64*(p-1) + v.Float64) / p)
		default:
			prev = seeds[i]
		}
		out[i] = prev
	}
	return out
}
