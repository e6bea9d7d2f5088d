package calculator

// EMA computes the exponential moving average with smoothing span.
// The average is seeded at the first value with no warm-up adjustment:
// ema[0] = x[0], ema[i] = ema[i-1] + α(x[i] - ema[i-1]), α = 2/(span+1).
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}

// MACD returns the MACD line (fast EMA minus slow EMA of closes) and its
// signal line (EMA of the MACD line, seeded at the first MACD value).
func MACD(closes []float64, fastSpan, slowSpan, signalSpan int) (macd, signal []float64) {
	fast := EMA(closes, fastSpan)
	slow := EMA(closes, slowSpan)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	return macd, EMA(macd, signalSpan)
}
