package calculator

import (
	"fmt"

	"StockOutlook/internal/model"
)

// Params holds the window sizes of every indicator the engine derives.
type Params struct {
	RSIPeriod     int       `yaml:"rsi_period" default:"14"`
	FastSpan      int       `yaml:"fast_span" default:"12"`
	SlowSpan      int       `yaml:"slow_span" default:"26"`
	SignalSpan    int       `yaml:"signal_span" default:"9"`
	ShortMAPeriod int       `yaml:"short_ma_period" default:"20"`
	LongMAPeriod  int       `yaml:"long_ma_period" default:"50"`
	Epsilon       float64   `yaml:"epsilon" default:"1e-10"`
	RSISmoothing  Smoothing `yaml:"rsi_smoothing" default:"simple"`
}

// DefaultParams returns RSI(14), MACD(12,26,9), MA20 and MA50.
func DefaultParams() Params {
	return Params{
		RSIPeriod:     14,
		FastSpan:      12,
		SlowSpan:      26,
		SignalSpan:    9,
		ShortMAPeriod: 20,
		LongMAPeriod:  50,
		Epsilon:       1e-10,
		RSISmoothing:  SmoothingSimple,
	}
}

// Validate rejects non-positive windows and an inverted MACD pair.
func (p Params) Validate() error {
	windows := []struct {
		name string
		v    int
	}{
		{"rsi_period", p.RSIPeriod},
		{"fast_span", p.FastSpan},
		{"slow_span", p.SlowSpan},
		{"signal_span", p.SignalSpan},
		{"short_ma_period", p.ShortMAPeriod},
		{"long_ma_period", p.LongMAPeriod},
	}
	for _, w := range windows {
		if w.v <= 0 {
			return &model.InvalidInputError{Index: -1, Reason: fmt.Sprintf("%s must be positive, got %d", w.name, w.v)}
		}
	}
	if p.FastSpan >= p.SlowSpan {
		return &model.InvalidInputError{Index: -1, Reason: fmt.Sprintf("fast_span %d must be below slow_span %d", p.FastSpan, p.SlowSpan)}
	}
	if p.Epsilon < 0 {
		return &model.InvalidInputError{Index: -1, Reason: "epsilon must not be negative"}
	}
	switch p.RSISmoothing {
	case SmoothingSimple, SmoothingWilder, "":
	default:
		return &model.InvalidInputError{Index: -1, Reason: fmt.Sprintf("unknown rsi_smoothing %q", p.RSISmoothing)}
	}
	return nil
}

// Engine derives an IndicatorSeries from a PriceSeries. It holds no
// mutable state and may be shared between goroutines.
type Engine struct {
	params Params
}

// NewEngine validates params and returns an Engine.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params}, nil
}

// Params returns the engine's configuration.
func (e *Engine) Params() Params { return e.params }

// Compute derives every indicator for each bar of series. Windows that are
// not yet seated leave their fields undefined rather than failing.
func (e *Engine) Compute(series *model.PriceSeries) (*model.IndicatorSeries, error) {
	if series.Len() == 0 {
		return nil, &model.InvalidInputError{Index: -1, Reason: "price series is empty"}
	}
	p := e.params

	closes := series.Closes()
	returns := DailyReturns(closes)
	rsi := RSI(returns, p.RSIPeriod, p.Epsilon, p.RSISmoothing)
	macd, signal := MACD(closes, p.FastSpan, p.SlowSpan, p.SignalSpan)
	maShort := RollingSMA(closes, p.ShortMAPeriod)
	maLong := RollingSMA(closes, p.LongMAPeriod)

	out := &model.IndicatorSeries{
		Symbol: series.Symbol(),
		Points: make([]model.IndicatorPoint, series.Len()),
	}
	for i := range out.Points {
		out.Points[i] = model.IndicatorPoint{
			Time:        series.At(i).Time,
			Close:       closes[i],
			DailyReturn: returns[i],
			RSI14:       rsi[i],
			MACD:        model.Some(macd[i]),
			MACDSignal:  model.Some(signal[i]),
			MA20:        maShort[i],
			MA50:        maLong[i],
		}
	}
	return out, nil
}

var defaultEngine = &Engine{params: DefaultParams()}

// ComputeIndicators runs the engine with DefaultParams.
func ComputeIndicators(series *model.PriceSeries) (*model.IndicatorSeries, error) {
	return defaultEngine.Compute(series)
}
