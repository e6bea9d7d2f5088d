package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockOutlook/internal/calculator"
	"StockOutlook/internal/metrics"
	"StockOutlook/internal/model"
	"StockOutlook/internal/strategy"
)

// DefaultLookback is the calendar span of history fetched per request.
const DefaultLookback = 365 * 24 * time.Hour

// Collector orchestrates data fetching, indicator computation and
// classification. It holds no per-request state and is safe for
// concurrent use once configured.
type Collector struct {
	Fetcher       Fetcher
	Engine        *calculator.Engine
	Classifier    *strategy.Classifier
	Lookback      time.Duration
	SupportWindow int
	Now           func() time.Time
	Metrics       *metrics.Recorder
	Log           zerolog.Logger
}

// NewCollector creates a Collector with a one-year lookback and the
// default support window.
func NewCollector(fetcher Fetcher, engine *calculator.Engine, classifier *strategy.Classifier) *Collector {
	return &Collector{
		Fetcher:       fetcher,
		Engine:        engine,
		Classifier:    classifier,
		Lookback:      DefaultLookback,
		SupportWindow: calculator.DefaultSupportWindow,
		Now:           time.Now,
		Log:           zerolog.Nop(),
	}
}

// History fetches the lookback window ending today.
func (c *Collector) History(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, &model.InvalidInputError{Index: -1, Reason: "symbol is empty"}
	}
	end := c.Now()
	start := end.Add(-c.Lookback)

	began := time.Now()
	series, err := c.Fetcher.FetchDailyHistory(ctx, symbol, start, end)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(began), err)
	if err != nil {
		c.fail(err)
		c.Log.Warn().Err(err).Str("symbol", symbol).Str("provider", c.Fetcher.Name()).Msg("fetch failed")
		return nil, err
	}
	c.Log.Debug().Str("symbol", symbol).Int("bars", series.Len()).Msg("history fetched")
	return series, nil
}

// Indicators fetches history and derives the full indicator table.
func (c *Collector) Indicators(ctx context.Context, symbol string) (*model.IndicatorSeries, error) {
	series, err := c.History(ctx, symbol)
	if err != nil {
		return nil, err
	}
	ind, err := c.Engine.Compute(series)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	return ind, nil
}

// Analyze produces the full report for one symbol and horizon: latest
// snapshot, outlook, support/resistance and trend commentary.
func (c *Collector) Analyze(ctx context.Context, symbol string, horizon model.Horizon) (*model.Report, error) {
	series, err := c.History(ctx, symbol)
	if err != nil {
		return nil, err
	}
	ind, err := c.Engine.Compute(series)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	snap, err := ind.Latest()
	if err != nil {
		c.fail(err)
		return nil, err
	}
	outlook, err := c.Classifier.Classify(snap, horizon)
	if err != nil {
		c.fail(err)
		return nil, fmt.Errorf("%s: %w", series.Symbol(), err)
	}
	levels, err := calculator.EstimateSupportResistance(series, c.SupportWindow)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	pos, err := calculator.RangePosition(snap.Close, levels.Support, levels.Resistance)
	if err != nil {
		c.Log.Warn().Err(err).Str("symbol", symbol).Msg("range position failed, using 0.5")
		pos = 0.5
	}

	c.Metrics.RecordOutlook(string(horizon), string(outlook.Direction))
	c.Log.Info().
		Str("symbol", series.Symbol()).
		Str("horizon", string(horizon)).
		Str("direction", string(outlook.Direction)).
		Float64("rsi", outlook.RSI).
		Float64("macd_diff", outlook.MACDDiff).
		Msg("outlook computed")

	return &model.Report{
		Symbol:        series.Symbol(),
		AsOf:          snap.Time,
		Snapshot:      snap,
		Outlook:       outlook,
		Levels:        levels,
		RangePosition: pos,
		Trend:         strategy.DescribeTrend(snap, levels),
	}, nil
}

// Levels estimates support and resistance over the trailing window.
// A non-positive window selects the configured default.
func (c *Collector) Levels(ctx context.Context, symbol string, window int) (model.SupportResistance, error) {
	if window <= 0 {
		window = c.SupportWindow
	}
	series, err := c.History(ctx, symbol)
	if err != nil {
		return model.SupportResistance{}, err
	}
	levels, err := calculator.EstimateSupportResistance(series, window)
	if err != nil {
		c.fail(err)
	}
	return levels, err
}

// Compare fetches both symbols concurrently and aligns their closes on
// shared trading dates.
func (c *Collector) Compare(ctx context.Context, left, right string) (*model.Comparison, error) {
	var (
		wg     sync.WaitGroup
		series [2]*model.PriceSeries
		errs   [2]error
	)
	for i, sym := range []string{left, right} {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			series[i], errs[i] = c.History(ctx, sym)
		}(i, sym)
	}
	wg.Wait()
	if err := errors.Join(errs[0], errs[1]); err != nil {
		return nil, err
	}
	cmp, err := calculator.AlignCloses(series[0], series[1])
	if err != nil {
		c.fail(err)
		return nil, err
	}
	return cmp, nil
}

func (c *Collector) fail(err error) {
	c.Metrics.RecordError(ErrorKind(err))
}

// ErrorKind buckets err into a short label for metrics and responses.
// Provider failures are reported as such even when they wrap a
// validation error from malformed upstream bars.
func ErrorKind(err error) string {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, ErrEmptyHistory):
		return "empty_history"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &pe):
		return "provider"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, model.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, model.ErrNoValue):
		return "no_value"
	case errors.Is(err, model.ErrAmbiguousValue):
		return "ambiguous_value"
	default:
		return "internal"
	}
}
