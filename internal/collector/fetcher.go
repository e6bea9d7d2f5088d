package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"StockOutlook/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
// Implementations return a validated, ascending series covering
// [start, end] or a *ProviderError.
type Fetcher interface {
	FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}

var (
	// ErrUnknownSymbol reports that the provider does not know the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrEmptyHistory reports that the provider returned no bars in range.
	ErrEmptyHistory = errors.New("empty history")
)

// ProviderError wraps any failure raised while talking to a data provider.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func providerErr(provider, symbol string, err error) error {
	return &ProviderError{Provider: provider, Symbol: symbol, Err: err}
}

// toSeries sorts, filters and validates raw bars. Bars outside [start, end]
// by calendar date are discarded; of two bars on one date the later wins.
func toSeries(provider, symbol string, bars []model.OHLCV, start, end time.Time) (*model.PriceSeries, error) {
	sorted := append([]model.OHLCV(nil), bars...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	from, to := dayKey(start), dayKey(end)
	var kept []model.OHLCV
	for _, b := range sorted {
		k := dayKey(b.Time)
		if k < from || k > to {
			continue
		}
		if n := len(kept); n > 0 && dayKey(kept[n-1].Time) == k {
			kept[n-1] = b
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		return nil, providerErr(provider, symbol, ErrEmptyHistory)
	}
	s, err := model.NewPriceSeries(symbol, kept)
	if err != nil {
		return nil, providerErr(provider, symbol, err)
	}
	return s, nil
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
