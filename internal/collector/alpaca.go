package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockOutlook/internal/model"
)

// barsClient is the subset of *marketdata.Client the fetcher needs.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using Alpaca market data (US equities).
type AlpacaFetcher struct {
	client barsClient
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchDailyHistory requests one-day bars for [start, end]. The Alpaca
// client has no context support, so ctx is only checked before the call.
func (f *AlpacaFetcher) FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, providerErr(f.Name(), symbol, err)
	}
	raw, err := f.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "invalid symbol") {
			return nil, providerErr(f.Name(), symbol, ErrUnknownSymbol)
		}
		return nil, providerErr(f.Name(), symbol, fmt.Errorf("get bars: %w", err))
	}

	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		bars[i] = model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return toSeries(f.Name(), symbol, bars, start, end)
}
