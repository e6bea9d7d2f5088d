package collector

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"StockOutlook/internal/model"
)

// MockFetcher returns deterministic data for development and testing.
// Bars in Data take precedence; otherwise a weekday-only wave around Price
// is generated for the requested range. Errors in Errs are returned as is.
type MockFetcher struct {
	Price float64
	Data  map[string][]model.OHLCV
	Errs  map[string]error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchDailyHistory ran.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchDailyHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, providerErr(m.Name(), symbol, err)
	}
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Data[symbol]; ok {
		return toSeries(m.Name(), symbol, bars, start, end)
	}
	return toSeries(m.Name(), symbol, generateMockBars(symbol, m.Price, start, end), start, end)
}

func generateMockBars(symbol string, basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	phase := float64(h.Sum32()%628) / 100

	var bars []model.OHLCV
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; !day.After(last); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/7+phase) + 0.0005*float64(i))
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
