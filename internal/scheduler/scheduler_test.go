package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockOutlook/internal/calculator"
	"StockOutlook/internal/collector"
	"StockOutlook/internal/model"
	"StockOutlook/internal/strategy"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

func newTestScheduler(t *testing.T, m *collector.MockFetcher, symbols ...string) (*Scheduler, *fakeSender) {
	t.Helper()
	engine, err := calculator.NewEngine(calculator.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	col := collector.NewCollector(m, engine, strategy.NewClassifier(nil))
	col.Now = func() time.Time { return time.Date(2024, 6, 28, 18, 0, 0, 0, time.UTC) }
	fs := &fakeSender{}
	s := NewScheduler(context.Background(), col, fs, symbols, model.Horizons, zerolog.Nop())
	return s, fs
}

func shortHistory() []model.OHLCV {
	var bars []model.OHLCV
	for i := 0; i < 10; i++ {
		c := 100 + float64(i)
		bars = append(bars, model.OHLCV{
			Time: time.Date(2024, 6, 10+i, 0, 0, 0, 0, time.UTC),
			Open: c, High: c + 1, Low: c - 1, Close: c,
		})
	}
	return bars
}

func TestHandleCommand(t *testing.T) {
	m := &collector.MockFetcher{
		Price: 100,
		Data:  map[string][]model.OHLCV{"NEW": shortHistory()},
		Errs:  map[string]error{"GONE": &collector.ProviderError{Provider: "mock", Symbol: "GONE", Err: collector.ErrUnknownSymbol}},
	}
	s, _ := newTestScheduler(t, m)

	tests := []struct {
		cmd  string
		want string
	}{
		{"/outlook tcs.ns", "<b>TCS.NS</b> | Weekly outlook"},
		{"/outlook TCS.NS monthly", "Monthly outlook"},
		{"/outlook@StockBot TCS.NS medium", "Monthly outlook"},
		{"/outlook TCS.NS yearly", "unknown horizon"},
		{"/outlook", "usage: /outlook"},
		{"/outlook NEW", "not enough history to compute rsi14"},
		{"/outlook GONE", "unknown symbol"},
		{"/levels NEW", "levels (last 10 days)"},
		{"/levels NEW 3", "levels (last 3 days)"},
		{"/levels NEW -1", "window must be a positive integer"},
		{"/compare AAA BBB", "AAA vs BBB"},
		{"/compare AAA", "usage: /compare"},
		{"/compare AAA GONE", "unknown symbol"},
		{"/help", "/outlook SYMBOL"},
		{"hello", "/outlook SYMBOL"},
	}
	for _, tt := range tests {
		got := s.HandleCommand(context.Background(), tt.cmd)
		if !strings.Contains(got, tt.want) {
			t.Errorf("%q: reply %q does not contain %q", tt.cmd, got, tt.want)
		}
	}
	if got := s.HandleCommand(context.Background(), "   "); got != "" {
		t.Errorf("blank command replied %q", got)
	}
}

func TestRunNow(t *testing.T) {
	m := &collector.MockFetcher{Price: 100, Data: map[string][]model.OHLCV{"NEW": shortHistory()}}
	s, fs := newTestScheduler(t, m, "AAA", "NEW")
	s.RunNow()

	if len(fs.msgs) != 2 {
		t.Fatalf("sent %d messages, want one per symbol", len(fs.msgs))
	}
	if !strings.Contains(fs.msgs[0], "Weekly outlook") || !strings.Contains(fs.msgs[0], "Monthly outlook") {
		t.Errorf("AAA message should cover both horizons:\n%s", fs.msgs[0])
	}
	if strings.Count(fs.msgs[1], "not enough history") != 2 {
		t.Errorf("NEW message should report both horizons failing:\n%s", fs.msgs[1])
	}
	if m.Calls() != 4 {
		t.Errorf("fetches = %d, want 4", m.Calls())
	}
}

func TestWatchlistCommand(t *testing.T) {
	m := &collector.MockFetcher{Price: 100}
	s, fs := newTestScheduler(t, m, "AAA", "BBB")
	if reply := s.HandleCommand(context.Background(), "/watchlist"); !strings.Contains(reply, "2 symbols") {
		t.Errorf("reply = %q", reply)
	}
	s.Stop()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.msgs) != 2 {
		t.Errorf("sent %d messages, want 2", len(fs.msgs))
	}

	empty, _ := newTestScheduler(t, &collector.MockFetcher{Price: 100})
	if reply := empty.HandleCommand(context.Background(), "/watchlist"); reply != "watchlist is empty" {
		t.Errorf("empty watchlist reply = %q", reply)
	}
}

func TestWatchlistCommandDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	s, fs := newTestScheduler(t, &collector.MockFetcher{Price: 100}, "AAA")
	s.Notifier = blockingSender{release: release, next: fs}

	done := make(chan string, 1)
	go func() { done <- s.HandleCommand(context.Background(), "/watchlist") }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("/watchlist blocked until the push was delivered")
	}
	close(release)
	s.Stop()
	if len(fs.msgs) != 1 {
		t.Errorf("sent %d messages, want 1", len(fs.msgs))
	}
}

type blockingSender struct {
	release chan struct{}
	next    *fakeSender
}

func (b blockingSender) SendWithRetry(ctx context.Context, text string, n int) error {
	<-b.release
	return b.next.SendWithRetry(ctx, text, n)
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	if err := s.Register("0 30 16 * * 1-5"); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for bad spec")
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("entries = %d", n)
	}
}
