package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockOutlook/internal/api"
	"StockOutlook/internal/calculator"
	"StockOutlook/internal/collector"
	"StockOutlook/internal/config"
	"StockOutlook/internal/logger"
	"StockOutlook/internal/metrics"
	"StockOutlook/internal/notifier"
	"StockOutlook/internal/scheduler"
	"StockOutlook/internal/strategy"
)

func main() {
	// A missing .env is normal outside development.
	envErr := godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	lg, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	lg.Info().Str("config", cfgPath).Bool("dotenv", envErr == nil).Msg("StockOutlook starting")

	fetcher, err := newFetcher(cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("init fetcher")
	}
	lg.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	engine, err := calculator.NewEngine(cfg.Analysis.Indicators)
	if err != nil {
		lg.Fatal().Err(err).Msg("init indicator engine")
	}
	rec := metrics.New(prometheus.DefaultRegisterer)

	col := collector.NewCollector(fetcher, engine, strategy.NewClassifier(cfg.Analysis.Rules))
	col.Lookback = time.Duration(cfg.DataSource.LookbackDays) * 24 * time.Hour
	col.SupportWindow = cfg.Analysis.SupportWindow
	col.Metrics = rec
	col.Log = lg.With().Str("component", "collector").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sched *scheduler.Scheduler
	if cfg.Telegram.Enabled {
		horizons, _ := cfg.WatchHorizons() // checked by Validate
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		sched = scheduler.NewScheduler(ctx, col, tn, cfg.Watchlist.Symbols, horizons, lg)
		if err := sched.Register(cfg.Watchlist.Cron); err != nil {
			lg.Fatal().Err(err).Msg("register cron tasks")
		}
		sched.Start()

		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info().Msg("telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			lg.Info().Msg("RUN_ON_START enabled, executing watchlist task now")
			go sched.RunNow()
		}
	}

	var srv *api.Server
	if !cfg.Server.Disabled {
		srv = api.NewServer(
			api.NewHandler(col, lg.With().Str("component", "api").Logger()),
			rec, lg,
			api.WithAddr(cfg.Server.Addr),
			api.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		)
		srv.Start()
	}

	lg.Info().Msg("StockOutlook is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	lg.Info().Msg("shutdown signal received, stopping...")
	cancel()
	shutdown(lg, srv, sched)
	lg.Info().Msg("StockOutlook stopped")
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy), nil
	case "vstrader":
		return collector.NewVsTraderFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), nil
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.APIKey, ds.APISecret), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", ds.Provider)
	}
}

func shutdown(lg zerolog.Logger, srv *api.Server, sched *scheduler.Scheduler) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if srv != nil {
		if err := srv.Stop(ctx); err != nil {
			lg.Error().Err(err).Msg("http shutdown")
		}
	}
	if sched != nil {
		sched.Stop()
	}
}
