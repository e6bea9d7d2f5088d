package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockOutlook/internal/collector"
	"StockOutlook/internal/model"
	"StockOutlook/internal/notifier"
)

// Sender delivers a formatted message to the chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist job and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Symbols   []string
	Horizons  []model.Horizon
	Ctx       context.Context
	Log       zerolog.Logger

	running sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, symbols []string, horizons []model.Horizon, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Symbols:   symbols,
		Horizons:  horizons,
		Ctx:       ctx,
		Log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules the watchlist push on spec (six-field cron with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Int("symbols", len(s.Symbols)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs to finish,
// including ones started from chat.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.running.Wait()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes the watchlist task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.watchlistTask()
}

func (s *Scheduler) watchlistTask() {
	if len(s.Symbols) == 0 {
		s.Log.Debug().Msg("watchlist empty, skipping")
		return
	}
	s.Log.Info().Strs("symbols", s.Symbols).Msg("running watchlist task")
	for _, sym := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		parts := make([]string, 0, len(s.Horizons))
		for _, h := range s.Horizons {
			rep, err := s.Collector.Analyze(s.Ctx, sym, h)
			if err != nil {
				s.Log.Error().Err(err).Str("symbol", sym).Str("horizon", string(h)).Msg("watchlist analyze")
				parts = append(parts, notifier.FormatError(sym, describeError(err)))
				continue
			}
			parts = append(parts, notifier.FormatReport(rep))
		}
		s.trySend(strings.Join(parts, "\n"))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i] // "/outlook@MyBot" in group chats
	}
	args := fields[1:]

	switch name {
	case "/outlook":
		if len(args) < 1 || len(args) > 2 {
			return "usage: /outlook SYMBOL [short|medium]"
		}
		sym := strings.ToUpper(args[0])
		horizon := model.HorizonShort
		if len(args) == 2 {
			h, err := model.ParseHorizon(args[1])
			if err != nil {
				return notifier.FormatError(sym, describeError(err))
			}
			horizon = h
		}
		rep, err := s.Collector.Analyze(ctx, sym, horizon)
		if err != nil {
			return notifier.FormatError(sym, describeError(err))
		}
		return notifier.FormatReport(rep)

	case "/levels":
		if len(args) < 1 || len(args) > 2 {
			return "usage: /levels SYMBOL [window]"
		}
		sym := strings.ToUpper(args[0])
		window := 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return notifier.FormatError(sym, "window must be a positive integer")
			}
			window = n
		}
		lv, err := s.Collector.Levels(ctx, sym, window)
		if err != nil {
			return notifier.FormatError(sym, describeError(err))
		}
		return notifier.FormatLevels(sym, lv)

	case "/compare":
		if len(args) != 2 {
			return "usage: /compare SYMBOL OTHER"
		}
		a, b := strings.ToUpper(args[0]), strings.ToUpper(args[1])
		cmp, err := s.Collector.Compare(ctx, a, b)
		if err != nil {
			return notifier.FormatError(a+" vs "+b, describeError(err))
		}
		return notifier.FormatComparison(cmp, 5)

	case "/watchlist":
		if len(s.Symbols) == 0 {
			return "watchlist is empty"
		}
		s.running.Add(1)
		go func() {
			defer s.running.Done()
			s.watchlistTask()
		}()
		return fmt.Sprintf("⏳ running watchlist for %d symbols", len(s.Symbols))

	default:
		return notifier.FormatHelp()
	}
}

// describeError turns err into a short chat-facing reason.
func describeError(err error) string {
	var ide *model.InsufficientDataError
	switch collector.ErrorKind(err) {
	case "unknown_symbol":
		return "unknown symbol"
	case "empty_history":
		return "no price history in range"
	case "insufficient_data":
		if errors.As(err, &ide) {
			return fmt.Sprintf("not enough history to compute %s", ide.Field)
		}
		return "not enough history"
	case "invalid_input":
		return err.Error()
	case "canceled":
		return "request canceled"
	default:
		return "data provider unavailable, try again later"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
