package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"AlphaMind/internal/metrics"
	"AlphaMind/internal/notifier"
	"AlphaMind/internal/pipeline"
	"AlphaMind/internal/recorder"
)

// Sender delivers a notification text.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs forecasts on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *pipeline.Runner
	Notifier Sender
	Recorder recorder.Recorder
	Metrics  *metrics.Recorder
	Symbols  []string
	Horizon  int
	Ctx      context.Context
	Log      zerolog.Logger

	// MaxHorizon caps DAYS in the /forecast command.
	MaxHorizon int

	// mu keeps runs sequential across cron and chat commands.
	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. Overlapping cron firings are skipped.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, sender Sender, rec recorder.Recorder,
	m *metrics.Recorder, symbols []string, horizon, maxHorizon int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Runner:     runner,
		Notifier:   sender,
		Recorder:   rec,
		Metrics:    m,
		Symbols:    symbols,
		Horizon:    horizon,
		MaxHorizon: maxHorizon,
		Ctx:        ctx,
		Log:        log,
	}
}

// Register adds the forecast job under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunAll); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Strs("symbols", s.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunAll forecasts every configured symbol in turn and sends each summary.
func (s *Scheduler) RunAll() {
	s.Log.Info().Int("symbols", len(s.Symbols)).Msg("running scheduled forecasts")
	for _, sym := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.forecast(sym, s.Horizon))
	}
}

// forecast runs one symbol, records the outcome and returns the message text.
func (s *Scheduler) forecast(symbol string, horizon int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out, err := s.Runner.Run(s.Ctx, symbol, pipeline.Options{Horizon: horizon, Predict: true})
	if err != nil {
		kind := metrics.ErrorKind(err)
		s.Log.Error().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("forecast failed")
		if s.Metrics != nil {
			s.Metrics.RecordFailure(symbol, err)
		}
		if rerr := s.Recorder.RecordFailure(symbol, kind, err); rerr != nil {
			s.Log.Error().Err(rerr).Msg("record failure")
		}
		return notifier.FormatFailure(symbol, err)
	}

	rep := out.Report
	if s.Metrics != nil {
		predicted, _ := rep.PredictedPrice()
		s.Metrics.RecordSuccess(out.Ticker, rep.CurrentPrice(), predicted, rep.Accuracy())
	}
	if _, err := s.Recorder.RecordRun(rep); err != nil {
		s.Log.Error().Err(err).Str("symbol", out.Ticker).Msg("record run")
	}
	return notifier.FormatForecast(rep)
}

// HandleCommand processes a user command and returns a reply.
//
//	/forecast TICKER [DAYS]
//	/history TICKER
//	/symbols
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Symbols)
	}
	switch strings.ToLower(fields[0]) {
	case "/forecast":
		if len(fields) < 2 {
			return "Usage: /forecast TICKER [DAYS]"
		}
		horizon := s.Horizon
		if len(fields) > 2 {
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 1 {
				return "DAYS must be a positive integer"
			}
			if n > s.MaxHorizon {
				return fmt.Sprintf("DAYS must be at most %d", s.MaxHorizon)
			}
			horizon = n
		}
		return s.forecast(fields[1], horizon)
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history TICKER"
		}
		symbol := strings.ToUpper(fields[1])
		runs, err := s.Recorder.RecentRuns(symbol, 5)
		if err != nil {
			return notifier.FormatFailure(symbol, err)
		}
		return notifier.FormatHistory(symbol, runs)
	case "/symbols":
		return "Scheduled symbols: " + strings.Join(s.Symbols, ", ")
	default:
		return notifier.FormatHelp(s.Symbols)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
