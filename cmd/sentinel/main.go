// Command sentinel runs scheduled forecasts for the configured symbols,
// records them to SQLite, reports to Telegram and serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"AlphaMind/internal/config"
	"AlphaMind/internal/logger"
	"AlphaMind/internal/metrics"
	"AlphaMind/internal/notifier"
	"AlphaMind/internal/pipeline"
	"AlphaMind/internal/recorder"
	"AlphaMind/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog().Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		bootLog().Fatal().Err(err).Msg("config validation")
	}
	if err := cfg.RequireTelegram(); err != nil {
		bootLog().Fatal().Err(err).Msg("config validation")
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		bootLog().Fatal().Err(err).Msg("init logger")
	}
	defer closer.Close()
	log.Info().Msg("AlphaMind sentinel starting...")

	// Init pipeline
	runner, err := pipeline.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init pipeline")
	}
	m := metrics.New()
	runner.Observer = m

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy, log)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics endpoint
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint listening")

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, runner, tn, rec, m, cfg.Schedule.Symbols, cfg.Model.Horizon, cfg.Model.MaxHorizon, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, forecasting now")
		go sched.RunAll()
	}

	log.Info().Msg("AlphaMind sentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("AlphaMind sentinel stopped")
}

func metricsMux(m *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// bootLog is used before the configured logger exists.
func bootLog() *zerolog.Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return &l
}
