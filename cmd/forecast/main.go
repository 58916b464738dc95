// Command forecast runs one forecast for a ticker and prints the result as a
// single JSON line on stdout. Logs go to stderr.
//
//	forecast [-days 30] [-train] [-predict] [-config path] [-period 2y] TICKER
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"AlphaMind/internal/config"
	"AlphaMind/internal/logger"
	"AlphaMind/internal/pipeline"
	"AlphaMind/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	days := fs.Int("days", 0, "days ahead to predict (default from config, 30)")
	_ = fs.Bool("train", true, "train the model (always done)")
	predict := fs.Bool("predict", false, "forecast future prices; without it only a training summary is printed")
	cfgPath := fs.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "config file")
	period := fs.String("period", "", "history period to fetch, e.g. 1y, 2y")
	usage := func(err error) int {
		_ = report.Write(stdout, report.NewFailure("", err))
		return 2
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return usage(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: forecast [flags] TICKER")
		fs.PrintDefaults()
		return usage(fmt.Errorf("expected exactly one ticker, got %d arguments", fs.NArg()))
	}
	ticker := strings.ToUpper(strings.TrimSpace(fs.Arg(0)))

	fail := func(err error) int {
		_ = report.Write(stdout, report.NewFailure(ticker, err))
		return 1
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fail(err)
	}
	if *days != 0 {
		cfg.Model.Horizon = *days
	}
	if *period != "" {
		cfg.DataSource.Period = *period
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return fail(err)
	}
	defer closer.Close()

	runner, err := pipeline.New(cfg, log)
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("ticker", ticker).Bool("predict", *predict).Int("days", cfg.Model.Horizon).Msg("starting run")
	out, err := runner.Run(ctx, ticker, pipeline.Options{Horizon: cfg.Model.Horizon, Predict: *predict})
	if err != nil {
		logFailure(log, err)
		return fail(err)
	}

	var payload interface{}
	if out.Report != nil {
		payload = report.NewSuccess(*out.Report)
	} else {
		payload = report.NewTrainOnly(out.Ticker, out.Dataset)
	}
	if err := report.Write(stdout, payload); err != nil {
		log.Error().Err(err).Msg("write payload")
		return 1
	}
	return 0
}

func logFailure(log zerolog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("run cancelled")
		return
	}
	log.Error().Err(err).Msg("run failed")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
