package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/openfooty/fixture-difficulty/internal/app"
	"github.com/openfooty/fixture-difficulty/internal/config"
	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
)

// One-shot rating recalculation, meant for cron or manual runs. It walks the
// season's unprocessed fixtures and appends ledger entries, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	season := flag.String("season", cfg.CurrentSeason, "season to recalculate, e.g. 2025-26")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	components, err := app.BuildComponents(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	if components.DB != nil {
		defer func() { _ = components.DB.Close() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := components.RatingService.ProcessSeason(ctx, *season)
	if err != nil {
		logger.Error("recalculate ratings", "season", *season, "error", err)
		os.Exit(1)
	}

	logger.Info("ratings recalculated",
		"season", *season,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"errored", report.Errored,
	)
}
