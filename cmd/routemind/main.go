package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/routemind/routemind/internal/config"
	"github.com/routemind/routemind/internal/logger"
	"github.com/routemind/routemind/internal/notify"
	"github.com/routemind/routemind/internal/pipeline"
	"github.com/routemind/routemind/internal/report"
	"github.com/routemind/routemind/internal/source"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Pin the run's reference date; midnight UTC like every purchase date.
	today, pinned := cfg.TodayOverride()
	if !pinned {
		now := time.Now().UTC()
		today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		logger.Info("Reference date pinned to %s", today.Format(config.DateLayout))
	}
	windowStart, _ := cfg.WindowStartOverride()

	// Optional Telegram notifier
	var notifier *notify.Client
	if cfg.Telegram.Enabled {
		notifier, err = notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram notifications enabled")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Fetch and normalize the ledger; total source failure is fatal and
	// produces no partial output. Per-request timeouts live in the client.
	client := source.NewClient(cfg.Source.URL, cfg.Source.Timeout, cfg.Source.MaxRetries, cfg.Source.RetryDelayBase)
	logger.Info("Fetching purchase ledger from %s", cfg.Source.URL)
	sales, err := client.FetchLedger(context.Background())
	if err != nil {
		if notifier != nil {
			if sendErr := notifier.SendError(err); sendErr != nil {
				logger.Warn("Failed to send error notification: %v", sendErr)
			}
		}
		logger.Fatal("Failed to fetch ledger: %v", err)
	}
	logger.Info("Fetched %d ledger rows", len(sales))

	filtered := source.FilterYearWindow(sales, cfg.Pipeline.YearWindowStart, cfg.Pipeline.YearWindowEnd)
	logger.Info("%d rows inside year window [%d, %d]",
		len(filtered), cfg.Pipeline.YearWindowStart, cfg.Pipeline.YearWindowEnd)

	records := pipeline.Compact(filtered)

	// Run the forecasting and segmentation core
	startTime := time.Now()
	result, err := pipeline.Run(records, pipeline.Params{
		Today:               today,
		WindowStart:         windowStart,
		WindowDays:          cfg.Forecast.WindowDays,
		ActivityWindowYears: cfg.Pipeline.ActivityWindowYears,
		DefaultIntervalDays: cfg.Pipeline.FallbackIntervalDays,
	})
	if err != nil {
		if notifier != nil {
			if sendErr := notifier.SendError(err); sendErr != nil {
				logger.Warn("Failed to send error notification: %v", sendErr)
			}
		}
		logger.Fatal("Pipeline failed: %v", err)
	}
	logger.Info("Run %s completed in %v", result.RunID, time.Since(startTime))

	// Hand the tables to the presentation layer
	writer := report.NewWriter(cfg.Output.Dir, cfg.Output.TopDestinations)
	if err := writer.Write(result); err != nil {
		logger.Fatal("Failed to write report: %v", err)
	}
	logger.Info("Report written to %s", cfg.Output.Dir)

	if len(result.Window) == 0 {
		logger.Info("No forecasts fall in the %d-day window starting %s",
			result.WindowDays, result.WindowStart.Format(config.DateLayout))
	}

	if notifier != nil {
		if err := notifier.SendRunSummary(result); err != nil {
			logger.Warn("Failed to send run summary: %v", err)
		}
	}
}
