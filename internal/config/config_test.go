package config

import (
	"os"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
source:
  url: "https://example.com/ledger.csv"
  timeout: 30s
  max_retries: 3
  retry_delay_base: 1s

pipeline:
  year_window_start: 2020
  year_window_end: 2024
  activity_window_years: 3
  fallback_interval_days: 90.0
  today: "2025-09-01"

forecast:
  window_days: 5
  window_start: "2025-09-14"

output:
  dir: "./out"
  top_destinations: 20

telegram:
  enabled: false

logging:
  level: "info"
  format: "text"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.Source.URL != "https://example.com/ledger.csv" {
		t.Errorf("Unexpected source URL: %s", cfg.Source.URL)
	}
	if cfg.Pipeline.YearWindowStart != 2020 || cfg.Pipeline.YearWindowEnd != 2024 {
		t.Errorf("Unexpected year window: [%d, %d]", cfg.Pipeline.YearWindowStart, cfg.Pipeline.YearWindowEnd)
	}
	if cfg.Forecast.WindowDays != 5 {
		t.Errorf("Unexpected window days: %d", cfg.Forecast.WindowDays)
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// Overrides should parse
	today, ok := cfg.TodayOverride()
	if !ok {
		t.Fatal("TodayOverride should be set")
	}
	if today.Format(DateLayout) != "2025-09-01" {
		t.Errorf("Unexpected today override: %v", today)
	}

	start, ok := cfg.WindowStartOverride()
	if !ok {
		t.Fatal("WindowStartOverride should be set")
	}
	if start.Format(DateLayout) != "2025-09-14" {
		t.Errorf("Unexpected window start override: %v", start)
	}
}

func TestDefaults(t *testing.T) {
	content := `
source:
  url: "https://example.com/ledger.csv"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate with defaults failed: %v", err)
	}

	if cfg.Pipeline.FallbackIntervalDays != 90.0 {
		t.Errorf("Expected default fallback interval 90.0, got %f", cfg.Pipeline.FallbackIntervalDays)
	}
	if cfg.Forecast.WindowDays != 5 {
		t.Errorf("Expected default window days 5, got %d", cfg.Forecast.WindowDays)
	}
	if cfg.Output.TopDestinations != 20 {
		t.Errorf("Expected default top destinations 20, got %d", cfg.Output.TopDestinations)
	}
	if _, ok := cfg.TodayOverride(); ok {
		t.Error("TodayOverride should not be set by default")
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source: SourceConfig{
				URL:        "https://example.com/ledger.csv",
				Timeout:    30 * 1000 * 1000 * 1000,
				MaxRetries: 3,
			},
			Pipeline: PipelineConfig{
				YearWindowStart:      2020,
				YearWindowEnd:        2024,
				ActivityWindowYears:  3,
				FallbackIntervalDays: 90.0,
			},
			Forecast: ForecastConfig{WindowDays: 5},
			Output:   OutputConfig{Dir: "./out", TopDestinations: 20},
			Logging:  LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing source url", func(c *Config) { c.Source.URL = "" }},
		{"inverted year window", func(c *Config) { c.Pipeline.YearWindowStart = 2025 }},
		{"zero fallback interval", func(c *Config) { c.Pipeline.FallbackIntervalDays = 0 }},
		{"bad today format", func(c *Config) { c.Pipeline.Today = "01/09/2025" }},
		{"zero window days", func(c *Config) { c.Forecast.WindowDays = 0 }},
		{"missing telegram token when enabled", func(c *Config) {
			c.Telegram.Enabled = true
			c.Telegram.ChatID = "42"
		}},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("baseline config should validate, got %v", err)
	}
}
