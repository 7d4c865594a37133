package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the calendar-date format accepted for config overrides
// (today pin, forecast window start).
const DateLayout = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Output   OutputConfig   `mapstructure:"output"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig holds the purchase-ledger download configuration
type SourceConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// PipelineConfig holds the core aggregation parameters
type PipelineConfig struct {
	YearWindowStart      int     `mapstructure:"year_window_start"`
	YearWindowEnd        int     `mapstructure:"year_window_end"`
	ActivityWindowYears  int     `mapstructure:"activity_window_years"`
	FallbackIntervalDays float64 `mapstructure:"fallback_interval_days"`
	Today                string  `mapstructure:"today"` // optional "YYYY-MM-DD" pin for reproducible runs
}

// ForecastConfig holds the near-term forecast view configuration
type ForecastConfig struct {
	WindowDays  int    `mapstructure:"window_days"`
	WindowStart string `mapstructure:"window_start"` // optional "YYYY-MM-DD"; defaults to the pipeline's today
}

// OutputConfig holds the report destination for the presentation layer
type OutputConfig struct {
	Dir             string `mapstructure:"dir"`
	TopDestinations int    `mapstructure:"top_destinations"`
}

// TelegramConfig holds the optional run-summary notification configuration
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("ROUTEMIND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.timeout", "30s")
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("source.retry_delay_base", "1s")

	// Pipeline defaults
	v.SetDefault("pipeline.year_window_start", 2020)
	v.SetDefault("pipeline.year_window_end", 2024)
	v.SetDefault("pipeline.activity_window_years", 3)
	v.SetDefault("pipeline.fallback_interval_days", 90.0)

	// Forecast defaults
	v.SetDefault("forecast.window_days", 5)

	// Output defaults
	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.top_destinations", 20)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Source config
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if c.Source.MaxRetries < 1 {
		return fmt.Errorf("source.max_retries must be at least 1")
	}

	// Validate Pipeline config
	if c.Pipeline.YearWindowStart > c.Pipeline.YearWindowEnd {
		return fmt.Errorf("pipeline.year_window_start must not exceed pipeline.year_window_end")
	}
	if c.Pipeline.ActivityWindowYears < 1 {
		return fmt.Errorf("pipeline.activity_window_years must be at least 1")
	}
	if c.Pipeline.FallbackIntervalDays <= 0 {
		return fmt.Errorf("pipeline.fallback_interval_days must be positive")
	}
	if c.Pipeline.Today != "" {
		if _, err := time.Parse(DateLayout, c.Pipeline.Today); err != nil {
			return fmt.Errorf("pipeline.today must be YYYY-MM-DD: %w", err)
		}
	}

	// Validate Forecast config
	if c.Forecast.WindowDays < 1 {
		return fmt.Errorf("forecast.window_days must be at least 1")
	}
	if c.Forecast.WindowStart != "" {
		if _, err := time.Parse(DateLayout, c.Forecast.WindowStart); err != nil {
			return fmt.Errorf("forecast.window_start must be YYYY-MM-DD: %w", err)
		}
	}

	// Validate Output config
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.TopDestinations < 1 {
		return fmt.Errorf("output.top_destinations must be at least 1")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// TodayOverride returns the pinned "today" date, or ok=false when the run
// should use the wall clock.
func (c *Config) TodayOverride() (time.Time, bool) {
	if c.Pipeline.Today == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, c.Pipeline.Today)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WindowStartOverride returns the pinned forecast window start, or ok=false
// when the window should open at the pipeline's today.
func (c *Config) WindowStartOverride() (time.Time, bool) {
	if c.Forecast.WindowStart == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, c.Forecast.WindowStart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
