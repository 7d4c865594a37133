// Package notify sends an optional per-run summary via the Telegram Bot API
// once the output tables are written. Delivery uses bounded retries; a
// failed notification is logged by the caller but never fails the run.
package notify

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/routemind/routemind/internal/config"
	"github.com/routemind/routemind/internal/pipeline"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendRunSummary sends the run's headline numbers
func (c *Client) SendRunSummary(result *pipeline.Result) error {
	return c.send(formatSummary(result))
}

// SendError reports a failed run
func (c *Client) SendError(runErr error) error {
	return c.send(fmt.Sprintf("❌ RouteMind run failed: %v", runErr))
}

// send delivers a plain-text message with retry
func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatSummary formats a run result into a Telegram message
func formatSummary(result *pipeline.Result) string {
	message := "🚌 RouteMind run complete\n\n"
	message += fmt.Sprintf("📅 Reference date: %s\n", result.Today.Format(config.DateLayout))
	message += fmt.Sprintf("👥 Customers: %d (%d high-value, %d VIP, %d active, %d inactive)\n",
		result.Customers,
		result.Segmentation.HighValue,
		result.Segmentation.VIP,
		result.Segmentation.Active,
		result.Segmentation.Inactive,
	)
	message += fmt.Sprintf("🗺 Destinations ranked: %d\n", len(result.Ranking))
	if len(result.Ranking) > 0 {
		top := result.Ranking[0]
		message += fmt.Sprintf("🥇 Top destination: #%d (%.1f%% of ticket volume)\n",
			top.DestinationID, top.Probability*100)
	}
	message += fmt.Sprintf("🔮 Forecasts: %d\n", len(result.Forecasts))

	windowEnd := result.WindowStart.AddDate(0, 0, result.WindowDays-1)
	if len(result.Window) == 0 {
		message += fmt.Sprintf("📭 No purchases forecast for %s to %s — no data for this period\n",
			result.WindowStart.Format(config.DateLayout), windowEnd.Format(config.DateLayout))
	} else {
		customers := 0
		for _, row := range result.Window {
			customers += row.Customers
		}
		message += fmt.Sprintf("🛒 %d customers expected to buy between %s and %s\n",
			customers, result.WindowStart.Format(config.DateLayout), windowEnd.Format(config.DateLayout))
	}

	return message
}
