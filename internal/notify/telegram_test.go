package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/routemind/routemind/internal/models"
	"github.com/routemind/routemind/internal/pipeline"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Today:       time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		WindowStart: time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC),
		WindowDays:  5,
		Customers:   10,
		Segmentation: models.SegmentationCounts{
			HighValue: 3, VIP: 2, Active: 8, Inactive: 2,
		},
		Ranking: []models.DestinationProbability{
			{DestinationID: 4, TotalTickets: 42, Probability: 0.42},
		},
		Forecasts: []models.Forecast{
			{CustomerID: 1},
		},
		Window: []models.WindowRow{
			{DestinationID: 4, Customers: 3},
			{DestinationID: 7, Customers: 2},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	msg := formatSummary(testResult())

	for _, want := range []string{
		"2025-09-01",
		"Customers: 10",
		"3 high-value",
		"Top destination: #4",
		"5 customers expected to buy between 2025-09-14 and 2025-09-18",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary should contain %q, got:\n%s", want, msg)
		}
	}
}

func TestFormatSummaryEmptyWindow(t *testing.T) {
	result := testResult()
	result.Window = nil

	msg := formatSummary(result)
	if !strings.Contains(msg, "no data for this period") {
		t.Errorf("empty window summary should mention no data, got:\n%s", msg)
	}
}

func TestNewClientRejectsBadChatID(t *testing.T) {
	if _, err := NewClient("token", "not-a-number", 3, time.Millisecond); err == nil {
		t.Error("NewClient should reject a non-numeric chat ID")
	}
}
