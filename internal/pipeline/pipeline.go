package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/routemind/routemind/internal/logger"
	"github.com/routemind/routemind/internal/models"
)

// Params pins the run-dependent inputs of a pipeline run. Pinning Today and
// WindowStart makes two runs over the same record snapshot produce identical
// tables (run metadata excepted).
type Params struct {
	Today               time.Time
	WindowStart         time.Time
	WindowDays          int
	ActivityWindowYears int
	DefaultIntervalDays float64
}

// Result bundles the four output tables handed to the presentation layer,
// plus run metadata and the fallback means for operator visibility.
type Result struct {
	RunID        string                          `json:"run_id"`
	GeneratedAt  time.Time                       `json:"generated_at"`
	Today        time.Time                       `json:"today"`
	WindowStart  time.Time                       `json:"window_start"`
	WindowDays   int                             `json:"window_days"`
	Customers    int                             `json:"customers"`
	Destinations int                             `json:"destinations"`
	Means        models.FallbackMeans            `json:"fallback_means"`
	Ranking      []models.DestinationProbability `json:"ranking"`
	Segmentation models.SegmentationCounts       `json:"segmentation"`
	Forecasts    []models.Forecast               `json:"forecasts"`
	Window       []models.WindowRow              `json:"window"`
}

// Run executes the full pipeline over the compacted record set: destination
// ranking, segmentation, fallback means, high-value forecasts, and the
// near-term window view. All stages are pure; Run itself only sequences
// them and stamps run metadata.
func Run(records []models.PurchaseRecord, p Params) (*Result, error) {
	if p.DefaultIntervalDays <= 0 {
		p.DefaultIntervalDays = models.DefaultIntervalDays
	}
	if p.ActivityWindowYears < 1 {
		p.ActivityWindowYears = 3
	}

	spend := TotalSpendByCustomer(records)
	highValue := HighValueCustomers(spend)
	counts := purchaseCounts(records)
	gaps := purchaseGaps(records)
	profiles := BuildProfiles(records, gaps)
	means := BuildFallbackMeans(gaps, highValue)

	logger.Debug("pipeline: %d records, %d customers, %d high-value",
		len(records), len(profiles), len(highValue))
	if means.Global == nil {
		logger.Warn("no customer has two dated purchases; forecasts will use the %.1f-day default interval",
			p.DefaultIntervalDays)
	}

	ranking := RankDestinations(records)
	if err := models.CheckProbabilitySum(ranking); err != nil {
		return nil, &models.InvariantViolationError{Stage: "destination_ranking", Detail: err.Error()}
	}

	segmentation := Segment(profiles, counts, highValue, p.ActivityWindowYears)
	if err := segmentation.Validate(len(profiles)); err != nil {
		return nil, &models.InvariantViolationError{Stage: "segmentation", Detail: err.Error()}
	}

	forecasts, err := BuildForecasts(profiles, highValue, means, p.DefaultIntervalDays, p.Today)
	if err != nil {
		return nil, err
	}
	for i := range forecasts {
		if err := forecasts[i].Validate(); err != nil {
			return nil, &models.InvariantViolationError{Stage: "forecast", Detail: err.Error()}
		}
	}

	windowStart := p.WindowStart
	if windowStart.IsZero() {
		windowStart = p.Today
	}
	window := WindowView(forecasts, ModeDestinations(records), windowStart, p.WindowDays)

	destinations := make(map[int]bool)
	for i := range records {
		destinations[records[i].DestinationID] = true
	}

	logger.Info("pipeline complete: %d destinations ranked, %d forecasts, %d window rows",
		len(ranking), len(forecasts), len(window))

	return &Result{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Today:        p.Today,
		WindowStart:  windowStart,
		WindowDays:   p.WindowDays,
		Customers:    len(profiles),
		Destinations: len(destinations),
		Means:        means,
		Ranking:      ranking,
		Segmentation: segmentation,
		Forecasts:    forecasts,
		Window:       window,
	}, nil
}
