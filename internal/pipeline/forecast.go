package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/routemind/routemind/internal/models"
)

// Project computes the next purchase date from the last purchase and a
// resolved interval. The elapsed days since the last purchase are clamped at
// zero (future-dated anomalies must not produce negative multipliers), the
// cycle multiplier is floored at one so the projection is never the last
// purchase date itself, and the result is the smallest whole-cycle multiple
// ahead of the elapsed time.
//
// A non-positive interval here means the fallback chain was bypassed or
// broken upstream; that is a contract breach, not a data condition, and is
// reported as an InvariantViolationError.
func Project(lastPurchase time.Time, intervalDays float64, today time.Time) (time.Time, error) {
	if intervalDays <= 0 {
		return time.Time{}, &models.InvariantViolationError{
			Stage:  "forecast",
			Detail: "resolved interval must be positive",
		}
	}
	if lastPurchase.IsZero() {
		return time.Time{}, &models.InvariantViolationError{
			Stage:  "forecast",
			Detail: "last purchase date must be set",
		}
	}

	daysElapsed := int(today.Sub(lastPurchase) / dayDuration)
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	cycles := math.Ceil(float64(daysElapsed) / intervalDays)
	if cycles < 1 {
		cycles = 1
	}

	next := lastPurchase.Add(time.Duration(cycles * intervalDays * float64(dayDuration)))
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC), nil
}

// BuildForecasts projects the next purchase date for every high-value
// customer. Customers with a single purchase still receive a forecast via
// the cohort/global fallback. Output is ordered by customer code.
func BuildForecasts(
	profiles map[int]models.IntervalProfile,
	highValue map[int]bool,
	means models.FallbackMeans,
	defaultDays float64,
	today time.Time,
) ([]models.Forecast, error) {
	customers := make([]int, 0, len(highValue))
	for customer := range highValue {
		customers = append(customers, customer)
	}
	sort.Ints(customers)

	forecasts := make([]models.Forecast, 0, len(customers))
	for _, customer := range customers {
		profile, ok := profiles[customer]
		if !ok {
			return nil, &models.InvariantViolationError{
				Stage:  "forecast",
				Detail: "high-value customer has no interval profile",
			}
		}

		interval, intervalSource := ResolveInterval(profile.MeanIntervalDays, means, defaultDays)
		next, err := Project(profile.LastPurchase, interval, today)
		if err != nil {
			return nil, err
		}

		forecasts = append(forecasts, models.Forecast{
			CustomerID:     customer,
			LastPurchase:   profile.LastPurchase,
			IntervalDays:   interval,
			IntervalSource: intervalSource,
			NextPurchase:   next,
		})
	}
	return forecasts, nil
}
