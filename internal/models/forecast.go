package models

import (
	"errors"
	"time"
)

// DefaultIntervalDays is the hard-coded last-resort purchase interval, used
// only when not a single customer in the dataset has two dated purchases.
const DefaultIntervalDays = 90.0

// IntervalProfile describes one customer's historical purchase cadence.
// MeanIntervalDays is nil when the customer has fewer than two dated
// purchases; a nil or zero mean escalates through the fallback chain before
// any forecast is made.
type IntervalProfile struct {
	CustomerID       int       `json:"customer_id"`
	LastPurchase     time.Time `json:"last_purchase"`
	MeanIntervalDays *float64  `json:"mean_interval_days"`
}

// FallbackMeans holds the platform-wide interval means computed once per run.
// A nil field means the underlying gap population was empty (or all zero
// gaps), so that level of the chain is unavailable.
type FallbackMeans struct {
	HighValueCohort *float64 `json:"high_value_cohort_mean_interval"`
	Global          *float64 `json:"global_mean_interval"`
}

// IntervalSource names which level of the fallback chain produced a resolved
// interval. Recorded on each forecast for operator visibility.
type IntervalSource string

const (
	SourceCustomer IntervalSource = "customer"
	SourceCohort   IntervalSource = "high_value_cohort"
	SourceGlobal   IntervalSource = "global"
	SourceDefault  IntervalSource = "default"
)

// Forecast is the projected next purchase for one high-value customer.
// IntervalDays is the resolved interval after the fallback chain and is
// never nil and never zero.
type Forecast struct {
	CustomerID     int            `json:"customer_id"`
	LastPurchase   time.Time      `json:"last_purchase"`
	IntervalDays   float64        `json:"resolved_interval_days"`
	IntervalSource IntervalSource `json:"interval_source"`
	NextPurchase   time.Time      `json:"next_purchase"`
}

// Validate checks the forecast invariants: a positive resolved interval and a
// projection that never precedes the last observed purchase.
func (f *Forecast) Validate() error {
	if f.CustomerID < 1 {
		return errors.New("customer code must be a positive dense integer")
	}
	if f.LastPurchase.IsZero() {
		return errors.New("last purchase date must be set")
	}
	if f.IntervalDays <= 0 {
		return errors.New("resolved interval must be positive")
	}
	if f.NextPurchase.Before(f.LastPurchase) {
		return errors.New("next purchase must not precede last purchase")
	}
	return nil
}
