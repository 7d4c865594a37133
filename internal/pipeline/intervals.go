package pipeline

import (
	"sort"
	"time"

	"github.com/routemind/routemind/internal/models"
)

const dayDuration = 24 * time.Hour

// purchaseGaps computes, per customer, the whole-day gaps between
// consecutive purchases sorted ascending by date. A customer's first
// purchase yields no gap. Input row order does not affect the result.
func purchaseGaps(records []models.PurchaseRecord) map[int][]float64 {
	dates := make(map[int][]time.Time)
	for _, r := range records {
		dates[r.CustomerID] = append(dates[r.CustomerID], r.PurchaseDate)
	}

	gaps := make(map[int][]float64, len(dates))
	for customer, ds := range dates {
		sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
		for i := 1; i < len(ds); i++ {
			gaps[customer] = append(gaps[customer], float64(ds[i].Sub(ds[i-1])/dayDuration))
		}
	}
	return gaps
}

// BuildProfiles derives one interval profile per customer from the records
// and their gap observations (as computed by purchaseGaps over the same
// records). MeanIntervalDays is nil for customers with fewer than two dated
// purchases.
func BuildProfiles(records []models.PurchaseRecord, gaps map[int][]float64) map[int]models.IntervalProfile {
	profiles := make(map[int]models.IntervalProfile)
	for _, r := range records {
		p, ok := profiles[r.CustomerID]
		if !ok {
			profiles[r.CustomerID] = models.IntervalProfile{CustomerID: r.CustomerID, LastPurchase: r.PurchaseDate}
			continue
		}
		if r.PurchaseDate.After(p.LastPurchase) {
			p.LastPurchase = r.PurchaseDate
			profiles[r.CustomerID] = p
		}
	}

	for customer, g := range gaps {
		if len(g) == 0 {
			continue
		}
		p := profiles[customer]
		mean := meanOf(g)
		p.MeanIntervalDays = &mean
		profiles[customer] = p
	}
	return profiles
}

// BuildFallbackMeans pools gap observations across the whole population and
// across the high-value cohort. Pooled means weight every observation
// equally rather than averaging per-customer means. A field stays nil when
// its gap population is empty.
func BuildFallbackMeans(gaps map[int][]float64, highValue map[int]bool) models.FallbackMeans {
	var all, cohort []float64
	for customer, g := range gaps {
		all = append(all, g...)
		if highValue[customer] {
			cohort = append(cohort, g...)
		}
	}

	means := models.FallbackMeans{}
	if len(all) > 0 {
		m := meanOf(all)
		means.Global = &m
	}
	if len(cohort) > 0 {
		m := meanOf(cohort)
		means.HighValueCohort = &m
	}
	return means
}

// ResolveInterval walks the fallback chain in strict order and returns the
// first defined, non-zero interval:
//
//  1. the customer's own mean (a zero mean is non-physical and escalates)
//  2. the pooled high-value-cohort mean
//  3. the pooled platform-wide mean
//  4. the configured constant (90 days by default)
//
// The returned interval is always positive, so downstream projection never
// divides by zero.
func ResolveInterval(customerMean *float64, means models.FallbackMeans, defaultDays float64) (float64, models.IntervalSource) {
	providers := []struct {
		source models.IntervalSource
		value  *float64
	}{
		{models.SourceCustomer, customerMean},
		{models.SourceCohort, means.HighValueCohort},
		{models.SourceGlobal, means.Global},
	}

	for _, p := range providers {
		if p.value != nil && *p.value > 0 {
			return *p.value, p.source
		}
	}
	return defaultDays, models.SourceDefault
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
