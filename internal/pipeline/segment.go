package pipeline

import (
	"time"

	"github.com/routemind/routemind/internal/models"
)

// TotalSpendByCustomer sums total spend (price × quantity) per customer.
// Records with an unparseable price contribute zero.
func TotalSpendByCustomer(records []models.PurchaseRecord) map[int]float64 {
	spend := make(map[int]float64)
	for i := range records {
		spend[records[i].CustomerID] += records[i].TotalSpend()
	}
	return spend
}

// HighValueCustomers returns the set of customers whose total spend is
// strictly above the platform mean per-customer spend.
func HighValueCustomers(spend map[int]float64) map[int]bool {
	if len(spend) == 0 {
		return map[int]bool{}
	}

	total := 0.0
	for _, s := range spend {
		total += s
	}
	mean := total / float64(len(spend))

	highValue := make(map[int]bool)
	for customer, s := range spend {
		if s > mean {
			highValue[customer] = true
		}
	}
	return highValue
}

// purchaseCounts counts raw purchase rows per customer. Duplicate same-day
// rows each count; "frequent" is defined on rows, not distinct days.
func purchaseCounts(records []models.PurchaseRecord) map[int]int {
	counts := make(map[int]int)
	for i := range records {
		counts[records[i].CustomerID]++
	}
	return counts
}

// Segment classifies the customer universe into the four reported cohorts.
// High-value and VIP overlap by construction; active and inactive partition
// the universe exactly. Activity is measured against the latest purchase
// date present in the dataset, not the wall clock, with an inclusive lower
// bound of activityYears before it.
func Segment(
	profiles map[int]models.IntervalProfile,
	counts map[int]int,
	highValue map[int]bool,
	activityYears int,
) models.SegmentationCounts {
	seg := models.SegmentationCounts{HighValue: len(highValue)}

	for customer, n := range counts {
		if n >= 2 && highValue[customer] {
			seg.VIP++
		}
	}

	if len(profiles) == 0 {
		return seg
	}

	var maxDate time.Time
	for _, p := range profiles {
		if p.LastPurchase.After(maxDate) {
			maxDate = p.LastPurchase
		}
	}
	activityFloor := maxDate.AddDate(-activityYears, 0, 0)

	for _, p := range profiles {
		if !p.LastPurchase.Before(activityFloor) {
			seg.Active++
		}
	}
	seg.Inactive = len(profiles) - seg.Active

	return seg
}
