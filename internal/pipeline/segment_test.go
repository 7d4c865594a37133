package pipeline

import (
	"testing"
	"time"

	"github.com/routemind/routemind/internal/models"
)

func TestHighValueStrictlyAboveMean(t *testing.T) {
	// Spend: 100, 200, 300 -> mean 200. Only customer 3 is strictly above.
	spend := map[int]float64{1: 100, 2: 200, 3: 300}

	highValue := HighValueCustomers(spend)
	if len(highValue) != 1 || !highValue[3] {
		t.Errorf("Expected only customer 3 high-value, got %v", highValue)
	}
}

func TestHighValueEmpty(t *testing.T) {
	if got := HighValueCustomers(map[int]float64{}); len(got) != 0 {
		t.Errorf("Expected no high-value customers, got %v", got)
	}
}

func TestTotalSpendNilPriceContributesZero(t *testing.T) {
	records := []models.PurchaseRecord{
		record(1, 1, 2023, time.January, 1, 100, 2),
		{CustomerID: 1, DestinationID: 1, PurchaseDate: day(2023, time.January, 5), TicketQuantity: 3}, // nil price
	}
	spend := TotalSpendByCustomer(records)
	if spend[1] != 200.0 {
		t.Errorf("spend = %f, want 200.0 (nil price rows contribute nothing)", spend[1])
	}
}

func TestSegmentCounts(t *testing.T) {
	// Customer 1: 2 purchases, high-value, recent -> VIP, active.
	// Customer 2: 1 purchase, high-value, old -> not VIP, inactive.
	// Customer 3: 2 purchases, low-value, recent -> frequent only, active.
	records := []models.PurchaseRecord{
		record(1, 1, 2024, time.May, 1, 500, 1),
		record(1, 1, 2024, time.June, 1, 500, 1),
		record(2, 1, 2020, time.January, 1, 900, 1),
		record(3, 1, 2024, time.April, 1, 10, 1),
		record(3, 1, 2024, time.June, 10, 10, 1),
	}

	profiles := BuildProfiles(records, purchaseGaps(records))
	counts := purchaseCounts(records)
	highValue := HighValueCustomers(TotalSpendByCustomer(records))

	seg := Segment(profiles, counts, highValue, 3)

	// Spend: 1000, 900, 20 -> mean 640 -> customers 1 and 2 high-value.
	if seg.HighValue != 2 {
		t.Errorf("high-value = %d, want 2", seg.HighValue)
	}
	if seg.VIP != 1 {
		t.Errorf("vip = %d, want 1", seg.VIP)
	}
	// Max date 2024-06-10, activity floor 2021-06-10: customers 1 and 3 active.
	if seg.Active != 2 {
		t.Errorf("active = %d, want 2", seg.Active)
	}
	if seg.Inactive != 1 {
		t.Errorf("inactive = %d, want 1", seg.Inactive)
	}

	if err := seg.Validate(len(profiles)); err != nil {
		t.Errorf("segmentation should validate: %v", err)
	}
}

func TestSegmentActivePartition(t *testing.T) {
	// Active + inactive must equal the customer universe for any input.
	records := []models.PurchaseRecord{
		record(1, 1, 2020, time.January, 1, 10, 1),
		record(2, 1, 2021, time.June, 1, 20, 1),
		record(3, 1, 2022, time.March, 1, 30, 1),
		record(4, 1, 2024, time.December, 1, 40, 1),
	}

	profiles := BuildProfiles(records, purchaseGaps(records))
	seg := Segment(profiles, purchaseCounts(records), HighValueCustomers(TotalSpendByCustomer(records)), 3)

	if seg.Active+seg.Inactive != len(profiles) {
		t.Errorf("active(%d) + inactive(%d) != total customers (%d)", seg.Active, seg.Inactive, len(profiles))
	}
}

func TestSegmentActivityFloorInclusive(t *testing.T) {
	// Last purchase exactly 3 years before the dataset max is still active.
	records := []models.PurchaseRecord{
		record(1, 1, 2021, time.June, 10, 10, 1),
		record(2, 1, 2024, time.June, 10, 20, 1),
	}

	profiles := BuildProfiles(records, purchaseGaps(records))
	seg := Segment(profiles, purchaseCounts(records), map[int]bool{}, 3)

	if seg.Active != 2 {
		t.Errorf("active = %d, want 2 (boundary is inclusive)", seg.Active)
	}
	if seg.Inactive != 0 {
		t.Errorf("inactive = %d, want 0", seg.Inactive)
	}
}

func TestSegmentFrequentCountsRows(t *testing.T) {
	// Two rows on the same day still count as frequent.
	records := []models.PurchaseRecord{
		record(1, 1, 2024, time.May, 1, 500, 1),
		record(1, 1, 2024, time.May, 1, 500, 1),
		record(2, 1, 2024, time.May, 1, 10, 1),
	}

	counts := purchaseCounts(records)
	highValue := HighValueCustomers(TotalSpendByCustomer(records))
	seg := Segment(BuildProfiles(records, purchaseGaps(records)), counts, highValue, 3)

	if seg.VIP != 1 {
		t.Errorf("vip = %d, want 1 (same-day rows count toward frequency)", seg.VIP)
	}
}

func TestSegmentEmpty(t *testing.T) {
	seg := Segment(map[int]models.IntervalProfile{}, map[int]int{}, map[int]bool{}, 3)
	if seg.Active != 0 || seg.Inactive != 0 || seg.HighValue != 0 || seg.VIP != 0 {
		t.Errorf("empty input should yield zero counts, got %+v", seg)
	}
}
