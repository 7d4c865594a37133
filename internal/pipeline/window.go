package pipeline

import (
	"sort"
	"time"

	"github.com/routemind/routemind/internal/models"
)

// ModeDestinations picks each customer's most frequently purchased
// destination, counting every purchase row. Ties break toward the
// destination first encountered in insertion order. Customers with no
// purchase rows simply have no entry.
func ModeDestinations(records []models.PurchaseRecord) map[int]int {
	counts := make(map[int]map[int]int)
	firstSeen := make(map[int][]int)

	for i := range records {
		customer, destination := records[i].CustomerID, records[i].DestinationID
		if counts[customer] == nil {
			counts[customer] = make(map[int]int)
		}
		if counts[customer][destination] == 0 {
			firstSeen[customer] = append(firstSeen[customer], destination)
		}
		counts[customer][destination]++
	}

	modes := make(map[int]int, len(counts))
	for customer, order := range firstSeen {
		best, bestCount := 0, 0
		for _, destination := range order {
			if counts[customer][destination] > bestCount {
				best, bestCount = destination, counts[customer][destination]
			}
		}
		modes[customer] = best
	}
	return modes
}

// WindowView filters forecasts to the near-term window [start, start+days-1],
// joins each customer's mode destination, and groups the survivors into
// (date, destination, customer count) rows for charting. Customers without a
// resolvable destination are dropped from this view only. A zero-row result
// is a legitimate outcome, not an error.
func WindowView(forecasts []models.Forecast, modes map[int]int, start time.Time, days int) []models.WindowRow {
	if days < 1 {
		return []models.WindowRow{}
	}
	end := start.AddDate(0, 0, days-1)

	type key struct {
		date        time.Time
		destination int
	}
	grouped := make(map[key]int)

	for i := range forecasts {
		next := forecasts[i].NextPurchase
		if next.Before(start) || next.After(end) {
			continue
		}
		destination, ok := modes[forecasts[i].CustomerID]
		if !ok {
			continue
		}
		grouped[key{date: next, destination: destination}]++
	}

	rows := make([]models.WindowRow, 0, len(grouped))
	for k, customers := range grouped {
		rows = append(rows, models.WindowRow{
			Date:          k.date,
			DestinationID: k.destination,
			Customers:     customers,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].DestinationID < rows[j].DestinationID
	})

	return rows
}
