// Package pipeline implements the forecasting and segmentation core: dense
// identifier compaction, purchase-interval estimation with a multi-level
// fallback chain, next-purchase projection, customer segmentation, and
// destination-probability ranking.
//
// Every stage is a pure transformation over an in-memory record set; each
// run recomputes all derived tables from scratch. The fallback chain is the
// central design decision: it prefers individual cadence, degrades to
// high-value-cohort cadence, then platform cadence, then a fixed constant,
// so a forecast is always computable without a zero or undefined interval.
package pipeline

import (
	"github.com/routemind/routemind/internal/models"
	"github.com/routemind/routemind/internal/source"
)

// codebook assigns dense positive integer codes to raw identifier values in
// first-seen order. Codes are stable for one run given the same input order.
type codebook struct {
	codes map[string]int
}

func newCodebook() *codebook {
	return &codebook{codes: make(map[string]int)}
}

func (cb *codebook) code(raw string) int {
	if c, ok := cb.codes[raw]; ok {
		return c
	}
	c := len(cb.codes) + 1
	cb.codes[raw] = c
	return c
}

// Compact maps sparse customer and destination identifiers onto dense codes
// and produces the canonical purchase records the core consumes. Customers
// and destinations are independent numbering spaces. Rows must already be
// filtered to the year window, so every row carries a purchase date.
func Compact(sales []source.RawSale) []models.PurchaseRecord {
	customers := newCodebook()
	destinations := newCodebook()

	records := make([]models.PurchaseRecord, 0, len(sales))
	for _, s := range sales {
		records = append(records, models.PurchaseRecord{
			CustomerID:     customers.code(s.CustomerKey),
			DestinationID:  destinations.code(s.DestinationDeparture),
			PurchaseDate:   *s.PurchaseDate,
			TicketPrice:    s.GrossValue,
			TicketQuantity: s.TicketQuantity,
		})
	}
	return records
}
