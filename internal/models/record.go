// Package models defines the core domain entities for the routemind pipeline.
// These models represent normalized purchase records, per-customer interval
// profiles, forecasts, and the derived output tables handed to the
// presentation layer. All models include built-in validation to ensure data
// integrity throughout the pipeline.
//
// Terminology:
//   - Dense code: a compact positive integer substituted for a sparse
//     real-world identifier, unique within one pipeline run.
//   - High-value customer: total historical spend strictly above the platform
//     mean per-customer spend.
package models

import (
	"errors"
	"time"
)

// PurchaseRecord is one normalized ticket-purchase transaction with dense
// customer and destination codes already assigned. Records are immutable once
// built; every derived table is recomputed from the full record set on each
// run.
type PurchaseRecord struct {
	CustomerID     int       `json:"customer_id"`     // Dense customer code (>=1)
	DestinationID  int       `json:"destination_id"`  // Dense departure-destination code (>=1)
	PurchaseDate   time.Time `json:"purchase_date"`   // Calendar date, normalized to midnight UTC
	TicketPrice    *float64  `json:"ticket_price"`    // Gross value; nil when the source field was unparseable
	TicketQuantity int       `json:"ticket_quantity"` // Tickets sold in this transaction
}

// TotalSpend returns ticket price times quantity. A record whose price could
// not be parsed contributes zero spend rather than poisoning the aggregate.
func (r *PurchaseRecord) TotalSpend() float64 {
	if r.TicketPrice == nil {
		return 0
	}
	return *r.TicketPrice * float64(r.TicketQuantity)
}

// Validate checks that all record fields are valid.
func (r *PurchaseRecord) Validate() error {
	if r.CustomerID < 1 {
		return errors.New("customer code must be a positive dense integer")
	}
	if r.DestinationID < 1 {
		return errors.New("destination code must be a positive dense integer")
	}
	if r.PurchaseDate.IsZero() {
		return errors.New("purchase date must be set")
	}
	if r.TicketPrice != nil && *r.TicketPrice < 0 {
		return errors.New("ticket price must not be negative")
	}
	if r.TicketQuantity < 0 {
		return errors.New("ticket quantity must not be negative")
	}
	return nil
}
