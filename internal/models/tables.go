package models

import (
	"errors"
	"math"
	"time"
)

// DestinationProbability is one row of the destination ranking: the share of
// total ticket volume a destination represents. Probabilities over the full
// ranking sum to 1.0 within floating-point tolerance.
type DestinationProbability struct {
	DestinationID int     `json:"destination_id"`
	TotalTickets  int     `json:"total_tickets"`
	Probability   float64 `json:"probability"`
}

// Validate checks that all ranking row fields are valid.
func (d *DestinationProbability) Validate() error {
	if d.DestinationID < 1 {
		return errors.New("destination code must be a positive dense integer")
	}
	if d.TotalTickets < 0 {
		return errors.New("total tickets must not be negative")
	}
	if d.Probability < 0.0 || d.Probability > 1.0 {
		return errors.New("probability must be between 0.0 and 1.0")
	}
	return nil
}

// SegmentationCounts holds the four customer-cohort counts for one run.
// High-value and VIP overlap by construction; active and inactive partition
// the customer universe exactly.
type SegmentationCounts struct {
	HighValue int `json:"high_value"`
	VIP       int `json:"vip"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
}

// SegmentCount is one (category label, count) pair of the segmentation table.
type SegmentCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Rows returns the segmentation table in its fixed presentation order.
func (s *SegmentationCounts) Rows() []SegmentCount {
	return []SegmentCount{
		{Category: "High-Value", Count: s.HighValue},
		{Category: "VIP", Count: s.VIP},
		{Category: "Active", Count: s.Active},
		{Category: "Inactive", Count: s.Inactive},
	}
}

// Validate checks that the counts are internally consistent. The total
// customer count is needed to verify the active/inactive partition.
func (s *SegmentationCounts) Validate(totalCustomers int) error {
	if s.HighValue < 0 || s.VIP < 0 || s.Active < 0 || s.Inactive < 0 {
		return errors.New("segment counts must not be negative")
	}
	if s.VIP > s.HighValue {
		return errors.New("vip count must not exceed high-value count")
	}
	if s.Active+s.Inactive != totalCustomers {
		return errors.New("active + inactive must equal total customers")
	}
	return nil
}

// WindowRow is one row of the near-term forecast view: how many customers
// are projected to buy a given destination on a given date.
type WindowRow struct {
	Date          time.Time `json:"date"`
	DestinationID int       `json:"destination_id"`
	Customers     int       `json:"customers"`
}

// ProbabilitySumTolerance is the allowed floating-point drift when checking
// that a destination ranking sums to 1.0.
const ProbabilitySumTolerance = 1e-9

// CheckProbabilitySum verifies that a non-empty ranking's probabilities sum
// to 1.0 within tolerance. A ranking whose total ticket volume is zero is a
// data condition, not a defect: every probability must then be exactly zero.
func CheckProbabilitySum(ranking []DestinationProbability) error {
	if len(ranking) == 0 {
		return nil
	}
	tickets := 0
	sum := 0.0
	for i := range ranking {
		tickets += ranking[i].TotalTickets
		sum += ranking[i].Probability
	}
	if tickets == 0 {
		if sum != 0 {
			return errors.New("zero-volume ranking must carry zero probabilities")
		}
		return nil
	}
	if math.Abs(sum-1.0) > ProbabilitySumTolerance {
		return errors.New("destination probabilities must sum to 1.0")
	}
	return nil
}
