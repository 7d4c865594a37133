package pipeline

import (
	"sort"

	"github.com/routemind/routemind/internal/models"
)

// RankDestinations computes each destination's share of total ticket volume
// and returns the ranking sorted descending by probability, ties broken by
// destination code ascending. Probabilities over the full ranking sum to 1.0
// for any non-empty input with at least one ticket.
func RankDestinations(records []models.PurchaseRecord) []models.DestinationProbability {
	tickets := make(map[int]int)
	grandTotal := 0
	for i := range records {
		tickets[records[i].DestinationID] += records[i].TicketQuantity
		grandTotal += records[i].TicketQuantity
	}

	ranking := make([]models.DestinationProbability, 0, len(tickets))
	for destination, total := range tickets {
		row := models.DestinationProbability{
			DestinationID: destination,
			TotalTickets:  total,
		}
		if grandTotal > 0 {
			row.Probability = float64(total) / float64(grandTotal)
		}
		ranking = append(ranking, row)
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Probability != ranking[j].Probability {
			return ranking[i].Probability > ranking[j].Probability
		}
		return ranking[i].DestinationID < ranking[j].DestinationID
	})

	return ranking
}
