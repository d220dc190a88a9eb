package service

import (
	"rideshare/internal/domain"
)

// TripTotals summarises a list of trips.
type TripTotals struct {
	Count         int
	TotalCost     domain.Money
	AverageRating *float64
}

// SummarizeTrips totals costs and averages the ratings of completed trips.
func SummarizeTrips(trips []*domain.Trip) TripTotals {
	totals := TripTotals{Count: len(trips)}

	rated, ratingSum := 0, 0
	for _, trip := range trips {
		totals.TotalCost += trip.Cost
		if trip.Rating != nil {
			rated++
			ratingSum += *trip.Rating
		}
	}

	if rated > 0 {
		avg := float64(ratingSum) / float64(rated)
		totals.AverageRating = &avg
	}
	return totals
}
