package aggregator

import (
	"math"

	"tripmatch/internal/agency/models"
)

// Calculate derives the dashboard counters. It is pure: the same inputs always
// produce the same Stats, byte for byte.
func Calculate(joined []models.Booking, inquiries []models.Inquiry, experiences []models.ExperienceSummary, money Formatter) models.Stats {
	return models.Stats{
		ConfirmedBookings: len(joined),
		NewQueries:        CountUnanswered(inquiries),
		TotalExperiences:  len(experiences),
		TotalEarnings:     money.Format(TotalEarnings(joined)),
	}
}

// CountUnanswered counts inquiries without a response. The legacy stored flag
// is ignored.
func CountUnanswered(inquiries []models.Inquiry) int {
	n := 0
	for _, inq := range inquiries {
		if !inq.IsAnswered() {
			n++
		}
	}
	return n
}

// TotalEarnings sums booking prices. The result is never negative.
func TotalEarnings(bookings []models.Booking) float64 {
	var sum float64
	for _, b := range bookings {
		sum += b.Price
	}
	if sum < 0 || math.IsNaN(sum) {
		return 0
	}
	return sum
}

// AverageRating is the mean rating over all reviews, or 0 when there are none.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}

// displayRating rounds a fractional rating to whole stars within 0-5.
func displayRating(rating float64) int {
	r := int(math.Round(rating))
	return min(max(r, 0), 5)
}
