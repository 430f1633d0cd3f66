package aggregator

import (
	"strings"

	"tripmatch/internal/agency/models"
)

// Assemble combines the pipeline outputs into a snapshot. Lists are never nil.
func Assemble(agencyName string, stats models.Stats, bookings []models.BookingItem, reviews []models.ReviewItem) models.DashboardSnapshot {
	return models.DashboardSnapshot{
		AgencyName:     agencyName,
		Stats:          stats,
		RecentBookings: nonNil(bookings),
		RecentReviews:  nonNil(reviews),
	}
}

// Degraded is the snapshot shown after a hard failure: zeroed stats, empty
// lists, a placeholder name and an explanatory message.
func Degraded(p Placeholders, money Formatter) models.DashboardSnapshot {
	return models.DashboardSnapshot{
		AgencyName: p.DegradedAgencyName,
		Stats: models.Stats{
			TotalEarnings: money.Format(0),
		},
		RecentBookings: []models.BookingItem{},
		RecentReviews:  []models.ReviewItem{},
		Degraded:       true,
		Error:          p.DegradedMessage,
	}
}

// FilterBookings keeps the items whose traveler name or experience title
// contains query, ignoring case. An empty query keeps everything.
func FilterBookings(items []models.BookingItem, query string) []models.BookingItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nonNil(items)
	}
	out := make([]models.BookingItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.TravelerName), query) ||
			strings.Contains(strings.ToLower(item.ExperienceTitle), query) {
			out = append(out, item)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
