package aggregator

import (
	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
)

// IndexExperiences indexes the agency's experiences by id. It is built once
// per request and shared by the join and enrichment steps.
func IndexExperiences(experiences []models.ExperienceSummary) map[id.ExperienceID]models.ExperienceSummary {
	index := make(map[id.ExperienceID]models.ExperienceSummary, len(experiences))
	for _, e := range experiences {
		index[e.ID] = e
	}
	return index
}

// JoinBookings keeps the bookings whose experience belongs to the agency, in
// source order. Bookings for unknown experiences are dropped, not substituted.
func JoinBookings(bookings []models.Booking, index map[id.ExperienceID]models.ExperienceSummary) []models.Booking {
	joined := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := index[b.ExperienceID]; ok {
			joined = append(joined, b)
		}
	}
	return joined
}

// ScopeInquiries keeps the inquiries about the agency's own experiences.
func ScopeInquiries(inquiries []models.Inquiry, index map[id.ExperienceID]models.ExperienceSummary) []models.Inquiry {
	scoped := make([]models.Inquiry, 0, len(inquiries))
	for _, inq := range inquiries {
		if _, ok := index[inq.ExperienceID]; ok {
			scoped = append(scoped, inq)
		}
	}
	return scoped
}
