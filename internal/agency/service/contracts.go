package service

import (
	"context"

	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
)

// Aggregator builds the read-side views.
type Aggregator interface {
	Dashboard(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*models.DashboardSnapshot, error)
	DegradedDashboard() models.DashboardSnapshot
	BookingList(ctx context.Context, agencyID id.UserID, creds models.Credentials, query string) (*models.BookingList, error)
	ProfileView(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*models.ProfileView, error)
}

// Gateway is the write side of the upstream API plus the reads that back
// single-resource screens.
type Gateway interface {
	UpdateAgencyProfile(ctx context.Context, creds models.Credentials, userID id.UserID, update models.ProfileUpdate) (*models.Profile, error)
	AgencyInquiries(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.Inquiry, error)
	CreateResponse(ctx context.Context, creds models.Credentials, cmd models.ResponseCommand) error
	ExperiencesByAgency(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.ExperienceSummary, error)
	DeleteExperience(ctx context.Context, creds models.Credentials, experienceID id.ExperienceID) error
}

// DegradedRecorder counts degraded dashboards.
type DegradedRecorder interface {
	IncDegraded()
}
