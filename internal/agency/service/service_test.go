package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
	dErrors "tripmatch/pkg/domain-errors"
	"tripmatch/pkg/platform/middleware/requesttime"
)

type stubAggregator struct {
	dashboardFn func(ctx context.Context) (*models.DashboardSnapshot, error)
	bookingsFn  func(ctx context.Context, query string) (*models.BookingList, error)
	profileFn   func(ctx context.Context) (*models.ProfileView, error)
}

func (a *stubAggregator) Dashboard(ctx context.Context, _ id.UserID, _ models.Credentials) (*models.DashboardSnapshot, error) {
	return a.dashboardFn(ctx)
}

func (a *stubAggregator) DegradedDashboard() models.DashboardSnapshot {
	return models.DashboardSnapshot{
		AgencyName:     "Agency",
		RecentBookings: []models.BookingItem{},
		RecentReviews:  []models.ReviewItem{},
		Degraded:       true,
		Error:          "Dashboard data could not be loaded.",
	}
}

func (a *stubAggregator) BookingList(ctx context.Context, _ id.UserID, _ models.Credentials, query string) (*models.BookingList, error) {
	return a.bookingsFn(ctx, query)
}

func (a *stubAggregator) ProfileView(ctx context.Context, _ id.UserID, _ models.Credentials) (*models.ProfileView, error) {
	return a.profileFn(ctx)
}

type stubGateway struct {
	updateFn      func(update models.ProfileUpdate) (*models.Profile, error)
	inquiriesFn   func() ([]models.Inquiry, error)
	respondFn     func(cmd models.ResponseCommand) error
	experiencesFn func() ([]models.ExperienceSummary, error)
	deleteFn      func(experienceID id.ExperienceID) error
}

func (g *stubGateway) UpdateAgencyProfile(_ context.Context, _ models.Credentials, _ id.UserID, update models.ProfileUpdate) (*models.Profile, error) {
	return g.updateFn(update)
}

func (g *stubGateway) AgencyInquiries(context.Context, models.Credentials, id.UserID) ([]models.Inquiry, error) {
	return g.inquiriesFn()
}

func (g *stubGateway) CreateResponse(_ context.Context, _ models.Credentials, cmd models.ResponseCommand) error {
	return g.respondFn(cmd)
}

func (g *stubGateway) ExperiencesByAgency(context.Context, models.Credentials, id.UserID) ([]models.ExperienceSummary, error) {
	return g.experiencesFn()
}

func (g *stubGateway) DeleteExperience(_ context.Context, _ models.Credentials, experienceID id.ExperienceID) error {
	return g.deleteFn(experienceID)
}

type countingRecorder struct{ n int }

func (c *countingRecorder) IncDegraded() { c.n++ }

type ServiceSuite struct {
	suite.Suite
	agg      *stubAggregator
	gw       *stubGateway
	recorder *countingRecorder
	now      time.Time
	service  *Service
	agencyID id.UserID
	creds    models.Credentials
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.agg = &stubAggregator{}
	s.gw = &stubGateway{}
	s.recorder = &countingRecorder{}
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.service = New(s.agg, s.gw,
		WithDegradedRecorder(s.recorder),
		WithClock(func() time.Time { return s.now }),
	)
	s.agencyID = id.UserID("agency-1")
	s.creds = models.Credentials{Token: "tok"}
}

func (s *ServiceSuite) TestDashboard() {
	s.Run("returns the aggregated snapshot", func() {
		s.agg.dashboardFn = func(context.Context) (*models.DashboardSnapshot, error) {
			return &models.DashboardSnapshot{AgencyName: "Andes Tours"}, nil
		}

		snap := s.service.Dashboard(context.Background(), s.agencyID, s.creds)
		s.Equal("Andes Tours", snap.AgencyName)
		s.False(snap.Degraded)
		s.Equal(0, s.recorder.n)
	})

	s.Run("hard failure degrades instead of erroring", func() {
		s.agg.dashboardFn = func(context.Context) (*models.DashboardSnapshot, error) {
			return nil, gateway.NewError(gateway.ErrorInternal, gateway.SourceBookings, "status 500", nil)
		}

		snap := s.service.Dashboard(context.Background(), s.agencyID, s.creds)
		s.True(snap.Degraded)
		s.Equal("Agency", snap.AgencyName)
		s.NotEmpty(snap.Error)
		s.Empty(snap.RecentBookings)
		s.Equal(0, snap.Stats.ConfirmedBookings)
		s.Equal(1, s.recorder.n)
	})

	s.Run("caller cancellation is not counted as degraded", func() {
		s.recorder.n = 0
		ctx, cancel := context.WithCancel(context.Background())
		s.agg.dashboardFn = func(ctx context.Context) (*models.DashboardSnapshot, error) {
			cancel()
			return nil, ctx.Err()
		}

		snap := s.service.Dashboard(ctx, s.agencyID, s.creds)
		s.True(snap.Degraded)
		s.Equal(0, s.recorder.n)
	})
}

func (s *ServiceSuite) TestBookingsAndProfileErrors() {
	tests := []struct {
		category gateway.ErrorCategory
		code     dErrors.Code
	}{
		{gateway.ErrorNotFound, dErrors.CodeNotFound},
		{gateway.ErrorTimeout, dErrors.CodeTimeout},
		{gateway.ErrorAuthentication, dErrors.CodeUnauthorized},
		{gateway.ErrorRejected, dErrors.CodeBadRequest},
		{gateway.ErrorOutage, dErrors.CodeUnavailable},
		{gateway.ErrorBadData, dErrors.CodeUnavailable},
		{gateway.ErrorInternal, dErrors.CodeUnavailable},
	}

	for _, tc := range tests {
		s.Run(string(tc.category), func() {
			cause := gateway.NewError(tc.category, gateway.SourceBookings, "boom", nil)
			s.agg.bookingsFn = func(context.Context, string) (*models.BookingList, error) { return nil, cause }
			s.agg.profileFn = func(context.Context) (*models.ProfileView, error) { return nil, cause }

			_, err := s.service.Bookings(context.Background(), s.agencyID, s.creds, "")
			s.True(dErrors.HasCode(err, tc.code))
			s.True(errors.Is(err, cause))

			_, err = s.service.Profile(context.Background(), s.agencyID, s.creds)
			s.True(dErrors.HasCode(err, tc.code))
		})
	}

	s.Run("deadline becomes timeout", func() {
		s.agg.bookingsFn = func(context.Context, string) (*models.BookingList, error) {
			return nil, fmt.Errorf("fetch: %w", context.DeadlineExceeded)
		}
		_, err := s.service.Bookings(context.Background(), s.agencyID, s.creds, "")
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("passes the query through", func() {
		s.agg.bookingsFn = func(_ context.Context, query string) (*models.BookingList, error) {
			return &models.BookingList{Query: query}, nil
		}
		list, err := s.service.Bookings(context.Background(), s.agencyID, s.creds, "cusco")
		s.Require().NoError(err)
		s.Equal("cusco", list.Query)
	})
}

func (s *ServiceSuite) TestUpdateProfile() {
	s.Run("requires an agency name", func() {
		_, err := s.service.UpdateProfile(context.Background(), s.agencyID, s.creds, models.ProfileUpdate{AgencyName: "  "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("trims and forwards the update", func() {
		s.gw.updateFn = func(update models.ProfileUpdate) (*models.Profile, error) {
			s.Equal("Andes Tours", update.AgencyName)
			return &models.Profile{AgencyName: update.AgencyName}, nil
		}

		p, err := s.service.UpdateProfile(context.Background(), s.agencyID, s.creds, models.ProfileUpdate{AgencyName: " Andes Tours "})
		s.Require().NoError(err)
		s.Equal("Andes Tours", p.AgencyName)
	})
}

func (s *ServiceSuite) TestInquiries() {
	s.Run("maps inquiries with derived answered state", func() {
		s.gw.inquiriesFn = func() ([]models.Inquiry, error) {
			return []models.Inquiry{
				{ID: 1, ExperienceID: 3, Question: "Pickup?"},
				{ID: 2, ExperienceTitle: "Colca", TravelerName: "Rosa", Response: &models.InquiryResponse{Answer: "8am", AnsweredAt: "2026-01-01T08:00:00Z"}},
			}, nil
		}

		views, err := s.service.Inquiries(context.Background(), s.agencyID, s.creds)
		s.Require().NoError(err)
		s.Require().Len(views, 2)

		s.False(views[0].Answered)
		s.Equal("Unknown", views[0].TravelerName)
		s.Equal("Unknown experience", views[0].ExperienceTitle)
		s.Nil(views[0].Answer)

		s.True(views[1].Answered)
		s.Equal("Rosa", views[1].TravelerName)
		s.Require().NotNil(views[1].Answer)
		s.Equal("8am", *views[1].Answer)
	})

	s.Run("not found is an empty list", func() {
		s.gw.inquiriesFn = func() ([]models.Inquiry, error) {
			return nil, gateway.NewError(gateway.ErrorNotFound, gateway.SourceAgencyInquiries, "none", nil)
		}

		views, err := s.service.Inquiries(context.Background(), s.agencyID, s.creds)
		s.Require().NoError(err)
		s.NotNil(views)
		s.Empty(views)
	})

	s.Run("other failures propagate", func() {
		s.gw.inquiriesFn = func() ([]models.Inquiry, error) {
			return nil, gateway.NewError(gateway.ErrorOutage, gateway.SourceAgencyInquiries, "down", nil)
		}

		_, err := s.service.Inquiries(context.Background(), s.agencyID, s.creds)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestRespond() {
	s.Run("backdates the answer timestamp", func() {
		var got models.ResponseCommand
		s.gw.respondFn = func(cmd models.ResponseCommand) error {
			got = cmd
			return nil
		}

		err := s.service.Respond(context.Background(), s.agencyID, s.creds, id.InquiryID(7), "  See you at 8  ")
		s.Require().NoError(err)

		s.Equal(id.InquiryID(7), got.InquiryID)
		s.Equal(s.agencyID, got.ResponderID)
		s.Equal("See you at 8", got.Answer)
		s.Equal(s.now.Add(-DefaultResponseClockSkew), got.AnsweredAt)
	})

	s.Run("defaults to the request-scoped clock", func() {
		var got models.ResponseCommand
		s.gw.respondFn = func(cmd models.ResponseCommand) error {
			got = cmd
			return nil
		}
		pinned := time.Date(2026, 7, 4, 15, 30, 0, 0, time.FixedZone("PET", -5*3600))
		ctx := requesttime.WithTime(context.Background(), pinned)

		err := New(s.agg, s.gw).Respond(ctx, s.agencyID, s.creds, id.InquiryID(9), "ok")
		s.Require().NoError(err)

		s.Equal(pinned.Add(-DefaultResponseClockSkew).UTC(), got.AnsweredAt)
		s.Equal(time.UTC, got.AnsweredAt.Location())
	})

	s.Run("rejects an empty answer", func() {
		err := s.service.Respond(context.Background(), s.agencyID, s.creds, id.InquiryID(7), " ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("upstream failure propagates", func() {
		s.gw.respondFn = func(models.ResponseCommand) error {
			return gateway.NewError(gateway.ErrorRejected, gateway.SourceInquiryResponses, "status 400", nil)
		}

		err := s.service.Respond(context.Background(), s.agencyID, s.creds, id.InquiryID(7), "ok")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestExperiences() {
	s.Run("lists the agency's experiences with a cover image", func() {
		s.gw.experiencesFn = func() ([]models.ExperienceSummary, error) {
			return []models.ExperienceSummary{
				{ID: 10, Title: "Machu Picchu", Price: 250, DurationHours: 8, Category: "Adventure", ImageURLs: []string{"https://img/1.jpg", "https://img/2.jpg"}},
				{ID: 11, Title: "Colca"},
			}, nil
		}

		items, err := s.service.Experiences(context.Background(), s.agencyID, s.creds)
		s.Require().NoError(err)
		s.Require().Len(items, 2)

		s.Equal(10, items[0].ID)
		s.Equal(8, items[0].DurationHours)
		s.Require().NotNil(items[0].CoverImageURL)
		s.Equal("https://img/1.jpg", *items[0].CoverImageURL)
		s.Nil(items[1].CoverImageURL)
	})

	s.Run("agency without experiences gets an empty list", func() {
		s.gw.experiencesFn = func() ([]models.ExperienceSummary, error) {
			return nil, gateway.NewError(gateway.ErrorNotFound, gateway.SourceExperiences, "none", nil)
		}

		items, err := s.service.Experiences(context.Background(), s.agencyID, s.creds)
		s.Require().NoError(err)
		s.NotNil(items)
		s.Empty(items)
	})

	s.Run("hard failures propagate", func() {
		s.gw.experiencesFn = func() ([]models.ExperienceSummary, error) {
			return nil, gateway.NewError(gateway.ErrorOutage, gateway.SourceExperiences, "down", nil)
		}

		_, err := s.service.Experiences(context.Background(), s.agencyID, s.creds)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestDeleteExperience() {
	owned := func() ([]models.ExperienceSummary, error) {
		return []models.ExperienceSummary{{ID: 10}, {ID: 11}}, nil
	}

	s.Run("deletes an owned experience", func() {
		s.gw.experiencesFn = owned
		var deleted id.ExperienceID
		s.gw.deleteFn = func(experienceID id.ExperienceID) error {
			deleted = experienceID
			return nil
		}

		s.Require().NoError(s.service.DeleteExperience(context.Background(), s.agencyID, s.creds, id.ExperienceID(11)))
		s.Equal(id.ExperienceID(11), deleted)
	})

	s.Run("another agency's experience is not found", func() {
		s.gw.experiencesFn = owned
		s.gw.deleteFn = func(id.ExperienceID) error {
			s.Fail("upstream delete must not be called")
			return nil
		}

		err := s.service.DeleteExperience(context.Background(), s.agencyID, s.creds, id.ExperienceID(99))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("ownership lookup failure propagates", func() {
		s.gw.experiencesFn = func() ([]models.ExperienceSummary, error) {
			return nil, gateway.NewError(gateway.ErrorTimeout, gateway.SourceExperiences, "slow", nil)
		}

		err := s.service.DeleteExperience(context.Background(), s.agencyID, s.creds, id.ExperienceID(10))
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("upstream rejection propagates", func() {
		s.gw.experiencesFn = owned
		s.gw.deleteFn = func(id.ExperienceID) error {
			return gateway.NewError(gateway.ErrorRejected, gateway.SourceExperienceDelete, "status 409", nil)
		}

		err := s.service.DeleteExperience(context.Background(), s.agencyID, s.creds, id.ExperienceID(10))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
