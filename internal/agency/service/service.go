// Package service is the entry point of every agency operation. It owns the
// dashboard guard and translates upstream failures into domain errors.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tripmatch/internal/agency/aggregator"
	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
	dErrors "tripmatch/pkg/domain-errors"
	"tripmatch/pkg/platform/middleware/requesttime"
)

const (
	// DefaultResponseClockSkew backdates answer timestamps so the upstream API
	// never sees one in its future.
	DefaultResponseClockSkew = 5 * time.Minute

	unknownTraveler   = "Unknown"
	unknownExperience = "Unknown experience"
)

// Service coordinates the agency dashboard, bookings, profile and inquiries.
type Service struct {
	aggregator   Aggregator
	gateway      Gateway
	logger       *slog.Logger
	degraded     DegradedRecorder
	now          func(ctx context.Context) time.Time
	responseSkew time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDegradedRecorder counts degraded dashboards.
func WithDegradedRecorder(r DegradedRecorder) Option {
	return func(s *Service) {
		s.degraded = r
	}
}

// WithClock overrides the request-scoped clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = func(context.Context) time.Time { return now() }
	}
}

// WithResponseClockSkew sets how far answer timestamps are backdated.
func WithResponseClockSkew(d time.Duration) Option {
	return func(s *Service) {
		s.responseSkew = d
	}
}

// New creates the agency service.
func New(agg Aggregator, gw Gateway, opts ...Option) *Service {
	s := &Service{
		aggregator:   agg,
		gateway:      gw,
		logger:       slog.New(slog.DiscardHandler),
		now:          requesttime.Now,
		responseSkew: DefaultResponseClockSkew,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard never fails: a hard upstream failure is logged and answered with a
// degraded snapshot.
func (s *Service) Dashboard(ctx context.Context, agencyID id.UserID, creds models.Credentials) models.DashboardSnapshot {
	snap, err := s.aggregator.Dashboard(ctx, agencyID, creds)
	if err == nil {
		return *snap
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		s.logger.DebugContext(ctx, "dashboard request canceled by caller", "agency_id", agencyID)
		return s.aggregator.DegradedDashboard()
	}

	s.logger.ErrorContext(ctx, "dashboard aggregation failed, serving degraded snapshot",
		"agency_id", agencyID,
		"category", gateway.Category(err),
		"error", err,
	)
	if s.degraded != nil {
		s.degraded.IncDegraded()
	}
	return s.aggregator.DegradedDashboard()
}

// Bookings lists the agency's bookings, optionally filtered by query.
func (s *Service) Bookings(ctx context.Context, agencyID id.UserID, creds models.Credentials, query string) (*models.BookingList, error) {
	list, err := s.aggregator.BookingList(ctx, agencyID, creds, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "booking list failed", "agency_id", agencyID, "error", err)
		return nil, translateGatewayError(err, "bookings")
	}
	return list, nil
}

// Profile returns the agency profile view.
func (s *Service) Profile(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*models.ProfileView, error) {
	view, err := s.aggregator.ProfileView(ctx, agencyID, creds)
	if err != nil {
		s.logger.ErrorContext(ctx, "profile view failed", "agency_id", agencyID, "error", err)
		return nil, translateGatewayError(err, "profile")
	}
	return view, nil
}

// UpdateProfile replaces the agency profile.
func (s *Service) UpdateProfile(ctx context.Context, agencyID id.UserID, creds models.Credentials, update models.ProfileUpdate) (*models.Profile, error) {
	update.AgencyName = strings.TrimSpace(update.AgencyName)
	if update.AgencyName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "agency name is required")
	}

	profile, err := s.gateway.UpdateAgencyProfile(ctx, creds, agencyID, update)
	if err != nil {
		return nil, translateGatewayError(err, "profile update")
	}
	s.logger.InfoContext(ctx, "agency profile updated", "agency_id", agencyID)
	return profile, nil
}

// Inquiries lists the inquiries addressed to the agency.
func (s *Service) Inquiries(ctx context.Context, agencyID id.UserID, creds models.Credentials) ([]models.InquiryView, error) {
	inquiries, err := s.gateway.AgencyInquiries(ctx, creds, agencyID)
	inquiries, err = gateway.Capture(gateway.SourceAgencyInquiries, inquiries, err).Resolve([]models.Inquiry{})
	if err != nil {
		return nil, translateGatewayError(err, "inquiries")
	}

	views := make([]models.InquiryView, 0, len(inquiries))
	for _, inq := range inquiries {
		views = append(views, inquiryView(inq))
	}
	return views, nil
}

// Respond answers an inquiry, overwriting any previous answer.
func (s *Service) Respond(ctx context.Context, agencyID id.UserID, creds models.Credentials, inquiryID id.InquiryID, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return dErrors.New(dErrors.CodeValidation, "answer is required")
	}

	cmd := models.ResponseCommand{
		InquiryID:   inquiryID,
		ResponderID: agencyID,
		Answer:      answer,
		AnsweredAt:  s.now(ctx).Add(-s.responseSkew).UTC(),
	}
	if err := s.gateway.CreateResponse(ctx, creds, cmd); err != nil {
		return translateGatewayError(err, "inquiry response")
	}

	s.logger.InfoContext(ctx, "inquiry answered",
		"agency_id", agencyID,
		"inquiry_id", inquiryID,
	)
	return nil
}

// Experiences lists the agency's own experiences. An agency without any gets
// an empty list.
func (s *Service) Experiences(ctx context.Context, agencyID id.UserID, creds models.Credentials) ([]models.ExperienceItem, error) {
	exps, err := s.gateway.ExperiencesByAgency(ctx, creds, agencyID)
	exps, err = gateway.Capture(gateway.SourceExperiences, exps, err).Resolve([]models.ExperienceSummary{})
	if err != nil {
		return nil, translateGatewayError(err, "experiences")
	}

	items := make([]models.ExperienceItem, 0, len(exps))
	for _, e := range exps {
		items = append(items, e.Item())
	}
	return items, nil
}

// DeleteExperience removes one of the agency's experiences. Experiences of
// other agencies are reported as not found and never reach the upstream delete.
func (s *Service) DeleteExperience(ctx context.Context, agencyID id.UserID, creds models.Credentials, experienceID id.ExperienceID) error {
	exps, err := s.gateway.ExperiencesByAgency(ctx, creds, agencyID)
	exps, err = gateway.Capture(gateway.SourceExperiences, exps, err).Resolve([]models.ExperienceSummary{})
	if err != nil {
		return translateGatewayError(err, "experiences")
	}
	if _, owned := aggregator.IndexExperiences(exps)[experienceID]; !owned {
		s.logger.WarnContext(ctx, "delete of experience outside the agency refused",
			"agency_id", agencyID,
			"experience_id", experienceID,
		)
		return dErrors.New(dErrors.CodeNotFound, "experience not found")
	}

	if err := s.gateway.DeleteExperience(ctx, creds, experienceID); err != nil {
		return translateGatewayError(err, "experience delete")
	}
	s.logger.InfoContext(ctx, "experience deleted",
		"agency_id", agencyID,
		"experience_id", experienceID,
	)
	return nil
}

func inquiryView(inq models.Inquiry) models.InquiryView {
	v := models.InquiryView{
		ID:                int(inq.ID),
		ExperienceID:      int(inq.ExperienceID),
		ExperienceTitle:   inq.ExperienceTitle,
		TravelerName:      inq.TravelerName,
		TravelerAvatarURL: inq.TravelerAvatarURL,
		Question:          inq.Question,
		AskedAt:           inq.AskedAt,
		Answered:          inq.IsAnswered(),
	}
	if v.TravelerName == "" {
		v.TravelerName = unknownTraveler
	}
	if v.ExperienceTitle == "" {
		v.ExperienceTitle = unknownExperience
	}
	if inq.Response != nil {
		answer, answeredAt := inq.Response.Answer, inq.Response.AnsweredAt
		v.Answer = &answer
		v.AnsweredAt = &answeredAt
	}
	return v
}

// translateGatewayError converts upstream failures to domain errors.
func translateGatewayError(err error, what string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, what+" timed out")
	}

	var ge *gateway.Error
	if !errors.As(err, &ge) {
		return dErrors.Wrap(err, dErrors.CodeInternal, what+" failed")
	}
	switch ge.Category {
	case gateway.ErrorNotFound:
		return dErrors.Wrap(err, dErrors.CodeNotFound, what+" not found")
	case gateway.ErrorTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, what+" timed out")
	case gateway.ErrorAuthentication:
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "upstream rejected the credential")
	case gateway.ErrorRejected:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, what+" rejected by upstream")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, what+" unavailable")
	}
}
