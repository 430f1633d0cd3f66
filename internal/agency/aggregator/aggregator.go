// Package aggregator builds an agency's dashboard, booking list and profile
// view from independently failing upstream collections.
//
// Every view runs the same pipeline: fan out the primary fetches, join bookings
// to the agency's experiences in memory, compute stats, enrich a capped slice
// with per-user lookups, and assemble an immutable result. Only the fan-out and
// enrichment steps perform I/O.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"tripmatch/internal/agency/metrics"
	"tripmatch/internal/agency/models"
	"tripmatch/internal/platform/tracer"
	id "tripmatch/pkg/domain"
	"tripmatch/pkg/platform/circuit"
)

// Gateway is the subset of the upstream API the pipeline reads from.
type Gateway interface {
	AgencyProfile(ctx context.Context, creds models.Credentials, userID id.UserID) (*models.Profile, error)
	ReviewsByAgency(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.Review, error)
	AllInquiries(ctx context.Context, creds models.Credentials) ([]models.Inquiry, error)
	AllBookings(ctx context.Context, creds models.Credentials) ([]models.Booking, error)
	ExperiencesByAgency(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.ExperienceSummary, error)
	UserDetails(ctx context.Context, creds models.Credentials, userID id.UserID) (*models.UserDetails, error)
}

// Formatter renders a currency amount for display.
type Formatter interface {
	Format(amount float64) string
}

// Config tunes the pipeline.
type Config struct {
	// Cap bounds the recent bookings and reviews lists (default 5).
	Cap int
	// FetchTimeout bounds each upstream attempt (default 5s).
	FetchTimeout time.Duration
	// MaxRetries is the number of retries of a transient primary failure
	// (default 1). Negative disables retries.
	MaxRetries int
	// RetryBackoff is the wait before the first retry; it doubles per retry
	// (default 100ms).
	RetryBackoff time.Duration
	// AggregationTimeout bounds one whole view (default 15s).
	AggregationTimeout time.Duration
	// EnrichConcurrency bounds concurrent user lookups (default 4).
	EnrichConcurrency int
	// ScopeInquiries counts only inquiries about the agency's own experiences.
	ScopeInquiries bool
}

// Placeholders are the display values used when data is absent.
type Placeholders struct {
	NewAgencyName        string
	NewAgencyDescription string
	Traveler             string
	Reviewer             string
	UnknownExperience    string
	BookingStatus        string
	DegradedAgencyName   string
	DegradedMessage      string
}

// DefaultPlaceholders returns the built-in display values.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		NewAgencyName:        "New Agency",
		NewAgencyDescription: "Complete your description...",
		Traveler:             "Traveler",
		Reviewer:             "Anonymous",
		UnknownExperience:    "Unknown experience",
		BookingStatus:        "Confirmed",
		DegradedAgencyName:   "Agency",
		DegradedMessage:      "Dashboard data could not be loaded.",
	}
}

// Aggregator runs the aggregation pipeline. It holds no per-request state and
// is safe for concurrent use.
type Aggregator struct {
	gateway      Gateway
	money        Formatter
	cfg          Config
	placeholders Placeholders
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	userBreaker  *circuit.Breaker
}

// Option configures an Aggregator.
type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(a *Aggregator) {
		a.tracer = t
	}
}

// WithUserBreaker guards user detail lookups. While b is open lookups are
// skipped and records get placeholder users.
func WithUserBreaker(b *circuit.Breaker) Option {
	return func(a *Aggregator) {
		a.userBreaker = b
	}
}

func WithPlaceholders(p Placeholders) Option {
	return func(a *Aggregator) {
		a.placeholders = p
	}
}

// New creates an Aggregator.
func New(gw Gateway, money Formatter, cfg Config, opts ...Option) *Aggregator {
	if cfg.Cap <= 0 {
		cfg.Cap = 5
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.AggregationTimeout == 0 {
		cfg.AggregationTimeout = 15 * time.Second
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 4
	}

	a := &Aggregator{
		gateway:      gw,
		money:        money,
		cfg:          cfg,
		placeholders: DefaultPlaceholders(),
		logger:       slog.New(slog.DiscardHandler),
		tracer:       tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dashboard builds the agency's dashboard snapshot. A hard upstream failure is
// returned as an error; callers decide how to degrade.
func (a *Aggregator) Dashboard(ctx context.Context, agencyID id.UserID, creds models.Credentials) (_ *models.DashboardSnapshot, err error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.AggregationTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, tracer.SpanDashboard, tracer.String(tracer.AttrAgencyID, agencyID.String()))
	defer func() { span.End(err) }()

	src, err := a.Fetch(ctx, agencyID, creds)
	if err != nil {
		return nil, err
	}

	index := IndexExperiences(src.Experiences)
	joined := JoinBookings(src.Bookings, index)

	inquiries := src.Inquiries
	if a.cfg.ScopeInquiries {
		inquiries = ScopeInquiries(inquiries, index)
	}
	a.checkAnswerFlags(ctx, agencyID, inquiries)

	stats := Calculate(joined, inquiries, src.Experiences, a.money)

	bookings, reviews := a.enrichRecent(ctx, creds, joined, src.Reviews, index)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := Assemble(src.Profile.AgencyName, stats, bookings, reviews)
	a.logger.DebugContext(ctx, "dashboard assembled",
		"agency_id", agencyID,
		"confirmed_bookings", stats.ConfirmedBookings,
		"new_queries", stats.NewQueries,
	)
	return &snapshot, nil
}

// DegradedDashboard is the snapshot shown when the dashboard cannot be built.
func (a *Aggregator) DegradedDashboard() models.DashboardSnapshot {
	return Degraded(a.placeholders, a.money)
}

// BookingList builds the agency's full booking ledger. query, when non-empty,
// filters by traveler name or experience title.
func (a *Aggregator) BookingList(ctx context.Context, agencyID id.UserID, creds models.Credentials, query string) (_ *models.BookingList, err error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.AggregationTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, tracer.SpanBookingList, tracer.String(tracer.AttrAgencyID, agencyID.String()))
	defer func() { span.End(err) }()

	src, err := a.fetchBookingSources(ctx, agencyID, creds)
	if err != nil {
		return nil, err
	}

	index := IndexExperiences(src.Experiences)
	joined := JoinBookings(src.Bookings, index)

	items := Enrich(ctx, joined, len(joined), a.cfg.EnrichConcurrency,
		func(b models.Booking) id.UserID { return b.TouristID },
		a.userLookup(creds),
		a.bookingItem(ctx, index),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := models.BookingList{
		Bookings:    FilterBookings(items, query),
		Query:       query,
		Count:       len(joined),
		TotalIncome: a.money.Format(TotalEarnings(joined)),
	}
	span.SetAttributes(tracer.Int(tracer.AttrItemCount, len(list.Bookings)))
	return &list, nil
}

// ProfileView builds the agency profile screen.
func (a *Aggregator) ProfileView(ctx context.Context, agencyID id.UserID, creds models.Credentials) (_ *models.ProfileView, err error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.AggregationTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, tracer.SpanProfileView, tracer.String(tracer.AttrAgencyID, agencyID.String()))
	defer func() { span.End(err) }()

	src, err := a.fetchProfileSources(ctx, agencyID, creds)
	if err != nil {
		return nil, err
	}

	reviews := Enrich(ctx, src.Reviews, a.cfg.Cap, a.cfg.EnrichConcurrency,
		func(r models.Review) id.UserID { return r.TouristUserID },
		a.userLookup(creds),
		a.reviewItem(ctx),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &models.ProfileView{
		Profile:     src.Profile.Body(),
		Rating:      AverageRating(src.Reviews),
		ReviewCount: len(src.Reviews),
		Reviews:     nonNil(reviews),
	}, nil
}

func (a *Aggregator) checkAnswerFlags(ctx context.Context, agencyID id.UserID, inquiries []models.Inquiry) {
	mismatches := 0
	for _, inq := range inquiries {
		if inq.AnswerFlagDiverges() {
			mismatches++
		}
	}
	if mismatches == 0 {
		return
	}
	a.logger.WarnContext(ctx, "inquiry answer flag disagrees with response presence",
		"agency_id", agencyID,
		"count", mismatches,
	)
	if a.metrics != nil {
		a.metrics.AddAnswerFlagMismatches(mismatches)
	}
}
