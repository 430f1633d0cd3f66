package aggregator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/models"
	"tripmatch/internal/platform/tracer"
	id "tripmatch/pkg/domain"
)

// Sources holds the five primary collections after soft failures were resolved
// to their fallbacks. Profile is never nil.
type Sources struct {
	Profile     *models.Profile
	Reviews     []models.Review
	Inquiries   []models.Inquiry
	Bookings    []models.Booking
	Experiences []models.ExperienceSummary
}

// Fetch issues the five primary fetches concurrently and waits for all of them.
// Not-found answers resolve to empty collections or the new-agency profile; the
// first other failure cancels the remaining fetches and is returned.
func (a *Aggregator) Fetch(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*Sources, error) {
	g, ctx := errgroup.WithContext(ctx)

	// Each goroutine writes to its own field.
	var src Sources

	launch(ctx, g, a, gateway.SourceProfile, &src.Profile, a.newAgencyProfile(),
		func(ctx context.Context) (*models.Profile, error) {
			return a.gateway.AgencyProfile(ctx, creds, agencyID)
		})
	launch(ctx, g, a, gateway.SourceReviews, &src.Reviews, []models.Review{},
		func(ctx context.Context) ([]models.Review, error) {
			return a.gateway.ReviewsByAgency(ctx, creds, agencyID)
		})
	launch(ctx, g, a, gateway.SourceInquiries, &src.Inquiries, []models.Inquiry{},
		func(ctx context.Context) ([]models.Inquiry, error) {
			return a.gateway.AllInquiries(ctx, creds)
		})
	launch(ctx, g, a, gateway.SourceBookings, &src.Bookings, []models.Booking{},
		func(ctx context.Context) ([]models.Booking, error) {
			return a.gateway.AllBookings(ctx, creds)
		})
	launch(ctx, g, a, gateway.SourceExperiences, &src.Experiences, []models.ExperienceSummary{},
		func(ctx context.Context) ([]models.ExperienceSummary, error) {
			return a.gateway.ExperiencesByAgency(ctx, creds, agencyID)
		})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func (a *Aggregator) fetchBookingSources(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*Sources, error) {
	g, ctx := errgroup.WithContext(ctx)
	var src Sources

	launch(ctx, g, a, gateway.SourceBookings, &src.Bookings, []models.Booking{},
		func(ctx context.Context) ([]models.Booking, error) {
			return a.gateway.AllBookings(ctx, creds)
		})
	launch(ctx, g, a, gateway.SourceExperiences, &src.Experiences, []models.ExperienceSummary{},
		func(ctx context.Context) ([]models.ExperienceSummary, error) {
			return a.gateway.ExperiencesByAgency(ctx, creds, agencyID)
		})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func (a *Aggregator) fetchProfileSources(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*Sources, error) {
	g, ctx := errgroup.WithContext(ctx)
	var src Sources

	launch(ctx, g, a, gateway.SourceProfile, &src.Profile, a.newAgencyProfile(),
		func(ctx context.Context) (*models.Profile, error) {
			return a.gateway.AgencyProfile(ctx, creds, agencyID)
		})
	launch(ctx, g, a, gateway.SourceReviews, &src.Reviews, []models.Review{},
		func(ctx context.Context) ([]models.Review, error) {
			return a.gateway.ReviewsByAgency(ctx, creds, agencyID)
		})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

// newAgencyProfile is the profile of an agency that has not created one yet.
func (a *Aggregator) newAgencyProfile() *models.Profile {
	description := a.placeholders.NewAgencyDescription
	return &models.Profile{
		AgencyName:  a.placeholders.NewAgencyName,
		Description: &description,
	}
}

// launch runs one primary fetch in g and stores its resolved value in slot.
func launch[T any](
	ctx context.Context,
	g *errgroup.Group,
	a *Aggregator,
	source gateway.Source,
	slot *T,
	fallback T,
	call func(context.Context) (T, error),
) {
	g.Go(func() error {
		value, err := fetchWithRetry(ctx, a, source, a.cfg.MaxRetries, call)
		result := gateway.Capture(source, value, err)
		if result.Outcome == gateway.OutcomeAbsent {
			a.logger.DebugContext(ctx, "upstream returned not found, using fallback",
				"source", source,
			)
		}

		resolved, err := result.Resolve(fallback)
		if err != nil {
			return err
		}
		*slot = resolved
		return nil
	})
}

// fetchWithRetry calls source with a per-attempt timeout, retrying transient
// failures up to retries times with doubling backoff.
func fetchWithRetry[T any](
	ctx context.Context,
	a *Aggregator,
	source gateway.Source,
	retries int,
	call func(context.Context) (T, error),
) (value T, err error) {
	ctx, span := a.tracer.Start(ctx, tracer.SpanFetch, tracer.String(tracer.AttrSource, string(source)))
	start := time.Now()
	attempts := 0
	defer func() {
		outcome := gateway.Capture(source, value, err).Outcome
		span.SetAttributes(
			tracer.String(tracer.AttrOutcome, outcome.String()),
			tracer.Int(tracer.AttrAttempts, attempts),
		)
		if outcome == gateway.OutcomeFailed {
			span.End(err)
		} else {
			span.End(nil)
		}
		if a.metrics != nil {
			a.metrics.ObserveFetch(string(source), outcome.String(), time.Since(start).Seconds())
		}
	}()

	delay := a.cfg.RetryBackoff
	for attempt := 0; attempt <= max(retries, 0); attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return value, err
			case <-timer.C:
			}
			delay *= 2

			span.AddEvent(tracer.EventRetry, tracer.Int(tracer.AttrAttempts, attempt))
			if a.metrics != nil {
				a.metrics.IncRetry(string(source))
			}
			a.logger.InfoContext(ctx, "retrying upstream call",
				"source", source,
				"attempt", attempt,
				"error", err,
			)
		}

		attempts++
		value, err = callWithTimeout(ctx, a.cfg.FetchTimeout, call)
		if err == nil || !gateway.IsRetryable(err) {
			return value, err
		}
	}
	return value, err
}

func callWithTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}
