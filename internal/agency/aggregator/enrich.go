package aggregator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/models"
	"tripmatch/internal/platform/tracer"
	id "tripmatch/pkg/domain"
	"tripmatch/pkg/platform/circuit"
)

var errUserCircuitOpen = gateway.NewError(gateway.ErrorOutage, gateway.SourceUserDetails, "circuit open", nil)

// UserLookup resolves the display details of one user.
type UserLookup func(ctx context.Context, userID id.UserID) (*models.UserDetails, error)

// Enrich turns the first limit items into enriched records, in source order.
//
// Each distinct user among the selected items is looked up once, at most
// concurrency lookups at a time. A failed lookup never fails the batch: build
// receives nil details for that item and is expected to fill in placeholders.
func Enrich[T, E any](
	ctx context.Context,
	items []T,
	limit int,
	concurrency int,
	userOf func(T) id.UserID,
	lookup UserLookup,
	build func(T, *models.UserDetails) E,
) []E {
	selected := capped(items, limit)
	users := LookupUsers(ctx, distinctUsers(userIDs(selected, userOf)), concurrency, lookup)
	return buildItems(selected, users, userOf, build)
}

func capped[T any](items []T, limit int) []T {
	return items[:min(len(items), max(limit, 0))]
}

func buildItems[T, E any](
	items []T,
	users map[id.UserID]*models.UserDetails,
	userOf func(T) id.UserID,
	build func(T, *models.UserDetails) E,
) []E {
	out := make([]E, 0, len(items))
	for _, item := range items {
		out = append(out, build(item, users[userOf(item)]))
	}
	return out
}

// LookupUsers resolves every id concurrently. Failed lookups are absent from
// the returned map.
func LookupUsers(ctx context.Context, ids []id.UserID, concurrency int, lookup UserLookup) map[id.UserID]*models.UserDetails {
	// Each goroutine writes to its own slot.
	details := make([]*models.UserDetails, len(ids))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for i, userID := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			d, err := lookup(ctx, userID)
			if err == nil {
				details[i] = d
			}
			return nil
		})
	}
	_ = g.Wait()

	users := make(map[id.UserID]*models.UserDetails, len(ids))
	for i, userID := range ids {
		if details[i] != nil {
			users[userID] = details[i]
		}
	}
	return users
}

func userIDs[T any](items []T, userOf func(T) id.UserID) []id.UserID {
	ids := make([]id.UserID, 0, len(items))
	for _, item := range items {
		ids = append(ids, userOf(item))
	}
	return ids
}

// distinctUsers drops nil and repeated ids, keeping first-seen order.
func distinctUsers(ids ...[]id.UserID) []id.UserID {
	seen := make(map[id.UserID]struct{})
	var out []id.UserID
	for _, list := range ids {
		for _, uid := range list {
			if uid.IsNil() {
				continue
			}
			if _, ok := seen[uid]; ok {
				continue
			}
			seen[uid] = struct{}{}
			out = append(out, uid)
		}
	}
	return out
}

func bookingTourist(b models.Booking) id.UserID { return b.TouristID }

func reviewAuthor(r models.Review) id.UserID { return r.TouristUserID }

// enrichRecent enriches the capped booking and review lists of the dashboard.
// Users appearing in both lists are looked up once, in a single bounded batch.
func (a *Aggregator) enrichRecent(
	ctx context.Context,
	creds models.Credentials,
	joined []models.Booking,
	reviews []models.Review,
	index map[id.ExperienceID]models.ExperienceSummary,
) ([]models.BookingItem, []models.ReviewItem) {
	ctx, span := a.tracer.Start(ctx, tracer.SpanEnrich)
	defer span.End(nil)

	recentBookings := capped(joined, a.cfg.Cap)
	recentReviews := capped(reviews, a.cfg.Cap)

	ids := distinctUsers(userIDs(recentBookings, bookingTourist), userIDs(recentReviews, reviewAuthor))
	users := LookupUsers(ctx, ids, a.cfg.EnrichConcurrency, a.userLookup(creds))

	bookingList := buildItems(recentBookings, users, bookingTourist, a.bookingItem(ctx, index))
	reviewList := buildItems(recentReviews, users, reviewAuthor, a.reviewItem(ctx))

	span.SetAttributes(
		tracer.Int(tracer.AttrItemCount, len(bookingList)+len(reviewList)),
		tracer.Int(tracer.AttrUserCount, len(ids)),
	)
	return bookingList, reviewList
}

// userLookup fetches user details once, with the per-call timeout and without
// retries. While the user breaker is open the call is skipped and the caller
// falls back to a placeholder.
func (a *Aggregator) userLookup(creds models.Credentials) UserLookup {
	return func(ctx context.Context, userID id.UserID) (*models.UserDetails, error) {
		if a.userBreaker != nil && !a.userBreaker.Allow() {
			a.logger.DebugContext(ctx, "user lookup skipped, circuit open",
				"user_id", userID,
				"breaker", a.userBreaker.Name(),
			)
			return nil, errUserCircuitOpen
		}

		d, err := fetchWithRetry(ctx, a, gateway.SourceUserDetails, -1,
			func(ctx context.Context) (*models.UserDetails, error) {
				return a.gateway.UserDetails(ctx, creds, userID)
			})
		a.recordUserLookup(ctx, err)
		if err != nil {
			a.logger.WarnContext(ctx, "user lookup failed, using placeholder",
				"user_id", userID,
				"category", gateway.Category(err),
			)
			return nil, err
		}
		return d, nil
	}
}

// recordUserLookup feeds the user breaker. Only transient failures count
// against the user service; a caller that went away says nothing about it.
func (a *Aggregator) recordUserLookup(ctx context.Context, err error) {
	if a.userBreaker == nil || ctx.Err() != nil {
		return
	}

	var change circuit.StateChange
	if err != nil && gateway.IsRetryable(err) {
		change = a.userBreaker.RecordFailure()
	} else {
		change = a.userBreaker.RecordSuccess()
	}

	switch {
	case change.Opened:
		a.logger.WarnContext(ctx, "user lookups suspended, circuit opened",
			"breaker", a.userBreaker.Name(),
		)
		if a.metrics != nil {
			a.metrics.IncBreakerOpen(a.userBreaker.Name())
		}
	case change.Closed:
		a.logger.InfoContext(ctx, "user lookups resumed, circuit closed",
			"breaker", a.userBreaker.Name(),
		)
	}
}

func (a *Aggregator) bookingItem(ctx context.Context, index map[id.ExperienceID]models.ExperienceSummary) func(models.Booking, *models.UserDetails) models.BookingItem {
	return func(b models.Booking, user *models.UserDetails) models.BookingItem {
		item := models.BookingItem{
			BookingID:       b.ID,
			TravelerName:    a.placeholders.Traveler,
			ExperienceTitle: a.placeholders.UnknownExperience,
			Date:            b.BookingDate,
			People:          b.NumberOfPeople,
			TotalPaid:       b.Price,
			Status:          a.placeholders.BookingStatus,
		}
		if exp, ok := index[b.ExperienceID]; ok && exp.Title != "" {
			item.ExperienceTitle = exp.Title
		}
		if name, avatar, ok := displayUser(user); ok {
			item.TravelerName = name
			item.TravelerAvatarURL = avatar
		} else {
			a.notePlaceholder(ctx, "booking")
		}
		return item
	}
}

func (a *Aggregator) reviewItem(ctx context.Context) func(models.Review, *models.UserDetails) models.ReviewItem {
	return func(r models.Review, user *models.UserDetails) models.ReviewItem {
		item := models.ReviewItem{
			ReviewID: r.ID,
			Author:   a.placeholders.Reviewer,
			Comment:  r.Comment,
			Rating:   displayRating(r.Rating),
		}
		if name, avatar, ok := displayUser(user); ok {
			item.Author = name
			item.AuthorAvatarURL = avatar
		} else {
			a.notePlaceholder(ctx, "review")
		}
		return item
	}
}

func (a *Aggregator) notePlaceholder(ctx context.Context, kind string) {
	a.logger.DebugContext(ctx, "enriched record uses placeholder user", "kind", kind)
	if a.metrics != nil {
		a.metrics.IncPlaceholder(kind)
	}
}

// displayUser reports the name and avatar to show for user, or ok=false when
// a placeholder is needed.
func displayUser(user *models.UserDetails) (name, avatar string, ok bool) {
	if user == nil {
		return "", "", false
	}
	name = user.DisplayName()
	if name == "" {
		return "", "", false
	}
	if user.AvatarURL != nil {
		avatar = *user.AvatarURL
	}
	return name, avatar, true
}
