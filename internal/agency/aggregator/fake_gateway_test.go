package aggregator

import (
	"context"
	"sync"
	"sync/atomic"

	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
)

// fakeGateway is a test double for Gateway. Unset functions return an empty,
// successful answer.
type fakeGateway struct {
	profileFn     func(ctx context.Context) (*models.Profile, error)
	reviewsFn     func(ctx context.Context) ([]models.Review, error)
	inquiriesFn   func(ctx context.Context) ([]models.Inquiry, error)
	bookingsFn    func(ctx context.Context) ([]models.Booking, error)
	experiencesFn func(ctx context.Context) ([]models.ExperienceSummary, error)
	userFn        func(ctx context.Context, userID id.UserID) (*models.UserDetails, error)

	bookingCalls atomic.Int32

	mu        sync.Mutex
	userCalls map[id.UserID]int
	tokens    []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{userCalls: make(map[id.UserID]int)}
}

func (f *fakeGateway) record(creds models.Credentials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, creds.Token)
}

func (f *fakeGateway) AgencyProfile(ctx context.Context, creds models.Credentials, _ id.UserID) (*models.Profile, error) {
	f.record(creds)
	if f.profileFn != nil {
		return f.profileFn(ctx)
	}
	return &models.Profile{AgencyName: "Andes Tours"}, nil
}

func (f *fakeGateway) ReviewsByAgency(ctx context.Context, creds models.Credentials, _ id.UserID) ([]models.Review, error) {
	f.record(creds)
	if f.reviewsFn != nil {
		return f.reviewsFn(ctx)
	}
	return []models.Review{}, nil
}

func (f *fakeGateway) AllInquiries(ctx context.Context, creds models.Credentials) ([]models.Inquiry, error) {
	f.record(creds)
	if f.inquiriesFn != nil {
		return f.inquiriesFn(ctx)
	}
	return []models.Inquiry{}, nil
}

func (f *fakeGateway) AllBookings(ctx context.Context, creds models.Credentials) ([]models.Booking, error) {
	f.record(creds)
	f.bookingCalls.Add(1)
	if f.bookingsFn != nil {
		return f.bookingsFn(ctx)
	}
	return []models.Booking{}, nil
}

func (f *fakeGateway) ExperiencesByAgency(ctx context.Context, creds models.Credentials, _ id.UserID) ([]models.ExperienceSummary, error) {
	f.record(creds)
	if f.experiencesFn != nil {
		return f.experiencesFn(ctx)
	}
	return []models.ExperienceSummary{}, nil
}

func (f *fakeGateway) UserDetails(ctx context.Context, creds models.Credentials, userID id.UserID) (*models.UserDetails, error) {
	f.record(creds)
	f.mu.Lock()
	f.userCalls[userID]++
	f.mu.Unlock()
	if f.userFn != nil {
		return f.userFn(ctx, userID)
	}
	return &models.UserDetails{FirstName: "Ana", LastName: string(userID)}, nil
}

func (f *fakeGateway) userCallCount(userID id.UserID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userCalls[userID]
}

func gatewayError(category gateway.ErrorCategory, source gateway.Source) error {
	return gateway.NewError(category, source, string(category), nil)
}

// blockUntilDone waits for cancellation and reports it.
func blockUntilDone[T any](ctx context.Context) (T, error) {
	var zero T
	<-ctx.Done()
	return zero, ctx.Err()
}
