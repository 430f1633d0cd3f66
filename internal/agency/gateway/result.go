package gateway

// Source names one upstream collection. It labels errors, metrics and spans.
type Source string

const (
	SourceProfile          Source = "profile"
	SourceReviews          Source = "reviews"
	SourceInquiries        Source = "inquiries"
	SourceBookings         Source = "bookings"
	SourceExperiences      Source = "experiences"
	SourceUserDetails      Source = "user_details"
	SourceProfileUpdate    Source = "profile_update"
	SourceAgencyInquiries  Source = "agency_inquiries"
	SourceInquiryResponses Source = "inquiry_responses"
	SourceExperienceDelete Source = "experience_delete"
)

// Outcome classifies a finished upstream call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeAbsent is a not-found answer: valid application state.
	OutcomeAbsent
	// OutcomeFailed is any other error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAbsent:
		return "absent"
	default:
		return "failed"
	}
}

// Result is the typed outcome of one gateway call.
type Result[T any] struct {
	Source  Source
	Value   T
	Outcome Outcome
	Err     error
}

// Capture classifies a (value, error) pair returned by a gateway call.
func Capture[T any](source Source, value T, err error) Result[T] {
	switch {
	case err == nil:
		return Result[T]{Source: source, Value: value, Outcome: OutcomeOK}
	case IsNotFound(err):
		return Result[T]{Source: source, Outcome: OutcomeAbsent, Err: err}
	default:
		return Result[T]{Source: source, Outcome: OutcomeFailed, Err: err}
	}
}

// Resolve is the single place where soft and hard failures part ways: an
// absent result becomes fallback, a failed one returns its error.
func (r Result[T]) Resolve(fallback T) (T, error) {
	switch r.Outcome {
	case OutcomeOK:
		return r.Value, nil
	case OutcomeAbsent:
		return fallback, nil
	default:
		var zero T
		return zero, r.Err
	}
}
