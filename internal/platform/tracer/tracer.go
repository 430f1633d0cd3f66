// Package tracer provides a lightweight tracing abstraction for the aggregation
// pipeline.
//
// Callers depend on the Tracer interface only. Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span. The returned context carries the span and should
	// be passed to child operations.
	//
	//   ctx, span := tr.Start(ctx, tracer.SpanDashboard,
	//       tracer.String(tracer.AttrAgencyID, agencyID.String()),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanDashboard   = "agency.dashboard"
	SpanBookingList = "agency.bookings"
	SpanProfileView = "agency.profile"
	SpanFetch       = "agency.fetch"
	SpanEnrich      = "agency.enrich"
)

// Attribute keys.
const (
	AttrAgencyID  = "agency.id"
	AttrSource    = "upstream.source"
	AttrOutcome   = "upstream.outcome"
	AttrAttempts  = "upstream.attempts"
	AttrItemCount = "items.count"
	AttrUserCount = "users.count"
	AttrDegraded  = "dashboard.degraded"
)

// Event names.
const (
	EventRetry = "upstream.retry"
)
