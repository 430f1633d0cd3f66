// Package requestcontext carries per-request values (request id, client
// metadata, authenticated principal) through context.Context.
package requestcontext

import (
	"context"

	id "tripmatch/pkg/domain"
)

type (
	requestIDKey   struct{}
	clientKey      struct{}
	userIDKey      struct{}
	bearerTokenKey struct{}
)

// ClientMetadata describes the calling client as seen by the metadata middleware.
type ClientMetadata struct {
	IP        string
	UserAgent string
	Device    string // e.g. "Chrome on Android"
	Mobile    bool
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id or "" when none was set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithClientMetadata(ctx context.Context, md ClientMetadata) context.Context {
	return context.WithValue(ctx, clientKey{}, md)
}

func Client(ctx context.Context) ClientMetadata {
	if v, ok := ctx.Value(clientKey{}).(ClientMetadata); ok {
		return v
	}
	return ClientMetadata{}
}

// WithPrincipal stores the authenticated agency user and the raw bearer token.
// The token is forwarded verbatim to the upstream API.
func WithPrincipal(ctx context.Context, userID id.UserID, token string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

func UserID(ctx context.Context) id.UserID {
	if v, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return v
	}
	return ""
}

func BearerToken(ctx context.Context) string {
	if v, ok := ctx.Value(bearerTokenKey{}).(string); ok {
		return v
	}
	return ""
}
