// Package httptransport assembles the HTTP surface: shared middleware, public
// probes and the authenticated agency routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tripmatch/internal/agency/handler"
	"tripmatch/internal/platform/health"
	"tripmatch/pkg/platform/httputil"
	"tripmatch/pkg/platform/middleware/auth"
	"tripmatch/pkg/platform/middleware/metadata"
	"tripmatch/pkg/platform/middleware/request"
	"tripmatch/pkg/platform/middleware/requesttime"
)

// Deps are the collaborators the router mounts. Metrics may be nil.
type Deps struct {
	Logger         *slog.Logger
	Agency         *handler.Handler
	Health         *health.Handler
	Validator      auth.TokenValidator
	Metadata       *metadata.Middleware
	RequestMetrics *request.Metrics
	MetricsHandler http.Handler
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(d.Metadata.Handler)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Latency(d.RequestMetrics))

	d.Health.Register(r)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(d.RequestTimeout))
		r.Use(request.BodyLimit(httputil.MaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		r.Use(auth.RequireAuth(d.Validator, d.Logger))
		d.Agency.Register(r)
	})

	return r
}
