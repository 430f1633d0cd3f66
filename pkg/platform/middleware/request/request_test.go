package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmatch/pkg/requestcontext"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	t.Run("generates a UUID when absent", func(t *testing.T) {
		var captured string
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			captured = requestcontext.RequestID(r.Context())
		}))

		w := serve(h, httptest.NewRequest(http.MethodGet, "/agency/dashboard", nil))

		assert.Len(t, captured, 36)
		assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a valid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/agency/dashboard", nil)
		req.Header.Set("X-Request-ID", "trace.span_1234")

		w := serve(RequestID(ok), req)
		assert.Equal(t, "trace.span_1234", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces unsafe ids", func(t *testing.T) {
		for _, bad := range []string{
			strings.Repeat("a", MaxRequestIDLength+1),
			"valid\ninjected-log-line",
			"request id",
			`request"id`,
			"request;id",
		} {
			req := httptest.NewRequest(http.MethodGet, "/agency/dashboard", nil)
			req.Header.Set("X-Request-ID", bad)

			got := serve(RequestID(ok), req).Header().Get("X-Request-ID")
			assert.NotEqual(t, bad, got)
			assert.Len(t, got, 36)
		}
	})

	t.Run("accepts an id at the length limit", func(t *testing.T) {
		assert.True(t, isValidRequestID(strings.Repeat("x", MaxRequestIDLength)))
		assert.False(t, isValidRequestID(""))
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := serve(h, httptest.NewRequest(http.MethodGet, "/agency/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error","error_description":"An internal error occurred"}`, w.Body.String())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(logger)(ok)

	serve(h, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Empty(t, buf.String(), "healthy probes are not logged")

	req := httptest.NewRequest(http.MethodGet, "/agency/bookings", nil)
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), requestcontext.ClientMetadata{Device: "Firefox on Linux"}))
	serve(h, req)

	assert.Contains(t, buf.String(), `"path":"/agency/bookings"`)
	assert.Contains(t, buf.String(), `"device":"Firefox on Linux"`)
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := BodyLimit(8)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	serve(h, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))

	var maxErr *http.MaxBytesError
	require.ErrorAs(t, readErr, &maxErr)
	assert.EqualValues(t, 8, maxErr.Limit)
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name   string
		method string
		ct     string
		status int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset", http.MethodPut, "application/json; charset=utf-8", http.StatusOK},
		{"no content type", http.MethodPost, "", http.StatusOK},
		{"form post", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"get is not checked", http.MethodGet, "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/agency/profile", strings.NewReader("{}"))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			assert.Equal(t, tt.status, serve(ContentTypeJSON(ok), req).Code)
		})
	}
}

func TestLatencyUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(Latency(m))
	r.Post("/agency/inquiries/{inquiryID}/response", ok)

	serve(r, httptest.NewRequest(http.MethodPost, "/agency/inquiries/42/response", nil))
	serve(r, httptest.NewRequest(http.MethodPost, "/agency/inquiries/43/response", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.EndpointLatency), "one series for both ids")
}
