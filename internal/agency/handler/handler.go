// Package handler exposes the agency operations over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
	"tripmatch/pkg/platform/httputil"
	"tripmatch/pkg/requestcontext"
)

type Service interface {
	Dashboard(ctx context.Context, agencyID id.UserID, creds models.Credentials) models.DashboardSnapshot
	Bookings(ctx context.Context, agencyID id.UserID, creds models.Credentials, query string) (*models.BookingList, error)
	Profile(ctx context.Context, agencyID id.UserID, creds models.Credentials) (*models.ProfileView, error)
	UpdateProfile(ctx context.Context, agencyID id.UserID, creds models.Credentials, update models.ProfileUpdate) (*models.Profile, error)
	Inquiries(ctx context.Context, agencyID id.UserID, creds models.Credentials) ([]models.InquiryView, error)
	Respond(ctx context.Context, agencyID id.UserID, creds models.Credentials, inquiryID id.InquiryID, answer string) error
	Experiences(ctx context.Context, agencyID id.UserID, creds models.Credentials) ([]models.ExperienceItem, error)
	DeleteExperience(ctx context.Context, agencyID id.UserID, creds models.Credentials, experienceID id.ExperienceID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the agency routes. The router must already enforce auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/agency/dashboard", h.HandleDashboard)
	r.Get("/agency/bookings", h.HandleBookings)
	r.Get("/agency/profile", h.HandleProfile)
	r.Put("/agency/profile", h.HandleUpdateProfile)
	r.Get("/agency/inquiries", h.HandleInquiries)
	r.Post("/agency/inquiries/{inquiryID}/response", h.HandleRespond)
	r.Get("/agency/experiences", h.HandleExperiences)
	r.Delete("/agency/experiences/{experienceID}", h.HandleDeleteExperience)
}

// HandleDashboard implements GET /agency/dashboard. It always answers 200; a
// degraded snapshot carries "degraded": true and an error message.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	snapshot := h.service.Dashboard(ctx, agencyID, creds)
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

// HandleBookings implements GET /agency/bookings?q=.
func (h *Handler) HandleBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.service.Bookings(ctx, agencyID, creds, r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleProfile implements GET /agency/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	view, err := h.service.Profile(ctx, agencyID, creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdateProfile implements PUT /agency/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.service.UpdateProfile(ctx, agencyID, creds, req.toModel())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update agency profile",
			"error", err,
			"agency_id", agencyID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile.Body())
}

// HandleInquiries implements GET /agency/inquiries.
func (h *Handler) HandleInquiries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	inquiries, err := h.service.Inquiries(ctx, agencyID, creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"inquiries": inquiries,
	})
}

// HandleRespond implements POST /agency/inquiries/{inquiryID}/response.
// Input: { "answer": "..." }
// Output: 204 No Content
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	inquiryID, err := id.ParseInquiryID(chi.URLParam(r, "inquiryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RespondRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Respond(ctx, agencyID, creds, inquiryID, req.Answer); err != nil {
		h.logger.ErrorContext(ctx, "failed to answer inquiry",
			"error", err,
			"inquiry_id", inquiryID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExperiences implements GET /agency/experiences.
func (h *Handler) HandleExperiences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	experiences, err := h.service.Experiences(ctx, agencyID, creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"experiences": experiences,
	})
}

// HandleDeleteExperience implements DELETE /agency/experiences/{experienceID}.
func (h *Handler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agencyID, creds, ok := h.principal(w, r)
	if !ok {
		return
	}

	experienceID, err := id.ParseExperienceID(chi.URLParam(r, "experienceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteExperience(ctx, agencyID, creds, experienceID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete experience",
			"error", err,
			"experience_id", experienceID,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (id.UserID, models.Credentials, bool) {
	ctx := r.Context()
	agencyID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return "", models.Credentials{}, false
	}
	return agencyID, models.Credentials{Token: requestcontext.BearerToken(ctx)}, true
}
