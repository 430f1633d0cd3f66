// Package gateway talks to the upstream TripMatch REST API. Every call returns
// either a decoded model or a categorized *Error; callers never see status codes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

// Client is the HTTP gateway to the upstream API.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// New creates a gateway client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  doer,
	}
}

// AgencyProfile fetches the agency profile of userID.
func (c *Client) AgencyProfile(ctx context.Context, creds models.Credentials, userID id.UserID) (*models.Profile, error) {
	var dto profileDTO
	path := "/api/v1/profile/user/agency/" + url.PathEscape(userID.String())
	if err := c.do(ctx, SourceProfile, creds, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// ReviewsByAgency fetches every review written about the agency.
func (c *Client) ReviewsByAgency(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.Review, error) {
	var dtos []reviewDTO
	path := "/api/v1/user/review/agency/" + url.PathEscape(agencyID.String())
	if err := c.do(ctx, SourceReviews, creds, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	return convertAll(dtos, reviewDTO.toModel), nil
}

// AllInquiries fetches every inquiry visible to the caller, across agencies.
func (c *Client) AllInquiries(ctx context.Context, creds models.Credentials) ([]models.Inquiry, error) {
	var dtos []inquiryDTO
	if err := c.do(ctx, SourceInquiries, creds, http.MethodGet, "/api/v1/inquiry", nil, &dtos); err != nil {
		return nil, err
	}
	return convertAll(dtos, inquiryDTO.toModel), nil
}

// AllBookings fetches every booking visible to the caller. Bookings carry no
// agency id; callers join them against the agency's experiences.
func (c *Client) AllBookings(ctx context.Context, creds models.Credentials) ([]models.Booking, error) {
	var dtos []bookingDTO
	if err := c.do(ctx, SourceBookings, creds, http.MethodGet, "/api/v1/assets/booking", nil, &dtos); err != nil {
		return nil, err
	}
	return convertAll(dtos, bookingDTO.toModel), nil
}

// ExperiencesByAgency fetches the agency's experience summaries.
func (c *Client) ExperiencesByAgency(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.ExperienceSummary, error) {
	var dtos []experienceSummaryDTO
	path := "/api/v1/design/experience/agency/" + url.PathEscape(agencyID.String())
	if err := c.do(ctx, SourceExperiences, creds, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	return convertAll(dtos, experienceSummaryDTO.toModel), nil
}

// DeleteExperience removes one experience.
func (c *Client) DeleteExperience(ctx context.Context, creds models.Credentials, experienceID id.ExperienceID) error {
	path := "/api/v1/design/Experience/" + experienceID.String()
	return c.do(ctx, SourceExperienceDelete, creds, http.MethodDelete, path, nil, nil)
}

// UserDetails fetches the display details of any user.
func (c *Client) UserDetails(ctx context.Context, creds models.Credentials, userID id.UserID) (*models.UserDetails, error) {
	var dto userDetailsDTO
	path := "/api/v1/profile/user/" + url.PathEscape(userID.String())
	if err := c.do(ctx, SourceUserDetails, creds, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// UpdateAgencyProfile replaces the agency profile and returns the stored version.
func (c *Client) UpdateAgencyProfile(ctx context.Context, creds models.Credentials, userID id.UserID, update models.ProfileUpdate) (*models.Profile, error) {
	var dto profileDTO
	path := "/api/v1/profile/user/agency/" + url.PathEscape(userID.String())
	if err := c.do(ctx, SourceProfileUpdate, creds, http.MethodPut, path, newUpdateProfileDTO(update), &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// AgencyInquiries fetches the inquiries addressed to one agency.
func (c *Client) AgencyInquiries(ctx context.Context, creds models.Credentials, agencyID id.UserID) ([]models.Inquiry, error) {
	var dtos []inquiryDTO
	path := "/api/v1/inquiry/agency/" + url.PathEscape(agencyID.String())
	if err := c.do(ctx, SourceAgencyInquiries, creds, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	return convertAll(dtos, inquiryDTO.toModel), nil
}

// CreateResponse posts an answer to an inquiry.
func (c *Client) CreateResponse(ctx context.Context, creds models.Credentials, cmd models.ResponseCommand) error {
	return c.do(ctx, SourceInquiryResponses, creds, http.MethodPost, "/api/v1/Response", newCreateResponseDTO(cmd), nil)
}

// Ping reports whether the upstream API answers at all. Any HTTP status counts
// as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *Client) do(ctx context.Context, source Source, creds models.Credentials, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewError(ErrorInternal, source, "failed to marshal request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return NewError(ErrorInternal, source, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := creds.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(ctx, source, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(ErrorBadData, source, "failed to read response", err)
	}

	if gerr := classifyStatus(source, resp.StatusCode); gerr != nil {
		return gerr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewError(ErrorBadData, source, "failed to decode response", err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, source Source, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		// The caller gave up; retrying would only waste work.
		return NewError(ErrorInternal, source, "request canceled", err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrorTimeout, source, "request timeout", err)
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return NewError(ErrorTimeout, source, "request timeout", err)
		}
		return NewError(ErrorOutage, source, "failed to execute request", err)
	}
}

func classifyStatus(source Source, status int) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	var category ErrorCategory
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		category = ErrorAuthentication
	case status == http.StatusNotFound:
		category = ErrorNotFound
	case status == http.StatusTooManyRequests:
		category = ErrorRateLimited
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		category = ErrorOutage
	case status >= 400 && status < 500:
		category = ErrorRejected
	default:
		category = ErrorInternal
	}

	gerr := NewError(category, source, fmt.Sprintf("unexpected status %d", status), nil)
	gerr.StatusCode = status
	return gerr
}
