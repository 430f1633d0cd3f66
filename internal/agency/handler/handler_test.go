package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tripmatch/internal/agency/handler/mocks"
	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
	dErrors "tripmatch/pkg/domain-errors"
	"tripmatch/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	agencyID    id.UserID
	creds       models.Credentials
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.agencyID = id.UserID("agency-1")
	s.creds = models.Credentials{Token: "tok-abc"}

	h := New(s.mockService, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	// stands in for RequireAuth
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithPrincipal(r.Context(), s.agencyID, s.creds.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *HandlerSuite) TestDashboard() {
	s.Run("renders the snapshot", func() {
		s.mockService.EXPECT().
			Dashboard(gomock.Any(), s.agencyID, s.creds).
			Return(models.DashboardSnapshot{
				AgencyName:     "Andes Tours",
				Stats:          models.Stats{ConfirmedBookings: 3, TotalEarnings: "S/ 120.00"},
				RecentBookings: []models.BookingItem{},
				RecentReviews:  []models.ReviewItem{},
			})

		rec := s.do(http.MethodGet, "/agency/dashboard", "")

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal("Andes Tours", body["agency_name"])
		s.Equal(false, body["degraded"])
		s.Equal([]any{}, body["recent_bookings"])
		stats := body["stats"].(map[string]any)
		s.InDelta(3, stats["confirmed_bookings"], 0)
		s.Equal("S/ 120.00", stats["total_earnings"])
		s.NotContains(body, "error")
	})

	s.Run("degraded snapshot is still 200", func() {
		s.mockService.EXPECT().
			Dashboard(gomock.Any(), s.agencyID, s.creds).
			Return(models.DashboardSnapshot{
				AgencyName:     "Agency",
				RecentBookings: []models.BookingItem{},
				RecentReviews:  []models.ReviewItem{},
				Degraded:       true,
				Error:          "Dashboard data could not be loaded.",
			})

		rec := s.do(http.MethodGet, "/agency/dashboard", "")

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal(true, body["degraded"])
		s.Equal("Dashboard data could not be loaded.", body["error"])
	})
}

func (s *HandlerSuite) TestBookings() {
	s.Run("passes the search query", func() {
		s.mockService.EXPECT().
			Bookings(gomock.Any(), s.agencyID, s.creds, "cusco").
			Return(&models.BookingList{Bookings: []models.BookingItem{{BookingID: 1}}, Query: "cusco", Count: 4}, nil)

		rec := s.do(http.MethodGet, "/agency/bookings?q=cusco", "")

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.InDelta(4, body["count"], 0)
		s.Len(body["bookings"], 1)
	})

	s.Run("translates domain errors", func() {
		s.mockService.EXPECT().
			Bookings(gomock.Any(), s.agencyID, s.creds, "").
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "bookings unavailable"))

		rec := s.do(http.MethodGet, "/agency/bookings", "")

		s.Equal(http.StatusBadGateway, rec.Code)
		s.Equal("upstream_unavailable", s.decode(rec)["error"])
	})
}

func (s *HandlerSuite) TestProfile() {
	s.mockService.EXPECT().
		Profile(gomock.Any(), s.agencyID, s.creds).
		Return(&models.ProfileView{
			Profile:     models.ProfileBody{AgencyName: "Andes Tours"},
			Rating:      4.5,
			ReviewCount: 2,
			Reviews:     []models.ReviewItem{},
		}, nil)

	rec := s.do(http.MethodGet, "/agency/profile", "")

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.InDelta(4.5, body["rating"], 1e-9)
	s.Equal("Andes Tours", body["profile"].(map[string]any)["agency_name"])
}

func (s *HandlerSuite) TestUpdateProfile() {
	s.Run("normalizes and forwards the update", func() {
		s.mockService.EXPECT().
			UpdateProfile(gomock.Any(), s.agencyID, s.creds, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.UserID, _ models.Credentials, u models.ProfileUpdate) (*models.Profile, error) {
				s.Equal("Andes Tours", u.AgencyName)
				s.Nil(u.Description, "blank optional fields become nil")
				s.Require().NotNil(u.ContactEmail)
				s.Equal("hola@andes.pe", *u.ContactEmail)
				return &models.Profile{AgencyName: u.AgencyName, ContactEmail: u.ContactEmail}, nil
			})

		rec := s.do(http.MethodPut, "/agency/profile",
			`{"agency_name":" Andes Tours ","description":"  ","contact_email":"hola@andes.pe"}`)

		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal("Andes Tours", body["agency_name"])
		s.Equal("hola@andes.pe", body["contact_email"])
	})

	s.Run("missing agency name is a validation error", func() {
		rec := s.do(http.MethodPut, "/agency/profile", `{"agency_name":""}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", s.decode(rec)["error"])
	})

	s.Run("invalid JSON", func() {
		rec := s.do(http.MethodPut, "/agency/profile", `not json`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestInquiries() {
	answer := "8am"
	s.mockService.EXPECT().
		Inquiries(gomock.Any(), s.agencyID, s.creds).
		Return([]models.InquiryView{
			{ID: 1, Question: "Pickup?", TravelerName: "Rosa"},
			{ID: 2, Question: "Time?", Answered: true, Answer: &answer},
		}, nil)

	rec := s.do(http.MethodGet, "/agency/inquiries", "")

	s.Equal(http.StatusOK, rec.Code)
	inquiries := s.decode(rec)["inquiries"].([]any)
	s.Require().Len(inquiries, 2)
	s.Equal(false, inquiries[0].(map[string]any)["answered"])
	s.Equal("8am", inquiries[1].(map[string]any)["answer"])
}

func (s *HandlerSuite) TestRespond() {
	s.Run("answers the inquiry", func() {
		s.mockService.EXPECT().
			Respond(gomock.Any(), s.agencyID, s.creds, id.InquiryID(42), "See you at 8").
			Return(nil)

		rec := s.do(http.MethodPost, "/agency/inquiries/42/response", `{"answer":"  See you at 8 "}`)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("rejects a malformed inquiry id", func() {
		rec := s.do(http.MethodPost, "/agency/inquiries/abc/response", `{"answer":"hi"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects an empty answer", func() {
		rec := s.do(http.MethodPost, "/agency/inquiries/42/response", `{"answer":"   "}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(s.decode(rec)["error_description"], "answer is required")
	})

	s.Run("upstream rejection", func() {
		s.mockService.EXPECT().
			Respond(gomock.Any(), s.agencyID, s.creds, id.InquiryID(7), "ok").
			Return(dErrors.New(dErrors.CodeNotFound, "inquiry response not found"))

		rec := s.do(http.MethodPost, "/agency/inquiries/7/response", `{"answer":"ok"}`)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestExperiences() {
	s.Run("lists under an envelope", func() {
		cover := "https://img/1.jpg"
		s.mockService.EXPECT().
			Experiences(gomock.Any(), s.agencyID, s.creds).
			Return([]models.ExperienceItem{
				{ID: 10, Title: "Machu Picchu", Price: 250, CoverImageURL: &cover},
				{ID: 11, Title: "Colca"},
			}, nil)

		rec := s.do(http.MethodGet, "/agency/experiences", "")

		s.Equal(http.StatusOK, rec.Code)
		experiences := s.decode(rec)["experiences"].([]any)
		s.Require().Len(experiences, 2)
		first := experiences[0].(map[string]any)
		s.Equal("Machu Picchu", first["title"])
		s.Equal(cover, first["cover_image_url"])
		s.Nil(experiences[1].(map[string]any)["cover_image_url"])
	})

	s.Run("empty list stays an array", func() {
		s.mockService.EXPECT().
			Experiences(gomock.Any(), s.agencyID, s.creds).
			Return([]models.ExperienceItem{}, nil)

		rec := s.do(http.MethodGet, "/agency/experiences", "")

		s.Equal(http.StatusOK, rec.Code)
		s.Equal([]any{}, s.decode(rec)["experiences"])
	})

	s.Run("upstream timeout", func() {
		s.mockService.EXPECT().
			Experiences(gomock.Any(), s.agencyID, s.creds).
			Return(nil, dErrors.New(dErrors.CodeTimeout, "experiences timed out"))

		rec := s.do(http.MethodGet, "/agency/experiences", "")
		s.Equal(http.StatusGatewayTimeout, rec.Code)
	})
}

func (s *HandlerSuite) TestDeleteExperience() {
	s.Run("deletes", func() {
		s.mockService.EXPECT().
			DeleteExperience(gomock.Any(), s.agencyID, s.creds, id.ExperienceID(10)).
			Return(nil)

		rec := s.do(http.MethodDelete, "/agency/experiences/10", "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("rejects a malformed experience id", func() {
		rec := s.do(http.MethodDelete, "/agency/experiences/0", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("experience of another agency", func() {
		s.mockService.EXPECT().
			DeleteExperience(gomock.Any(), s.agencyID, s.creds, id.ExperienceID(99)).
			Return(dErrors.New(dErrors.CodeNotFound, "experience not found"))

		rec := s.do(http.MethodDelete, "/agency/experiences/99", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestMissingPrincipal() {
	h := New(s.mockService, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	h.Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agency/dashboard", nil))

	s.Equal(http.StatusInternalServerError, rec.Code)
}
