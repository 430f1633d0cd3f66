package gateway

import (
	"time"

	"tripmatch/internal/agency/models"
	id "tripmatch/pkg/domain"
)

// Wire shapes of the upstream TripMatch API (camelCase JSON).

type profileDTO struct {
	AgencyName          string  `json:"agencyName"`
	Ruc                 *string `json:"ruc"`
	Description         *string `json:"description"`
	AvatarURL           *string `json:"avatarUrl"`
	ContactEmail        *string `json:"contactEmail"`
	ContactPhone        *string `json:"contactPhone"`
	SocialLinkFacebook  *string `json:"socialLinkFacebook"`
	SocialLinkInstagram *string `json:"socialLinkInstagram"`
	SocialLinkWhatsapp  *string `json:"socialLinkWhatsapp"`
}

type reviewDTO struct {
	ID            int     `json:"id"`
	TouristUserID string  `json:"touristUserId"`
	AgencyUserID  string  `json:"agencyUserId"`
	Comment       string  `json:"comment"`
	Rating        float64 `json:"rating"`
}

type inquiryResponseDTO struct {
	Answer     string `json:"answer"`
	AnsweredAt string `json:"answeredAt"`
}

type inquiryDTO struct {
	ID                int                 `json:"id"`
	ExperienceID      int                 `json:"experienceId"`
	ExperienceTitle   string              `json:"experienceTitle"`
	UserID            string              `json:"userId"`
	TravelerName      string              `json:"travelerName"`
	TravelerAvatarURL *string             `json:"travelerAvatarUrl"`
	Question          string              `json:"question"`
	AskedAt           string              `json:"askedAt"`
	Response          *inquiryResponseDTO `json:"response"`
	IsAnswered        *bool               `json:"isAnswered"`
}

type bookingDTO struct {
	ID             int     `json:"id"`
	TouristID      string  `json:"touristId"`
	ExperienceID   int     `json:"experienceId"`
	Price          float64 `json:"price"`
	BookingDate    string  `json:"bookingDate"`
	NumberOfPeople int     `json:"numberOfPeople"`
}

type experienceSummaryDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Duration    int     `json:"duration"`
	Frequencies string  `json:"frequencies"`
	Category    *struct {
		Name string `json:"name"`
	} `json:"category"`
	ExperienceImages []struct {
		URL string `json:"url"`
	} `json:"experienceImages"`
}

type userDetailsDTO struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Number    *string `json:"number"`
	AvatarURL *string `json:"avatarUrl"`
}

type createResponseDTO struct {
	InquiryID   int    `json:"inquiryId"`
	ResponderID string `json:"responderId"`
	Answer      string `json:"answer"`
	AnsweredAt  string `json:"answeredAt"`
}

type updateProfileDTO struct {
	AgencyName          string  `json:"agencyName"`
	Ruc                 *string `json:"ruc"`
	Description         *string `json:"description"`
	AvatarURL           *string `json:"avatarUrl"`
	ContactEmail        *string `json:"contactEmail"`
	ContactPhone        *string `json:"contactPhone"`
	SocialLinkFacebook  *string `json:"socialLinkFacebook"`
	SocialLinkInstagram *string `json:"socialLinkInstagram"`
	SocialLinkWhatsapp  *string `json:"socialLinkWhatsapp"`
}

func (d profileDTO) toModel() *models.Profile {
	return &models.Profile{
		AgencyName:      d.AgencyName,
		TaxID:           nonBlank(d.Ruc),
		Description:     nonBlank(d.Description),
		AvatarURL:       nonBlank(d.AvatarURL),
		ContactEmail:    nonBlank(d.ContactEmail),
		ContactPhone:    nonBlank(d.ContactPhone),
		SocialFacebook:  nonBlank(d.SocialLinkFacebook),
		SocialInstagram: nonBlank(d.SocialLinkInstagram),
		SocialWhatsapp:  nonBlank(d.SocialLinkWhatsapp),
	}
}

func (d reviewDTO) toModel() models.Review {
	return models.Review{
		ID:            d.ID,
		TouristUserID: id.UserID(d.TouristUserID),
		AgencyUserID:  id.UserID(d.AgencyUserID),
		Comment:       d.Comment,
		Rating:        d.Rating,
	}
}

func (d inquiryDTO) toModel() models.Inquiry {
	inq := models.Inquiry{
		ID:                id.InquiryID(d.ID),
		ExperienceID:      id.ExperienceID(d.ExperienceID),
		ExperienceTitle:   d.ExperienceTitle,
		UserID:            id.UserID(d.UserID),
		TravelerName:      d.TravelerName,
		TravelerAvatarURL: nonBlank(d.TravelerAvatarURL),
		Question:          d.Question,
		AskedAt:           d.AskedAt,
		LegacyAnswered:    d.IsAnswered,
	}
	if d.Response != nil {
		inq.Response = &models.InquiryResponse{
			Answer:     d.Response.Answer,
			AnsweredAt: d.Response.AnsweredAt,
		}
	}
	return inq
}

func (d bookingDTO) toModel() models.Booking {
	return models.Booking{
		ID:             d.ID,
		TouristID:      id.UserID(d.TouristID),
		ExperienceID:   id.ExperienceID(d.ExperienceID),
		Price:          d.Price,
		BookingDate:    d.BookingDate,
		NumberOfPeople: d.NumberOfPeople,
	}
}

func (d experienceSummaryDTO) toModel() models.ExperienceSummary {
	e := models.ExperienceSummary{
		ID:            id.ExperienceID(d.ID),
		Title:         d.Title,
		Price:         d.Price,
		Description:   d.Description,
		Location:      d.Location,
		DurationHours: d.Duration,
		Frequencies:   d.Frequencies,
		ImageURLs:     []string{},
	}
	if d.Category != nil {
		e.Category = d.Category.Name
	}
	for _, img := range d.ExperienceImages {
		if img.URL != "" {
			e.ImageURLs = append(e.ImageURLs, img.URL)
		}
	}
	return e
}

func (d userDetailsDTO) toModel() *models.UserDetails {
	return &models.UserDetails{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     nonBlank(d.Number),
		AvatarURL: nonBlank(d.AvatarURL),
	}
}

func newCreateResponseDTO(cmd models.ResponseCommand) createResponseDTO {
	return createResponseDTO{
		InquiryID:   int(cmd.InquiryID),
		ResponderID: cmd.ResponderID.String(),
		Answer:      cmd.Answer,
		AnsweredAt:  cmd.AnsweredAt.UTC().Format(time.RFC3339),
	}
}

func newUpdateProfileDTO(u models.ProfileUpdate) updateProfileDTO {
	return updateProfileDTO{
		AgencyName:          u.AgencyName,
		Ruc:                 u.TaxID,
		Description:         u.Description,
		AvatarURL:           u.AvatarURL,
		ContactEmail:        u.ContactEmail,
		ContactPhone:        u.ContactPhone,
		SocialLinkFacebook:  u.SocialFacebook,
		SocialLinkInstagram: u.SocialInstagram,
		SocialLinkWhatsapp:  u.SocialWhatsapp,
	}
}

// convertAll maps a decoded list, returning an empty (non-nil) slice for a
// JSON null body.
func convertAll[D, M any](in []D, convert func(D) M) []M {
	out := make([]M, 0, len(in))
	for _, d := range in {
		out = append(out, convert(d))
	}
	return out
}

// nonBlank maps "" to nil so "not provided" has exactly one representation.
func nonBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
