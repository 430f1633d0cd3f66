package models

// Views are built fresh per request and never mutated after assembly. JSON tags
// describe the shape the HTTP transport writes.

// Stats are the dashboard counters derived from the joined collections.
type Stats struct {
	ConfirmedBookings int    `json:"confirmed_bookings"`
	NewQueries        int    `json:"new_queries"`
	TotalExperiences  int    `json:"total_experiences"`
	TotalEarnings     string `json:"total_earnings"`
}

// BookingItem is a booking enriched with its traveler and experience.
type BookingItem struct {
	BookingID         int     `json:"booking_id"`
	TravelerName      string  `json:"traveler_name"`
	TravelerAvatarURL string  `json:"traveler_avatar_url,omitempty"`
	ExperienceTitle   string  `json:"experience_title"`
	Date              string  `json:"date"`
	People            int     `json:"people"`
	TotalPaid         float64 `json:"total_paid"`
	Status            string  `json:"status"`
}

// ReviewItem is a review enriched with its author.
type ReviewItem struct {
	ReviewID        int    `json:"review_id"`
	Author          string `json:"author"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
	Comment         string `json:"comment"`
	Rating          int    `json:"rating"`
}

// DashboardSnapshot answers "what does this agency's home screen look like now".
// A degraded snapshot carries zeroed stats, empty lists and an Error message.
type DashboardSnapshot struct {
	AgencyName     string        `json:"agency_name"`
	Stats          Stats         `json:"stats"`
	RecentBookings []BookingItem `json:"recent_bookings"`
	RecentReviews  []ReviewItem  `json:"recent_reviews"`
	Degraded       bool          `json:"degraded"`
	Error          string        `json:"error,omitempty"`
}

// BookingList is the agency's full booking ledger, optionally filtered by a
// search query. Count and TotalIncome always cover the unfiltered set.
type BookingList struct {
	Bookings    []BookingItem `json:"bookings"`
	Query       string        `json:"query,omitempty"`
	Count       int           `json:"count"`
	TotalIncome string        `json:"total_income"`
}

// ProfileView is the agency profile screen: profile, rating summary and the
// most recent reviews.
type ProfileView struct {
	Profile     ProfileBody  `json:"profile"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"review_count"`
	Reviews     []ReviewItem `json:"reviews"`
}

// ProfileBody is the JSON rendering of Profile.
type ProfileBody struct {
	AgencyName      string  `json:"agency_name"`
	TaxID           *string `json:"tax_id"`
	Description     *string `json:"description"`
	AvatarURL       *string `json:"avatar_url"`
	ContactEmail    *string `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone"`
	SocialFacebook  *string `json:"social_facebook"`
	SocialInstagram *string `json:"social_instagram"`
	SocialWhatsapp  *string `json:"social_whatsapp"`
}

// Body converts a profile to its JSON rendering.
func (p Profile) Body() ProfileBody {
	return ProfileBody{
		AgencyName:      p.AgencyName,
		TaxID:           p.TaxID,
		Description:     p.Description,
		AvatarURL:       p.AvatarURL,
		ContactEmail:    p.ContactEmail,
		ContactPhone:    p.ContactPhone,
		SocialFacebook:  p.SocialFacebook,
		SocialInstagram: p.SocialInstagram,
		SocialWhatsapp:  p.SocialWhatsapp,
	}
}

// InquiryView is an inquiry as shown on the agency's queries screen.
type InquiryView struct {
	ID                int     `json:"id"`
	ExperienceID      int     `json:"experience_id"`
	ExperienceTitle   string  `json:"experience_title"`
	TravelerName      string  `json:"traveler_name"`
	TravelerAvatarURL *string `json:"traveler_avatar_url,omitempty"`
	Question          string  `json:"question"`
	AskedAt           string  `json:"asked_at"`
	Answered          bool    `json:"answered"`
	Answer            *string `json:"answer,omitempty"`
	AnsweredAt        *string `json:"answered_at,omitempty"`
}

// ExperienceItem is one row of the agency's experience management list.
type ExperienceItem struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	DurationHours int     `json:"duration_hours"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Frequencies   string  `json:"frequencies"`
	CoverImageURL *string `json:"cover_image_url"`
}

// Item converts a summary to its list rendering. The first image is the cover.
func (e ExperienceSummary) Item() ExperienceItem {
	item := ExperienceItem{
		ID:            int(e.ID),
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		DurationHours: e.DurationHours,
		Price:         e.Price,
		Category:      e.Category,
		Frequencies:   e.Frequencies,
	}
	if len(e.ImageURLs) > 0 {
		cover := e.ImageURLs[0]
		item.CoverImageURL = &cover
	}
	return item
}
