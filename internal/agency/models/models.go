// Package models holds the TripMatch entities fetched from the upstream API and
// the immutable views the aggregation pipeline builds from them.
package models

import (
	"time"

	id "tripmatch/pkg/domain"
)

// Credentials is the caller's bearer credential, forwarded on every upstream call.
type Credentials struct {
	Token string
}

// Authorization renders the header value for the upstream API.
func (c Credentials) Authorization() string {
	if c.Token == "" {
		return ""
	}
	return "Bearer " + c.Token
}

// Profile is an agency's public profile. Optional fields are nil when the agency
// has not provided them.
type Profile struct {
	AgencyName      string
	TaxID           *string // RUC
	Description     *string
	AvatarURL       *string
	ContactEmail    *string
	ContactPhone    *string
	SocialFacebook  *string
	SocialInstagram *string
	SocialWhatsapp  *string
}

// ExperienceSummary is the projection of an experience used for joins and the
// agency's experience list.
type ExperienceSummary struct {
	ID            id.ExperienceID
	Title         string
	Price         float64
	Description   string
	Location      string
	DurationHours int
	Frequencies   string
	Category      string
	ImageURLs     []string
}

// Booking carries no agency id: membership in an agency's booking set is derived
// from ExperienceID.
type Booking struct {
	ID             int
	TouristID      id.UserID
	ExperienceID   id.ExperienceID
	Price          float64
	BookingDate    string
	NumberOfPeople int
}

type Review struct {
	ID            int
	TouristUserID id.UserID
	AgencyUserID  id.UserID
	Comment       string
	Rating        float64 // 0-5, fractional
}

// InquiryResponse is the agency's answer to an inquiry.
type InquiryResponse struct {
	Answer     string
	AnsweredAt string
}

type Inquiry struct {
	ID                id.InquiryID
	ExperienceID      id.ExperienceID
	ExperienceTitle   string
	UserID            id.UserID
	TravelerName      string
	TravelerAvatarURL *string
	Question          string
	AskedAt           string
	Response          *InquiryResponse

	// LegacyAnswered is the stored flag some upstream payloads still carry.
	// It is never trusted; see IsAnswered.
	LegacyAnswered *bool
}

// IsAnswered derives the answered state from the presence of a response.
func (i Inquiry) IsAnswered() bool {
	return i.Response != nil
}

// AnswerFlagDiverges reports whether the legacy stored flag disagrees with the
// derived state.
func (i Inquiry) AnswerFlagDiverges() bool {
	return i.LegacyAnswered != nil && *i.LegacyAnswered != i.IsAnswered()
}

type UserDetails struct {
	FirstName string
	LastName  string
	Phone     *string
	AvatarURL *string
}

// DisplayName joins first and last name, skipping empty parts.
func (u UserDetails) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// ResponseCommand submits (or overwrites) the answer to an inquiry.
type ResponseCommand struct {
	InquiryID   id.InquiryID
	ResponderID id.UserID
	Answer      string
	AnsweredAt  time.Time
}

// ProfileUpdate is the full replacement payload for an agency profile.
type ProfileUpdate struct {
	AgencyName      string
	TaxID           *string
	Description     *string
	AvatarURL       *string
	ContactEmail    *string
	ContactPhone    *string
	SocialFacebook  *string
	SocialInstagram *string
	SocialWhatsapp  *string
}
