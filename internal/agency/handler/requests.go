package handler

import (
	"errors"
	"strings"
	"unicode/utf8"

	"tripmatch/internal/agency/models"
)

const maxAnswerLength = 2000

// RespondRequest is the body of POST /agency/inquiries/{inquiryID}/response.
type RespondRequest struct {
	Answer string `json:"answer"`
}

func (r *RespondRequest) Normalize() {
	r.Answer = strings.TrimSpace(r.Answer)
}

func (r *RespondRequest) Validate() error {
	if r.Answer == "" {
		return errors.New("answer is required")
	}
	if utf8.RuneCountInString(r.Answer) > maxAnswerLength {
		return errors.New("answer is too long")
	}
	return nil
}

// UpdateProfileRequest is the body of PUT /agency/profile.
type UpdateProfileRequest struct {
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

func (r *UpdateProfileRequest) Normalize() {
	r.AgencyName = strings.TrimSpace(r.AgencyName)
	for _, field := range []**string{
		&r.TaxID, &r.Description, &r.AvatarURL, &r.ContactEmail,
		&r.ContactPhone, &r.SocialFacebook, &r.SocialInstagram, &r.SocialWhatsapp,
	} {
		if *field == nil {
			continue
		}
		trimmed := strings.TrimSpace(**field)
		if trimmed == "" {
			*field = nil
			continue
		}
		*field = &trimmed
	}
}

func (r *UpdateProfileRequest) Validate() error {
	if r.AgencyName == "" {
		return errors.New("agency_name is required")
	}
	return nil
}

func (r *UpdateProfileRequest) toModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		AgencyName:      r.AgencyName,
		TaxID:           r.TaxID,
		Description:     r.Description,
		AvatarURL:       r.AvatarURL,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		SocialFacebook:  r.SocialFacebook,
		SocialInstagram: r.SocialInstagram,
		SocialWhatsapp:  r.SocialWhatsapp,
	}
}
