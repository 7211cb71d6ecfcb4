package dto

import "time"

type CreateProfileRequest struct {
	UID   string `json:"uid" validate:"required"`
	Email string `json:"email" validate:"required,email"`

	PersonaType     string `json:"persona_type"`
	PersonaName     string `json:"persona_name" validate:"required"`
	PersonaRole     string `json:"persona_role"`
	PersonaTraits   string `json:"persona_traits"`
	PersonaBio      string `json:"persona_bio"`
	PersonaPronouns string `json:"persona_pronouns"`

	AgeRange       string `json:"age_range"`
	GenderIdentity string `json:"gender_identity"`
	Location       string `json:"location"`
	IncomeLevel    string `json:"income_level"`
	JobTitle       string `json:"job_title"`
	Industry       string `json:"industry"`
	CompanyBio     string `json:"company_bio"`
	CompanyURL     string `json:"company_url"`

	Tone              string `json:"tone"`
	PreferredLanguage string `json:"preferred_language"`
}

type ProfileResponse struct {
	DocID     string `json:"databaseProfileId"`
	ProfileID string `json:"profileId"`
	UID       string `json:"uid"`
	Email     string `json:"email"`

	PersonaType     string `json:"persona_type"`
	PersonaName     string `json:"persona_name"`
	PersonaRole     string `json:"persona_role,omitempty"`
	PersonaTraits   string `json:"persona_traits,omitempty"`
	PersonaBio      string `json:"persona_bio,omitempty"`
	PersonaPronouns string `json:"persona_pronouns,omitempty"`

	AgeRange       string `json:"age_range,omitempty"`
	GenderIdentity string `json:"gender_identity,omitempty"`
	Location       string `json:"location,omitempty"`
	IncomeLevel    string `json:"income_level,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	Industry       string `json:"industry,omitempty"`
	CompanyBio     string `json:"company_bio,omitempty"`
	CompanyURL     string `json:"company_url,omitempty"`

	Tone              string `json:"tone,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
