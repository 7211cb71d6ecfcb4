package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a persona and/or business profile document owned by one user.
type Profile struct {
	Id        uuid.UUID
	DocID     string // store-assigned 24-hex id, authoritative for deletion
	ProfileID string // locally-generated time-based id, kept for legacy clients
	UID       string
	Email     string

	PersonaType     string
	PersonaName     string
	PersonaRole     string
	PersonaTraits   string
	PersonaBio      string
	PersonaPronouns string

	AgeRange       string
	GenderIdentity string
	Location       string
	IncomeLevel    string
	JobTitle       string
	Industry       string
	CompanyBio     string
	CompanyURL     string

	Tone              string
	PreferredLanguage string

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
