package specification

import "gorm.io/gorm"

// OwnedBy matches profile documents belonging to a user by external uid.
type OwnedBy struct {
	UID string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ?", s.UID)
}

// OwnedByEmail matches on the owner's email.
type OwnedByEmail struct {
	Email string
}

func (s OwnedByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByDocID matches the store-assigned 24-hex document id.
type ByDocID struct {
	DocID string
}

func (s ByDocID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_id = ?", s.DocID)
}

// ByPersonaName matches the persona display name.
type ByPersonaName struct {
	Name string
}

func (s ByPersonaName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("persona_name = ?", s.Name)
}

// ByProfileID matches the legacy time-based profile id.
type ByProfileID struct {
	ProfileID string
}

func (s ByProfileID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("profile_id = ?", s.ProfileID)
}

// HasPersonaName excludes documents without a display name.
type HasPersonaName struct{}

func (s HasPersonaName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("persona_name IS NOT NULL AND persona_name <> ''")
}
