package specification

import "gorm.io/gorm"

// ByUIDAndPersona matches the single chat document for a (uid, persona) pair.
type ByUIDAndPersona struct {
	UID          string
	PersonaTitle string
}

func (s ByUIDAndPersona) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ? AND persona_title = ?", s.UID, s.PersonaTitle)
}

// ChatsOwnedBy matches all chat documents for one user.
type ChatsOwnedBy struct {
	UID string
}

func (s ChatsOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ?", s.UID)
}
