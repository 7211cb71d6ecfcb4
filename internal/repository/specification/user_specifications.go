package specification

import "gorm.io/gorm"

// ByEmail matches a user by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByUID matches a user by external identity-provider uid.
type ByUID struct {
	UID string
}

func (s ByUID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ?", s.UID)
}
