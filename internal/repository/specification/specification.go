package specification

import "gorm.io/gorm"

// Specification narrows a gorm query; repositories combine these to build
// their WHERE clauses.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
