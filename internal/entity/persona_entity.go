package entity

import (
	"strings"

	"persona-chat-be/internal/constant"
)

// Persona is the canonical persona record. Built-in catalog entries and
// user-created profiles use different field names at the boundary
// (title/desc vs persona_name/persona_bio); both are normalized into this
// shape before anything else touches them.
type Persona struct {
	DocID      string `json:"databaseProfileId,omitempty"` // store-assigned 24-hex document id, empty for builtins
	ProfileID  string `json:"profileId,omitempty"`         // legacy time-based id, empty for builtins
	Title      string `json:"title"`
	Bio        string `json:"desc"`
	Type       string `json:"type"` // canonical lower-case category type
	CategoryID int    `json:"id"`
	Role       string `json:"role"`
	OwnerUID   string `json:"uid,omitempty"`
	OwnerEmail string `json:"email,omitempty"`
	Builtin    bool   `json:"builtin,omitempty"`
}

// CategoryIDForType maps a persona type to its fixed numeric category id.
// Unrecognized or absent types map to General.
func CategoryIDForType(personaType string) int {
	switch strings.ToLower(strings.TrimSpace(personaType)) {
	case constant.PersonaTypeFashion:
		return constant.PersonaCategoryFashion
	case constant.PersonaTypeLuxury:
		return constant.PersonaCategoryLuxury
	case constant.PersonaTypeFood:
		return constant.PersonaCategoryFood
	case constant.PersonaTypeTechnology:
		return constant.PersonaCategoryTechnology
	default:
		return constant.PersonaCategoryGeneral
	}
}

// NormalizeType lower-cases a persona type, folding unknown values to general.
func NormalizeType(personaType string) string {
	t := strings.ToLower(strings.TrimSpace(personaType))
	switch t {
	case constant.PersonaTypeFashion, constant.PersonaTypeLuxury,
		constant.PersonaTypeFood, constant.PersonaTypeTechnology:
		return t
	default:
		return constant.PersonaTypeGeneral
	}
}

// NewBuiltinPersona normalizes a catalog entry.
func NewBuiltinPersona(title, bio, personaType string) Persona {
	t := NormalizeType(personaType)
	return Persona{
		Title:      title,
		Bio:        bio,
		Type:       t,
		CategoryID: CategoryIDForType(t),
		Role:       constant.MessageRoleSystem,
		Builtin:    true,
	}
}

// NewUserPersona normalizes a user-created profile document.
func NewUserPersona(p *Profile) Persona {
	t := NormalizeType(p.PersonaType)
	return Persona{
		DocID:      p.DocID,
		ProfileID:  p.ProfileID,
		Title:      p.PersonaName,
		Bio:        p.PersonaBio,
		Type:       t,
		CategoryID: CategoryIDForType(t),
		Role:       constant.MessageRoleSystem,
		OwnerUID:   p.UID,
		OwnerEmail: p.Email,
	}
}
