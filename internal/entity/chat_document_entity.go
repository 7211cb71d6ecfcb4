package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatDocument is the server-persisted append log of messages for one
// (user, persona) pair. At most one exists per pair; it is never deleted.
type ChatDocument struct {
	Id           uuid.UUID
	UID          string
	UserEmail    string
	PersonaTitle string
	Persona      Persona
	Messages     []Message
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
