package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatDocument holds the append log of messages for one (uid, persona) pair.
// The composite unique index enforces at most one document per pair; the
// merge-or-create path relies on it to resolve concurrent first appends.
type ChatDocument struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UID          string         `gorm:"type:varchar(128);not null;uniqueIndex:idx_chat_documents_uid_persona"`
	UserEmail    string         `gorm:"type:varchar(255)"`
	PersonaTitle string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_chat_documents_uid_persona"`
	Persona      datatypes.JSON `gorm:"type:jsonb"`
	Messages     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (ChatDocument) TableName() string {
	return "chat_documents"
}
