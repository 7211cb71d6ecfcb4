package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocID     string    `gorm:"type:char(24);uniqueIndex;not null"` // store-assigned document id
	ProfileID string    `gorm:"type:varchar(32);index"`             // legacy time-based id
	UID       string    `gorm:"type:varchar(128);not null;index"`
	Email     string    `gorm:"type:varchar(255);not null;index"`

	PersonaType     string `gorm:"type:varchar(50)"`
	PersonaName     string `gorm:"type:varchar(255);index"`
	PersonaRole     string `gorm:"type:varchar(255)"`
	PersonaTraits   string `gorm:"type:text"`
	PersonaBio      string `gorm:"type:text"`
	PersonaPronouns string `gorm:"type:varchar(50)"`

	AgeRange       string `gorm:"type:varchar(50)"`
	GenderIdentity string `gorm:"type:varchar(50)"`
	Location       string `gorm:"type:varchar(255)"`
	IncomeLevel    string `gorm:"type:varchar(50)"`
	JobTitle       string `gorm:"type:varchar(255)"`
	Industry       string `gorm:"type:varchar(255)"`
	CompanyBio     string `gorm:"type:text"`
	CompanyURL     string `gorm:"type:varchar(512)"`

	Tone              string `gorm:"type:varchar(100)"`
	PreferredLanguage string `gorm:"type:varchar(50)"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}
