package mapper

import (
	"time"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/model"

	"gorm.io/gorm"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Profile{
		Id:              p.Id,
		DocID:           p.DocID,
		ProfileID:       p.ProfileID,
		UID:             p.UID,
		Email:           p.Email,
		PersonaType:     p.PersonaType,
		PersonaName:     p.PersonaName,
		PersonaRole:     p.PersonaRole,
		PersonaTraits:   p.PersonaTraits,
		PersonaBio:      p.PersonaBio,
		PersonaPronouns: p.PersonaPronouns,
		AgeRange:        p.AgeRange,
		GenderIdentity:  p.GenderIdentity,
		Location:        p.Location,
		IncomeLevel:     p.IncomeLevel,
		JobTitle:        p.JobTitle,
		Industry:        p.Industry,
		CompanyBio:      p.CompanyBio,
		CompanyURL:      p.CompanyURL,
		Tone:            p.Tone,
		PreferredLanguage: p.PreferredLanguage,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       p.DeletedAt.Valid,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Profile{
		Id:              p.Id,
		DocID:           p.DocID,
		ProfileID:       p.ProfileID,
		UID:             p.UID,
		Email:           p.Email,
		PersonaType:     p.PersonaType,
		PersonaName:     p.PersonaName,
		PersonaRole:     p.PersonaRole,
		PersonaTraits:   p.PersonaTraits,
		PersonaBio:      p.PersonaBio,
		PersonaPronouns: p.PersonaPronouns,
		AgeRange:        p.AgeRange,
		GenderIdentity:  p.GenderIdentity,
		Location:        p.Location,
		IncomeLevel:     p.IncomeLevel,
		JobTitle:        p.JobTitle,
		Industry:        p.Industry,
		CompanyBio:      p.CompanyBio,
		CompanyURL:      p.CompanyURL,
		Tone:            p.Tone,
		PreferredLanguage: p.PreferredLanguage,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *ProfileMapper) ToEntities(models []*model.Profile) []*entity.Profile {
	entities := make([]*entity.Profile, len(models))
	for i, p := range models {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
