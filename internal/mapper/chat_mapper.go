package mapper

import (
	"encoding/json"
	"time"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(doc *model.ChatDocument) (*entity.ChatDocument, error) {
	if doc == nil {
		return nil, nil
	}

	var messages []entity.Message
	if len(doc.Messages) > 0 {
		if err := json.Unmarshal(doc.Messages, &messages); err != nil {
			return nil, err
		}
	}

	var persona entity.Persona
	if len(doc.Persona) > 0 {
		if err := json.Unmarshal(doc.Persona, &persona); err != nil {
			return nil, err
		}
	}

	var updatedAt *time.Time
	if !doc.UpdatedAt.IsZero() {
		t := doc.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatDocument{
		Id:           doc.Id,
		UID:          doc.UID,
		UserEmail:    doc.UserEmail,
		PersonaTitle: doc.PersonaTitle,
		Persona:      persona,
		Messages:     messages,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func (m *ChatMapper) ToModel(doc *entity.ChatDocument) (*model.ChatDocument, error) {
	if doc == nil {
		return nil, nil
	}

	messages := doc.Messages
	if messages == nil {
		messages = []entity.Message{}
	}
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	personaJSON, err := json.Marshal(doc.Persona)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}

	return &model.ChatDocument{
		Id:           doc.Id,
		UID:          doc.UID,
		UserEmail:    doc.UserEmail,
		PersonaTitle: doc.PersonaTitle,
		Persona:      personaJSON,
		Messages:     messagesJSON,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    updatedAt,
	}, nil
}
