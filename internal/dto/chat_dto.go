package dto

import "time"

// StoreChatMessageRequest appends one message to the persona-scoped chat
// document for the caller, creating the document if it does not exist yet.
type StoreChatMessageRequest struct {
	Role           string          `json:"role" validate:"required,oneof=user assistant"`
	Content        string          `json:"content" validate:"required"`
	SentTime       string          `json:"sentTime"`
	Id             int64           `json:"id"`
	UID            string          `json:"uid" validate:"required"`
	UserEmail      string          `json:"userEmail" validate:"required,email"`
	Persona        *PersonaPayload `json:"persona" validate:"required"`
	ConversationId int64           `json:"conversationId"`
	Suggestions    []string        `json:"suggestions,omitempty"`
}

type SendMessageRequest struct {
	Content           string          `json:"content" validate:"required"`
	ConversationIndex *int            `json:"conversation_index,omitempty"`
	Persona           *PersonaPayload `json:"persona,omitempty"`
}

type MessagePayload struct {
	Role           string   `json:"role"`
	Content        string   `json:"content"`
	SentTime       string   `json:"sentTime"`
	Id             int64    `json:"id"`
	ConversationId int64    `json:"conversationId,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

type SendMessageResponse struct {
	ConversationIndex int             `json:"conversation_index"`
	Sent              *MessagePayload `json:"sent"`
	Reply             *MessagePayload `json:"reply"`
}

// ExchangeStoredMessage is published on the in-process bus after both halves
// of a chat exchange have been persisted.
type ExchangeStoredMessage struct {
	UID          string `json:"uid"`
	UserEmail    string `json:"user_email"`
	PersonaTitle string `json:"persona_title"`
	MessageCount int    `json:"message_count"`
}

type ChatDocumentResponse struct {
	Id        string           `json:"id"`
	UID       string           `json:"uid"`
	UserEmail string           `json:"userEmail"`
	Persona   PersonaPayload   `json:"persona"`
	Messages  []MessagePayload `json:"messages"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
}
