package service

import (
	"context"
	"time"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
)

// IChatStoreService is the persistence boundary for chat documents. Nothing
// else writes them.
type IChatStoreService interface {
	AppendChatMessage(ctx context.Context, req *dto.StoreChatMessageRequest) (*dto.ChatDocumentResponse, error)
	AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) error
	GetChatsByUID(ctx context.Context, uid string) ([]*dto.ChatDocumentResponse, error)
}

type chatStoreService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatStoreService(uowFactory unitofwork.RepositoryFactory) IChatStoreService {
	return &chatStoreService{
		uowFactory: uowFactory,
	}
}

func personaFromPayload(p *dto.PersonaPayload) entity.Persona {
	if p == nil {
		return entity.Persona{}
	}
	t := entity.NormalizeType(p.Type)
	return entity.Persona{
		DocID:      p.DocID,
		ProfileID:  p.ProfileID,
		Title:      p.Title,
		Bio:        p.Bio,
		Type:       t,
		CategoryID: entity.CategoryIDForType(t),
		Role:       "system",
	}
}

func personaToPayload(p entity.Persona) dto.PersonaPayload {
	return dto.PersonaPayload{
		Title:     p.Title,
		Bio:       p.Bio,
		Type:      p.Type,
		ProfileID: p.ProfileID,
		DocID:     p.DocID,
	}
}

func messageToPayload(m entity.Message) dto.MessagePayload {
	return dto.MessagePayload{
		Role:           m.Role,
		Content:        m.Content,
		SentTime:       m.SentTime,
		Id:             m.ID,
		ConversationId: m.ConversationID,
		Suggestions:    m.Suggestions,
	}
}

func documentToResponse(doc *entity.ChatDocument) *dto.ChatDocumentResponse {
	messages := make([]dto.MessagePayload, len(doc.Messages))
	for i, m := range doc.Messages {
		messages[i] = messageToPayload(m)
	}
	return &dto.ChatDocumentResponse{
		Id:        doc.Id.String(),
		UID:       doc.UID,
		UserEmail: doc.UserEmail,
		Persona:   personaToPayload(doc.Persona),
		Messages:  messages,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (s *chatStoreService) AppendChatMessage(ctx context.Context, req *dto.StoreChatMessageRequest) (*dto.ChatDocumentResponse, error) {
	persona := personaFromPayload(req.Persona)
	if persona.Title == "" {
		return nil, apperror.Validation("persona title is required")
	}

	sentTime := req.SentTime
	if sentTime == "" {
		sentTime = time.Now().UTC().Format(time.RFC3339)
	}

	message := entity.Message{
		Role:           req.Role,
		Content:        req.Content,
		SentTime:       sentTime,
		ID:             req.Id,
		UID:            req.UID,
		UserEmail:      req.UserEmail,
		Persona:        &persona,
		ConversationID: req.ConversationId,
		Suggestions:    req.Suggestions,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.ChatDocumentRepository().AppendMessage(ctx, req.UID, req.UserEmail, persona, message)
	if err != nil {
		return nil, apperror.PersistenceFault("failed to store chat message", err)
	}

	return documentToResponse(doc), nil
}

func (s *chatStoreService) AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.ChatDocumentRepository().AppendMessage(ctx, uid, userEmail, persona, message); err != nil {
		return apperror.PersistenceFault("failed to store chat message", err)
	}
	return nil
}

func (s *chatStoreService) GetChatsByUID(ctx context.Context, uid string) ([]*dto.ChatDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.ChatDocumentRepository().FindAll(ctx,
		specification.ChatsOwnedBy{UID: uid},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.PersistenceFault("failed to load chat documents", err)
	}

	out := make([]*dto.ChatDocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = documentToResponse(doc)
	}
	return out, nil
}
