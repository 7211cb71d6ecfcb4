package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/token"
	"persona-chat-be/internal/repository/memory"
	"persona-chat-be/internal/websocket"
	"persona-chat-be/pkg/completion"
	"persona-chat-be/pkg/store"
)

// StreamDelivery pushes frames to a user's live connections. Implemented by
// the websocket hub; nil disables streaming delivery.
type StreamDelivery interface {
	Send(uid string, frame websocket.Frame)
}

// IChatSessionService drives one user-initiated send through optimistic
// local update, model invocation and persistence.
type IChatSessionService interface {
	SendMessage(ctx context.Context, uid, email string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	NewConversation(ctx context.Context, uid string, persona *dto.PersonaPayload) (int, error)
	ListConversations(ctx context.Context, uid string) ([]entity.Conversation, error)
}

type chatSessionService struct {
	sessionRepo      *memory.SessionStateRepository
	provider         completion.Provider
	chatStore        IChatStoreService
	publisherService IPublisherService
	delivery         StreamDelivery
	logger           logger.ILogger
}

var trailingBoilerplate = regexp.MustCompile(constant.TrailingBoilerplatePattern)

func NewChatSessionService(
	sessionRepo *memory.SessionStateRepository,
	provider completion.Provider,
	chatStore IChatStoreService,
	publisherService IPublisherService,
	delivery StreamDelivery,
	log logger.ILogger,
) IChatSessionService {
	return &chatSessionService{
		sessionRepo:      sessionRepo,
		provider:         provider,
		chatStore:        chatStore,
		publisherService: publisherService,
		delivery:         delivery,
		logger:           log,
	}
}

func (s *chatSessionService) NewConversation(ctx context.Context, uid string, persona *dto.PersonaPayload) (int, error) {
	if uid == "" {
		return 0, apperror.AuthenticationRequired("sign in to start a conversation")
	}
	if persona == nil || persona.Title == "" {
		return 0, apperror.Validation("persona is required")
	}

	state := s.sessionRepo.GetOrCreate(uid)
	return state.NewConversation(personaFromPayload(persona)), nil
}

func (s *chatSessionService) ListConversations(ctx context.Context, uid string) ([]entity.Conversation, error) {
	if uid == "" {
		return nil, apperror.AuthenticationRequired("sign in to view conversations")
	}
	state, ok := s.sessionRepo.Get(uid)
	if !ok {
		return []entity.Conversation{}, nil
	}
	return state.Conversations(), nil
}

// SendMessage runs the full pipeline. The returned response carries the
// finalized assistant reply; partial content is streamed over the hub while
// the model is still generating.
func (s *chatSessionService) SendMessage(ctx context.Context, uid, email string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if uid == "" || email == "" {
		return nil, apperror.AuthenticationRequired("sign in to send messages")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, nil // whitespace-only input is a no-op
	}

	state := s.sessionRepo.GetOrCreate(uid)

	index, persona, err := s.resolveConversation(state, req)
	if err != nil {
		return nil, err
	}
	conv, _ := state.Conversation(index)

	userToken, assistantToken := token.Pair()
	now := time.Now().UTC().Format(time.RFC3339)

	userMsg := entity.Message{
		Role:           constant.MessageRoleUser,
		Content:        content,
		SentTime:       now,
		ID:             userToken,
		UID:            uid,
		UserEmail:      email,
		Persona:        &persona,
		ConversationID: conv.ID,
	}
	placeholder := entity.Message{
		Role:           constant.MessageRoleAssistant,
		Content:        constant.AssistantPlaceholderContent,
		SentTime:       now,
		ID:             assistantToken,
		UID:            uid,
		UserEmail:      email,
		Persona:        &persona,
		ConversationID: conv.ID,
	}

	// Optimistic update: both messages are visible before the model call.
	if err := state.AppendMessages(index, userMsg, placeholder); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Role+content of every prior message plus the new user message; the
	// placeholder is excluded.
	window := state.ContextWindow(index, assistantToken)

	history := make([]completion.Message, 0, len(window)+1)
	history = append(history, completion.Message{
		Role:    constant.MessageRoleSystem,
		Content: fmt.Sprintf(constant.PersonaSystemPromptTemplate, persona.Title, persona.Bio),
	})
	for _, entry := range window {
		history = append(history, completion.Message{Role: entry.Role, Content: entry.Content})
	}

	var finalContent string
	var finalSuggestions []string

	streamErr := s.provider.Stream(ctx, history, func(partial string, suggestions []string) {
		if suggestions == nil {
			// Still streaming: only the placeholder's content changes.
			if err := state.ReplaceAssistantContent(index, assistantToken, partial, nil); err != nil {
				s.logger.Warn("ChatSession", "Failed to apply stream update", map[string]interface{}{"error": err})
				return
			}
			s.sendFrame(uid, "chat_delta", map[string]interface{}{
				"conversation_index": index,
				"message_id":         assistantToken,
				"content":            partial,
			})
			return
		}

		// Non-nil suggestions mark stream completion.
		finalContent = trailingBoilerplate.ReplaceAllString(partial, "")
		finalSuggestions = suggestions

		if err := state.ReplaceAssistantContent(index, assistantToken, finalContent, finalSuggestions); err != nil {
			s.logger.Warn("ChatSession", "Failed to finalize assistant message", map[string]interface{}{"error": err})
		}
		s.sendFrame(uid, "chat_complete", map[string]interface{}{
			"conversation_index": index,
			"message_id":         assistantToken,
			"content":            finalContent,
			"suggestions":        finalSuggestions,
		})
	})

	if streamErr != nil {
		// The exchange stays visible locally; the placeholder becomes an
		// explicit error message instead of hanging forever.
		if err := state.ReplaceAssistantContent(index, assistantToken, constant.AssistantFailureContent, []string{}); err != nil {
			s.logger.Warn("ChatSession", "Failed to mark assistant failure", map[string]interface{}{"error": err})
		}
		s.logger.Error("ChatSession", "Completion call failed", map[string]interface{}{
			"error": streamErr, "uid": uid, "persona": persona.Title,
		})
		return nil, apperror.UpstreamFault("completion provider failed", streamErr)
	}

	finalAssistant := entity.Message{
		Role:           constant.MessageRoleAssistant,
		Content:        finalContent,
		SentTime:       time.Now().UTC().Format(time.RFC3339),
		ID:             assistantToken,
		UID:            uid,
		UserEmail:      email,
		Persona:        &persona,
		ConversationID: conv.ID,
		Suggestions:    finalSuggestions,
	}

	s.persistExchange(ctx, uid, email, persona, userMsg, finalAssistant)

	sent := messageToPayload(userMsg)
	reply := messageToPayload(finalAssistant)
	return &dto.SendMessageResponse{
		ConversationIndex: index,
		Sent:              &sent,
		Reply:             &reply,
	}, nil
}

// resolveConversation picks the target conversation: an explicit index, the
// newest conversation already bound to the persona, or a fresh one.
func (s *chatSessionService) resolveConversation(state *store.SessionState, req *dto.SendMessageRequest) (int, entity.Persona, error) {
	if req.ConversationIndex != nil {
		conv, ok := state.Conversation(*req.ConversationIndex)
		if !ok {
			return 0, entity.Persona{}, apperror.Validation("conversation index out of range")
		}
		if err := state.SetCurrent(*req.ConversationIndex); err != nil {
			return 0, entity.Persona{}, apperror.Validation(err.Error())
		}
		return *req.ConversationIndex, conv.Persona, nil
	}

	if req.Persona == nil || req.Persona.Title == "" {
		return 0, entity.Persona{}, apperror.Validation("persona is required to start a conversation")
	}
	persona := personaFromPayload(req.Persona)

	conversations := state.Conversations()
	for i := len(conversations) - 1; i >= 0; i-- {
		if conversations[i].Persona.Title == persona.Title {
			if err := state.SetCurrent(i); err != nil {
				return 0, entity.Persona{}, apperror.Validation(err.Error())
			}
			return i, conversations[i].Persona, nil
		}
	}

	return state.NewConversation(persona), persona, nil
}

// persistExchange issues two independent appends, user message first. Store
// failures are logged and swallowed: durability is the non-critical path and
// the local exchange is never rolled back.
func (s *chatSessionService) persistExchange(ctx context.Context, uid, email string, persona entity.Persona, userMsg, assistantMsg entity.Message) {
	stored := 0
	if err := s.chatStore.AppendMessage(ctx, uid, email, persona, userMsg); err != nil {
		s.logger.Error("ChatSession", "Failed to persist user message", map[string]interface{}{
			"error": err, "uid": uid, "persona": persona.Title,
		})
	} else {
		stored++
	}

	if err := s.chatStore.AppendMessage(ctx, uid, email, persona, assistantMsg); err != nil {
		s.logger.Error("ChatSession", "Failed to persist assistant message", map[string]interface{}{
			"error": err, "uid": uid, "persona": persona.Title,
		})
	} else {
		stored++
	}

	if stored == 2 && s.publisherService != nil {
		payload, err := json.Marshal(dto.ExchangeStoredMessage{
			UID:          uid,
			UserEmail:    email,
			PersonaTitle: persona.Title,
			MessageCount: stored,
		})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("ChatSession", "Failed to publish exchange-stored message", map[string]interface{}{"error": err})
			}
		}
	}
}

func (s *chatSessionService) sendFrame(uid, frameType string, data interface{}) {
	if s.delivery == nil {
		return
	}
	s.delivery.Send(uid, websocket.Frame{Type: frameType, Data: data})
}
