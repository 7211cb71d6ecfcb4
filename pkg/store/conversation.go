package store

import (
	"fmt"
	"sync"
	"time"

	"persona-chat-be/internal/entity"
)

// SessionState holds one user's ordered conversation list and the current
// conversation pointer for the lifetime of their session. Message history is
// session-local; it is not rehydrated from the durable store.
//
// Mutation happens only through the methods below. The model is single
// writer per session; the lock guards against a stray concurrent send from
// a duplicate tab.
type SessionState struct {
	mu            sync.Mutex
	conversations []*entity.Conversation
	current       int
}

func NewSessionState() *SessionState {
	return &SessionState{}
}

// NewConversation appends an empty conversation bound to persona and makes
// it current. Returns the new conversation's index.
func (s *SessionState) NewConversation(persona entity.Persona) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &entity.Conversation{
		ID:        time.Now().UnixMilli(),
		Persona:   persona,
		Messages:  make([]entity.Message, 0, 16),
		CreatedAt: time.Now(),
	}
	s.conversations = append(s.conversations, conv)
	s.current = len(s.conversations) - 1
	return s.current
}

// SetCurrent moves the current pointer.
func (s *SessionState) SetCurrent(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.conversations) {
		return fmt.Errorf("conversation index %d out of range", index)
	}
	s.current = index
	return nil
}

func (s *SessionState) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SessionState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// Conversation returns a copy of the conversation at index.
func (s *SessionState) Conversation(index int) (entity.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.conversations) {
		return entity.Conversation{}, false
	}
	return copyConversation(s.conversations[index]), true
}

// Conversations returns copies of all conversations in order.
func (s *SessionState) Conversations() []entity.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = copyConversation(c)
	}
	return out
}

// AppendMessages replaces the message list at index with the concatenation
// of the old list and messages.
func (s *SessionState) AppendMessages(index int, messages ...entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.conversations) {
		return fmt.Errorf("conversation index %d out of range", index)
	}
	conv := s.conversations[index]
	conv.Messages = append(conv.Messages, messages...)
	return nil
}

// ReplaceAssistantContent rewrites the content (and optionally suggestions)
// of the message identified by messageID. Only the targeted message changes;
// everything else in the list is untouched.
func (s *SessionState) ReplaceAssistantContent(index int, messageID int64, content string, suggestions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.conversations) {
		return fmt.Errorf("conversation index %d out of range", index)
	}
	conv := s.conversations[index]
	for i := range conv.Messages {
		if conv.Messages[i].ID == messageID {
			conv.Messages[i].Content = content
			if suggestions != nil {
				conv.Messages[i].Suggestions = suggestions
			}
			return nil
		}
	}
	return fmt.Errorf("message %d not found in conversation %d", messageID, index)
}

// ContextWindow projects the conversation's messages to role+content pairs
// in chronological order, skipping any message whose ID appears in exclude.
func (s *SessionState) ContextWindow(index int, exclude ...int64) []entity.ContextEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.conversations) {
		return nil
	}
	skip := make(map[int64]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	conv := s.conversations[index]
	out := make([]entity.ContextEntry, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		if _, ok := skip[m.ID]; ok {
			continue
		}
		out = append(out, entity.ContextEntry{Role: m.Role, Content: m.Content})
	}
	return out
}

func copyConversation(c *entity.Conversation) entity.Conversation {
	out := *c
	out.Messages = make([]entity.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}
