package store

import (
	"testing"

	"persona-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPersona(title string) entity.Persona {
	return entity.NewBuiltinPersona(title, "bio", "general")
}

func TestNewConversationBecomesCurrent(t *testing.T) {
	s := NewSessionState()

	first := s.NewConversation(testPersona("Aria"))
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, s.Current())

	second := s.NewConversation(testPersona("Chef Gio"))
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, s.Current())
	assert.Equal(t, 2, s.Len())
}

func TestSetCurrentRange(t *testing.T) {
	s := NewSessionState()
	s.NewConversation(testPersona("Aria"))

	assert.NoError(t, s.SetCurrent(0))
	assert.Error(t, s.SetCurrent(1))
	assert.Error(t, s.SetCurrent(-1))
}

func TestAppendMessagesPreservesOrder(t *testing.T) {
	s := NewSessionState()
	idx := s.NewConversation(testPersona("Aria"))

	require.NoError(t, s.AppendMessages(idx,
		entity.Message{ID: 1, Role: "user", Content: "hello"},
		entity.Message{ID: 2, Role: "assistant", Content: "Thinking..."},
	))
	require.NoError(t, s.AppendMessages(idx,
		entity.Message{ID: 3, Role: "user", Content: "again"},
	))

	conv, ok := s.Conversation(idx)
	require.True(t, ok)
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, int64(1), conv.Messages[0].ID)
	assert.Equal(t, int64(2), conv.Messages[1].ID)
	assert.Equal(t, int64(3), conv.Messages[2].ID)
}

func TestAppendMessagesOutOfRange(t *testing.T) {
	s := NewSessionState()
	assert.Error(t, s.AppendMessages(0, entity.Message{ID: 1}))
}

func TestReplaceAssistantContent(t *testing.T) {
	s := NewSessionState()
	idx := s.NewConversation(testPersona("Aria"))

	require.NoError(t, s.AppendMessages(idx,
		entity.Message{ID: 10, Role: "user", Content: "hello"},
		entity.Message{ID: 11, Role: "assistant", Content: "Thinking..."},
	))

	// Partial update leaves suggestions alone.
	require.NoError(t, s.ReplaceAssistantContent(idx, 11, "Hi", nil))
	conv, _ := s.Conversation(idx)
	assert.Equal(t, "Hi", conv.Messages[1].Content)
	assert.Nil(t, conv.Messages[1].Suggestions)

	// Final update sets both.
	require.NoError(t, s.ReplaceAssistantContent(idx, 11, "Hi there!", []string{"Tell me more"}))
	conv, _ = s.Conversation(idx)
	assert.Equal(t, "Hi there!", conv.Messages[1].Content)
	assert.Equal(t, []string{"Tell me more"}, conv.Messages[1].Suggestions)

	// The user message never changes.
	assert.Equal(t, "hello", conv.Messages[0].Content)
}

func TestReplaceAssistantContentUnknownMessage(t *testing.T) {
	s := NewSessionState()
	idx := s.NewConversation(testPersona("Aria"))
	assert.Error(t, s.ReplaceAssistantContent(idx, 99, "x", nil))
}

func TestContextWindowExcludesIds(t *testing.T) {
	s := NewSessionState()
	idx := s.NewConversation(testPersona("Aria"))

	require.NoError(t, s.AppendMessages(idx,
		entity.Message{ID: 1, Role: "user", Content: "first"},
		entity.Message{ID: 2, Role: "assistant", Content: "reply"},
		entity.Message{ID: 3, Role: "user", Content: "second"},
		entity.Message{ID: 4, Role: "assistant", Content: "Thinking..."},
	))

	window := s.ContextWindow(idx, 4)
	require.Len(t, window, 3)
	assert.Equal(t, entity.ContextEntry{Role: "user", Content: "first"}, window[0])
	assert.Equal(t, entity.ContextEntry{Role: "assistant", Content: "reply"}, window[1])
	assert.Equal(t, entity.ContextEntry{Role: "user", Content: "second"}, window[2])
}

func TestConversationReturnsCopy(t *testing.T) {
	s := NewSessionState()
	idx := s.NewConversation(testPersona("Aria"))
	require.NoError(t, s.AppendMessages(idx, entity.Message{ID: 1, Content: "original"}))

	conv, _ := s.Conversation(idx)
	conv.Messages[0].Content = "mutated"

	again, _ := s.Conversation(idx)
	assert.Equal(t, "original", again.Messages[0].Content)
}
