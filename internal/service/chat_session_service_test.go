package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/memory"
	"persona-chat-be/internal/websocket"
	"persona-chat-be/pkg/completion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger satisfies logger.ILogger for service tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeProvider plays back a scripted stream: a sequence of partials followed
// by a final update carrying suggestions.
type fakeProvider struct {
	partials    []string
	final       string
	suggestions []string
	err         error

	gotHistory []completion.Message
}

func (f *fakeProvider) Stream(ctx context.Context, history []completion.Message, onUpdate completion.UpdateFunc, options ...completion.Option) error {
	f.gotHistory = history
	if f.err != nil {
		return f.err
	}
	for _, p := range f.partials {
		onUpdate(p, nil)
	}
	onUpdate(f.final, f.suggestions)
	return nil
}

func (f *fakeProvider) Chat(ctx context.Context, history []completion.Message, options ...completion.Option) (string, error) {
	return f.final, f.err
}

type fakeChatStore struct {
	mu       sync.Mutex
	appended []entity.Message
	failFor  map[string]error // keyed by message role
}

func (f *fakeChatStore) AppendChatMessage(ctx context.Context, req *dto.StoreChatMessageRequest) (*dto.ChatDocumentResponse, error) {
	return nil, errors.New("not used in these tests")
}

func (f *fakeChatStore) AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[message.Role]; ok {
		return err
	}
	f.appended = append(f.appended, message)
	return nil
}

func (f *fakeChatStore) GetChatsByUID(ctx context.Context, uid string) ([]*dto.ChatDocumentResponse, error) {
	return nil, nil
}

type fakeDelivery struct {
	mu     sync.Mutex
	frames []websocket.Frame
}

func (f *fakeDelivery) Send(uid string, frame websocket.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
}

func (f *fakeDelivery) frameTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.frames))
	for i, fr := range f.frames {
		types[i] = fr.Type
	}
	return types
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

func newSessionFixture(provider completion.Provider, chatStore IChatStoreService) (IChatSessionService, *memory.SessionStateRepository, *fakeDelivery, *fakePublisher) {
	sessionRepo := memory.NewSessionStateRepository()
	delivery := &fakeDelivery{}
	publisher := &fakePublisher{}
	svc := NewChatSessionService(sessionRepo, provider, chatStore, publisher, delivery, nopLogger{})
	return svc, sessionRepo, delivery, publisher
}

func chefGioPayload() *dto.PersonaPayload {
	return &dto.PersonaPayload{Title: "Chef Gio", Bio: "An Italian chef.", Type: "food"}
}

func TestSendMessageRequiresAuthentication(t *testing.T) {
	svc, _, _, _ := newSessionFixture(&fakeProvider{}, &fakeChatStore{})

	_, err := svc.SendMessage(context.Background(), "", "", &dto.SendMessageRequest{Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthenticationRequired, apperror.KindOf(err))
}

func TestSendMessageWhitespaceIsNoOp(t *testing.T) {
	store := &fakeChatStore{}
	svc, sessionRepo, _, _ := newSessionFixture(&fakeProvider{}, store)

	resp, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "   \n\t ",
		Persona: chefGioPayload(),
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, store.appended)

	// No conversation is created either.
	_, found := sessionRepo.Get("u1")
	assert.False(t, found)
}

func TestSendMessageHappyPath(t *testing.T) {
	provider := &fakeProvider{
		partials:    []string{"Hi", "Hi there"},
		final:       "Hi there!",
		suggestions: []string{"What pasta should I make?", "Tell me about risotto"},
	}
	store := &fakeChatStore{}
	svc, sessionRepo, delivery, publisher := newSessionFixture(provider, store)

	resp, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "Hello!",
		Persona: chefGioPayload(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Identity tokens order the pair, user first.
	assert.Less(t, resp.Sent.Id, resp.Reply.Id)
	assert.Equal(t, "Hello!", resp.Sent.Content)
	assert.Equal(t, "Hi there!", resp.Reply.Content)
	assert.Equal(t, provider.suggestions, resp.Reply.Suggestions)

	// Local state holds exactly one assistant message, fully finalized.
	state, found := sessionRepo.Get("u1")
	require.True(t, found)
	conv, ok := state.Conversation(resp.ConversationIndex)
	require.True(t, ok)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, constant.MessageRoleUser, conv.Messages[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "Hi there!", conv.Messages[1].Content)

	// The model saw the system prompt plus the user turn, never the
	// placeholder.
	require.NotEmpty(t, provider.gotHistory)
	assert.Equal(t, constant.MessageRoleSystem, provider.gotHistory[0].Role)
	assert.Contains(t, provider.gotHistory[0].Content, "Chef Gio")
	for _, m := range provider.gotHistory {
		assert.NotEqual(t, constant.AssistantPlaceholderContent, m.Content)
	}

	// Both halves persisted, user message first, each tagged with the
	// conversation that produced it.
	require.Len(t, store.appended, 2)
	assert.Equal(t, constant.MessageRoleUser, store.appended[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, store.appended[1].Role)
	assert.Equal(t, conv.ID, store.appended[0].ConversationID)
	assert.Equal(t, conv.ID, store.appended[1].ConversationID)
	assert.NotZero(t, conv.ID)

	// Streamed deltas then completion over the hub.
	types := delivery.frameTypes()
	require.NotEmpty(t, types)
	assert.Equal(t, "chat_complete", types[len(types)-1])
	for _, ft := range types[:len(types)-1] {
		assert.Equal(t, "chat_delta", ft)
	}

	// Persisted exchange announced on the bus.
	assert.Len(t, publisher.payloads, 1)
}

func TestSendMessageStripsTrailingBoilerplate(t *testing.T) {
	provider := &fakeProvider{
		final:       "Carbonara needs guanciale.\n\nWhat kind of pasta do you prefer?\n- Fresh\n- Dried",
		suggestions: []string{},
	}
	svc, _, _, _ := newSessionFixture(provider, &fakeChatStore{})

	resp, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "How do I make carbonara?",
		Persona: chefGioPayload(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carbonara needs guanciale.", resp.Reply.Content)
}

func TestSendMessageReusesConversationForSamePersona(t *testing.T) {
	provider := &fakeProvider{final: "ok", suggestions: []string{}}
	svc, sessionRepo, _, _ := newSessionFixture(provider, &fakeChatStore{})

	first, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "first", Persona: chefGioPayload(),
	})
	require.NoError(t, err)

	second, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "second", Persona: chefGioPayload(),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationIndex, second.ConversationIndex)

	state, _ := sessionRepo.Get("u1")
	assert.Equal(t, 1, state.Len())
	conv, _ := state.Conversation(first.ConversationIndex)
	assert.Len(t, conv.Messages, 4)
}

func TestSendMessageExplicitIndexOutOfRange(t *testing.T) {
	svc, _, _, _ := newSessionFixture(&fakeProvider{final: "ok", suggestions: []string{}}, &fakeChatStore{})

	idx := 5
	_, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content:           "hi",
		ConversationIndex: &idx,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSendMessageWithoutPersonaOrIndex(t *testing.T) {
	svc, _, _, _ := newSessionFixture(&fakeProvider{final: "ok", suggestions: []string{}}, &fakeChatStore{})

	_, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "hi",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSendMessageProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	store := &fakeChatStore{}
	svc, sessionRepo, _, publisher := newSessionFixture(provider, store)

	_, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "hi", Persona: chefGioPayload(),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstreamFault, apperror.KindOf(err))

	// The exchange stays visible locally with an explicit failure message.
	state, found := sessionRepo.Get("u1")
	require.True(t, found)
	conv, _ := state.Conversation(0)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "hi", conv.Messages[0].Content)
	assert.Equal(t, constant.AssistantFailureContent, conv.Messages[1].Content)

	// Nothing persisted, nothing announced.
	assert.Empty(t, store.appended)
	assert.Empty(t, publisher.payloads)
}

func TestSendMessageSwallowsStoreFailures(t *testing.T) {
	provider := &fakeProvider{final: "reply", suggestions: []string{}}
	store := &fakeChatStore{failFor: map[string]error{
		constant.MessageRoleUser: errors.New("db down"),
	}}
	svc, _, _, publisher := newSessionFixture(provider, store)

	resp, err := svc.SendMessage(context.Background(), "u1", "u1@example.com", &dto.SendMessageRequest{
		Content: "hi", Persona: chefGioPayload(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "reply", resp.Reply.Content)

	// The assistant append is still attempted independently.
	require.Len(t, store.appended, 1)
	assert.Equal(t, constant.MessageRoleAssistant, store.appended[0].Role)

	// Incomplete persistence is not announced.
	assert.Empty(t, publisher.payloads)
}

func TestNewConversationAndList(t *testing.T) {
	svc, _, _, _ := newSessionFixture(&fakeProvider{}, &fakeChatStore{})
	ctx := context.Background()

	_, err := svc.NewConversation(ctx, "", chefGioPayload())
	assert.Equal(t, apperror.KindAuthenticationRequired, apperror.KindOf(err))

	_, err = svc.NewConversation(ctx, "u1", nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	idx, err := svc.NewConversation(ctx, "u1", chefGioPayload())
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	convs, err := svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "Chef Gio", convs[0].Persona.Title)

	// Unknown users get an empty list, not an error.
	convs, err = svc.ListConversations(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, convs)
}
