package service

import (
	"context"
	"errors"
	"testing"

	"persona-chat-be/internal/apperror"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatDocumentRepository accumulates appended messages into one in-memory
// document per (uid, persona title).
type fakeChatDocumentRepository struct {
	contract.ChatDocumentRepository

	docs      map[string]*entity.ChatDocument
	appendErr error
	findAll   []*entity.ChatDocument
	findErr   error
}

func newFakeChatDocumentRepository() *fakeChatDocumentRepository {
	return &fakeChatDocumentRepository{docs: map[string]*entity.ChatDocument{}}
}

func (f *fakeChatDocumentRepository) AppendMessage(ctx context.Context, uid, userEmail string, persona entity.Persona, message entity.Message) (*entity.ChatDocument, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	key := uid + "|" + persona.Title
	doc, ok := f.docs[key]
	if !ok {
		doc = &entity.ChatDocument{
			Id:           uuid.New(),
			UID:          uid,
			UserEmail:    userEmail,
			PersonaTitle: persona.Title,
			Persona:      persona,
		}
		f.docs[key] = doc
	}
	doc.Messages = append(doc.Messages, message)
	return doc, nil
}

func (f *fakeChatDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatDocument, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findAll, nil
}

type fakeChatUow struct {
	unitofwork.UnitOfWork
	chats contract.ChatDocumentRepository
}

func (f *fakeChatUow) ChatDocumentRepository() contract.ChatDocumentRepository { return f.chats }

func newChatStoreFixture(repo contract.ChatDocumentRepository) IChatStoreService {
	return NewChatStoreService(&fakeUowFactory{uow: &fakeChatUow{chats: repo}})
}

func storeRequest(role, content string) *dto.StoreChatMessageRequest {
	return &dto.StoreChatMessageRequest{
		Role:      role,
		Content:   content,
		UID:       "u1",
		UserEmail: "u1@example.com",
		Persona:   &dto.PersonaPayload{Title: "Chef Gio", Type: "food"},
	}
}

func TestAppendChatMessageAccumulates(t *testing.T) {
	repo := newFakeChatDocumentRepository()
	svc := newChatStoreFixture(repo)
	ctx := context.Background()

	first, err := svc.AppendChatMessage(ctx, storeRequest("user", "hello"))
	require.NoError(t, err)
	require.Len(t, first.Messages, 1)

	second, err := svc.AppendChatMessage(ctx, storeRequest("assistant", "hi there"))
	require.NoError(t, err)
	require.Len(t, second.Messages, 2)

	// Same document both times.
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, "hello", second.Messages[0].Content)
	assert.Equal(t, "hi there", second.Messages[1].Content)
	assert.Equal(t, "Chef Gio", second.Persona.Title)
}

func TestAppendChatMessageCarriesConversationID(t *testing.T) {
	repo := newFakeChatDocumentRepository()
	svc := newChatStoreFixture(repo)

	req := storeRequest("user", "hello")
	req.ConversationId = 4242
	resp, err := svc.AppendChatMessage(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Messages, 1)
	assert.Equal(t, int64(4242), resp.Messages[0].ConversationId)
	stored := repo.docs["u1|Chef Gio"].Messages
	require.Len(t, stored, 1)
	assert.Equal(t, int64(4242), stored[0].ConversationID)
}

func TestAppendChatMessageDefaultsSentTime(t *testing.T) {
	repo := newFakeChatDocumentRepository()
	svc := newChatStoreFixture(repo)

	resp, err := svc.AppendChatMessage(context.Background(), storeRequest("user", "hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Messages[0].SentTime)
}

func TestAppendChatMessageRequiresPersonaTitle(t *testing.T) {
	svc := newChatStoreFixture(newFakeChatDocumentRepository())

	req := storeRequest("user", "hello")
	req.Persona = &dto.PersonaPayload{}
	_, err := svc.AppendChatMessage(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAppendChatMessageWrapsRepositoryError(t *testing.T) {
	repo := newFakeChatDocumentRepository()
	repo.appendErr = errors.New("db down")
	svc := newChatStoreFixture(repo)

	_, err := svc.AppendChatMessage(context.Background(), storeRequest("user", "hello"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistenceFault, apperror.KindOf(err))
}

func TestGetChatsByUID(t *testing.T) {
	repo := newFakeChatDocumentRepository()
	repo.findAll = []*entity.ChatDocument{
		{
			Id:           uuid.New(),
			UID:          "u1",
			UserEmail:    "u1@example.com",
			PersonaTitle: "Chef Gio",
			Persona:      entity.NewBuiltinPersona("Chef Gio", "bio", "food"),
			Messages:     []entity.Message{{Role: "user", Content: "hello", ID: 1}},
		},
	}
	svc := newChatStoreFixture(repo)

	chats, err := svc.GetChatsByUID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "Chef Gio", chats[0].Persona.Title)
	require.Len(t, chats[0].Messages, 1)
	assert.Equal(t, "hello", chats[0].Messages[0].Content)
}
