package implementation

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/model"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB connects to the database named by DB_CONNECTION_STRING. Tests
// are skipped when it is not set.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../../.env: %v", err)
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping database test")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(&model.ChatDocument{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func cleanupChatDocuments(t *testing.T, db *gorm.DB, uid string) {
	t.Helper()
	db.Unscoped().Where("uid = ?", uid).Delete(&model.ChatDocument{})
}

func testMessage(role, content string, id int64) entity.Message {
	return entity.Message{Role: role, Content: content, ID: id}
}

func TestAppendMessageMergeOrCreate(t *testing.T) {
	db := setupTestDB(t)
	uid := fmt.Sprintf("it-user-%d", os.Getpid())
	t.Cleanup(func() { cleanupChatDocuments(t, db, uid) })

	repo := NewChatDocumentRepository(db)
	persona := entity.NewBuiltinPersona("Chef Gio", "An Italian chef.", "food")
	ctx := context.Background()

	// First append creates the document with a singleton message array.
	doc, err := repo.AppendMessage(ctx, uid, "it@example.com", persona, testMessage("user", "hello", 1))
	require.NoError(t, err)
	require.Len(t, doc.Messages, 1)

	// Second append merges into the same document.
	doc2, err := repo.AppendMessage(ctx, uid, "it@example.com", persona, testMessage("assistant", "hi", 2))
	require.NoError(t, err)
	assert.Equal(t, doc.Id, doc2.Id)
	require.Len(t, doc2.Messages, 2)
	assert.Equal(t, "hello", doc2.Messages[0].Content)
	assert.Equal(t, "hi", doc2.Messages[1].Content)

	// A different persona gets its own document.
	other := entity.NewBuiltinPersona("Ada", "An engineer.", "technology")
	doc3, err := repo.AppendMessage(ctx, uid, "it@example.com", other, testMessage("user", "hey", 3))
	require.NoError(t, err)
	assert.NotEqual(t, doc.Id, doc3.Id)

	count, err := repo.Count(ctx, specification.ChatsOwnedBy{UID: uid})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAppendMessageConcurrentFirstAppends(t *testing.T) {
	db := setupTestDB(t)
	uid := fmt.Sprintf("it-race-%d", os.Getpid())
	t.Cleanup(func() { cleanupChatDocuments(t, db, uid) })

	repo := NewChatDocumentRepository(db)
	persona := entity.NewBuiltinPersona("Chef Gio", "An Italian chef.", "food")
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.AppendMessage(ctx, uid, "it@example.com", persona,
				testMessage("user", fmt.Sprintf("msg-%d", i), int64(i+1)))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	// Exactly one document survives with all messages merged.
	docs, err := repo.FindAll(ctx, specification.ChatsOwnedBy{UID: uid})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Len(t, docs[0].Messages, writers)
}
