// File: internal/repository/chat/chat_repository_test.go
package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Chat{}, &domain.Message{}))
	return db
}

func TestChatRepository_CreateAndFind(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Chat{Title: "New Chat", Model: "llama2:7b"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 0, created.MessageCount)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Chat", found.Title)
	assert.Equal(t, "llama2:7b", found.Model)
}

func TestChatRepository_CreateRejectsInvalidInput(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Chat{Title: "", Model: "llama2:7b"})
	assert.Error(t, err)

	_, err = repo.Create(ctx, &domain.Chat{Title: "ok title", Model: "  "})
	assert.Error(t, err)
}

func TestChatRepository_FindByIDNotFound(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = repo.FindByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestChatRepository_FindAllOrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Chat{Title: "first", Model: "m"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Chat{Title: "second", Model: "m"})
	require.NoError(t, err)

	// Touch the older chat so it becomes the most recent.
	require.NoError(t, db.Model(&domain.Chat{}).
		Where("id = ?", first.ID).
		Update("updated_at", time.Now().Add(time.Hour)).Error)

	chats, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
}

func TestChatRepository_Rename(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Chat{Title: "New Chat", Model: "m"})
	require.NoError(t, err)

	renamed, err := repo.Rename(ctx, created.ID, "Networking basics")
	require.NoError(t, err)
	assert.Equal(t, "Networking basics", renamed.Title)

	// Renaming to the same title is a no-op, not an error.
	again, err := repo.Rename(ctx, created.ID, "Networking basics")
	require.NoError(t, err)
	assert.Equal(t, "Networking basics", again.Title)
}

func TestChatRepository_RenameValidation(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Chat{Title: "New Chat", Model: "m"})
	require.NoError(t, err)

	_, err = repo.Rename(ctx, created.ID, "   ")
	assert.Error(t, err)

	_, err = repo.Rename(ctx, 9999, "valid title")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestChatRepository_DeleteCascadesAndReportsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Chat{Title: "doomed", Model: "m"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Message{ChatID: created.ID, Role: domain.RoleUser, Content: "hi"}).Error)
	require.NoError(t, db.Create(&domain.Message{ChatID: created.ID, Role: domain.RoleAssistant, Content: "hello"}).Error)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	var orphans int64
	require.NoError(t, db.Model(&domain.Message{}).Where("chat_id = ?", created.ID).Count(&orphans).Error)
	assert.Zero(t, orphans, "messages must not survive their chat")

	// Double delete reports not-found instead of silently succeeding.
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrChatNotFound)
}
