// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// Create persists a new chat. The caller supplies title and model; the
// identifier and timestamps are assigned by the store.
func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error during chat creation: %v", err)
		return nil, errors.New("database error creating chat")
	}

	log.Printf("[ChatRepository] Chat created with ID %d (%q)", chat.ID, chat.Title)
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	return r.handleFindError(err, &chat, "FindByID")
}

// FindAll returns every chat, most recently touched first. The client's
// "recent chats" list relies on this ordering.
func (r *gormChatRepository) FindAll(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error fetching chats: %v", err)
		return nil, errors.New("database error fetching chats")
	}
	return chats, nil
}

// Rename updates a chat's title and touches updated_at. Renaming to the
// current title is a permitted no-op.
func (r *gormChatRepository) Rename(ctx context.Context, chatID uint, title string) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, ErrChatNotFound
	}
	if err := r.validateChatTitle(title); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error renaming chat ID %d: %v", chatID, result.Error)
		return nil, errors.New("database error renaming chat")
	}
	if result.RowsAffected == 0 {
		return nil, ErrChatNotFound
	}

	return r.FindByID(ctx, chatID)
}

// Delete removes a chat and all of its messages in one transaction, so
// no orphaned messages can survive. A second delete of the same id
// reports ErrChatNotFound rather than silently succeeding.
func (r *gormChatRepository) Delete(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return ErrChatNotFound
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Chat{}, chatID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrChatNotFound) {
			return ErrChatNotFound
		}
		log.Printf("[ChatRepository] Database error deleting chat ID %d: %v", chatID, err)
		return errors.New("database error deleting chat")
	}

	log.Printf("[ChatRepository] Chat deleted: ID %d", chatID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if strings.TrimSpace(chat.Model) == "" {
		return errors.New("model is required")
	}
	if err := r.validateChatTitle(chat.Title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}
	return nil
}

func (r *gormChatRepository) validateChatTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

// handleFindError maps gorm's not-found onto the package sentinel and
// keeps raw database errors out of callers.
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
