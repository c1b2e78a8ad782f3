// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/homellm/homechat/internal/domain"
	"github.com/homellm/homechat/internal/repository/chat"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Append inserts a message for an existing chat. The insert, the
// message_count increment and the updated_at touch happen in a single
// transaction: there is no state in which the counter and the stored
// rows disagree.
func (r *gormMessageRepository) Append(ctx context.Context, chatID uint, role, content string) (*domain.Message, error) {
	if err := validateAppendInput(chatID, role, content); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	msg := &domain.Message{ChatID: chatID, Role: role, Content: content}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent domain.Chat
		if err := tx.First(&parent, chatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return chat.ErrChatNotFound
			}
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Chat{}).
			Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"message_count": gorm.Expr("message_count + 1"),
				"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
			}).Error
	})
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, chat.ErrChatNotFound
		}
		log.Printf("[MessageRepository] Database error appending message to chat ID %d: %v", chatID, err)
		return nil, errors.New("database error appending message")
	}

	log.Printf("[MessageRepository] Message %d appended to chat %d", msg.ID, chatID)
	return msg, nil
}

// FindByChatID returns a chat's messages in insertion order.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, chat.ErrChatNotFound
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error fetching messages for chat ID %d: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	if chatID == 0 {
		return 0, chat.ErrChatNotFound
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for chat ID %d: %v", chatID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

// ===== VALIDATION HELPERS =====

func validateAppendInput(chatID uint, role, content string) error {
	if chatID == 0 {
		return errors.New("chat ID is required")
	}
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return fmt.Errorf("invalid role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
