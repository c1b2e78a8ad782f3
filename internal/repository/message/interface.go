package message

import (
	"context"

	"github.com/homellm/homechat/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	// Append inserts a message and, in the same transaction, bumps the
	// parent chat's message_count and updated_at.
	Append(ctx context.Context, chatID uint, role, content string) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
}
