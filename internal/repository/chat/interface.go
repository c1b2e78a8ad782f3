package chat

import (
	"context"

	"github.com/homellm/homechat/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id uint) (*domain.Chat, error)
	FindAll(ctx context.Context) ([]domain.Chat, error)
	Rename(ctx context.Context, chatID uint, title string) (*domain.Chat, error)
	Delete(ctx context.Context, chatID uint) error
}
