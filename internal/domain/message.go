// File: internal/domain/message.go
package domain

import "time"

// Message roles. Messages are append-only; once persisted they are
// never edited or reordered.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a chat.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"` // The ID of the chat this message belongs to
	Role      string    `gorm:"not null" json:"role"`          // "user" or "assistant"
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
