// File: internal/domain/chat.go
package domain

import "time"

// DefaultTitle is the placeholder title a chat carries until its first
// exchange produces a real one.
const DefaultTitle = "New Chat"

// Chat represents a single conversation thread.
type Chat struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Model        string    `gorm:"not null" json:"model"`
	MessageCount int       `gorm:"not null;default:0" json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `gorm:"index" json:"updated_at"`
}
