// Package conversation holds chat messages and the history stores that
// persist them.
package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation. Messages are never mutated
// after creation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a time-ordered ID.
func NewMessage(role Role, content string) Message {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Message{
		ID:        id.String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// History owns the message list. The assistant only appends and reads.
type History interface {
	Append(ctx context.Context, msg Message) error
	Messages(ctx context.Context) ([]Message, error)
	Clear(ctx context.Context) error
}
