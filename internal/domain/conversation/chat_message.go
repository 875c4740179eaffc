package conversation

import (
	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/shared"
)

// MessageRole identifies who produced a message
type MessageRole string

const (
	RoleShopper   MessageRole = "shopper"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn in a session, the finest-grained unit of
// personal data this system stores.
type ChatMessage struct {
	shared.BaseEntity
	SessionID uuid.UUID
	Role      MessageRole
	Content   string
}

// NewChatMessage appends a turn to a session
func NewChatMessage(sessionID uuid.UUID, role MessageRole, content string) (*ChatMessage, error) {
	if content == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message content cannot be empty")
	}
	if role != RoleShopper && role != RoleAssistant {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Unknown message role")
	}
	return &ChatMessage{
		BaseEntity: shared.NewBaseEntity(),
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
	}, nil
}
