package conversation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/shared"
)

// SessionStatus is the lifecycle state of a chat session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// ChatSession is one conversational thread. It is owned by exactly one
// UserProfile and exists only to support it: redaction removes sessions
// together with their profile.
type ChatSession struct {
	shared.BaseEntity
	UserProfileID uuid.UUID
	Shop          string
	Status        SessionStatus
	ClosedAt      *time.Time
}

// NewChatSession opens a session for a profile
func NewChatSession(profile *UserProfile) *ChatSession {
	return &ChatSession{
		BaseEntity:    shared.NewBaseEntity(),
		UserProfileID: profile.ID,
		Shop:          profile.Shop,
		Status:        SessionStatusOpen,
	}
}

// Close marks the session closed
func (s *ChatSession) Close() {
	if s.Status == SessionStatusClosed {
		return
	}
	now := time.Now()
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
}
