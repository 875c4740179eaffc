package conversation

import (
	"context"

	"github.com/google/uuid"
)

// UserProfileRepository persists shopper profiles
type UserProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	FindByShopAndCustomer(ctx context.Context, shop, customerID string) (*UserProfile, error)
	FindByShopAndSession(ctx context.Context, shop, sessionID string) (*UserProfile, error)
	Save(ctx context.Context, profile *UserProfile) error
}

// ChatSessionRepository persists chat sessions
type ChatSessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ChatSession, error)
	FindOpenByProfile(ctx context.Context, profileID uuid.UUID) (*ChatSession, error)
	Save(ctx context.Context, session *ChatSession) error
}

// ChatMessageRepository persists chat messages
type ChatMessageRepository interface {
	Append(ctx context.Context, message *ChatMessage) error
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

// RedactionResult reports what one redaction transaction removed
type RedactionResult struct {
	ProfilesDeleted int64
	SessionsDeleted int64
	MessagesDeleted int64
}

// RedactionRepository removes a shopper's entire entity graph inside a
// single transaction. The cascade is driven by explicit ID sets (messages
// by session IDs, then sessions, then profiles) so atomicity and ordering
// do not depend on store-level cascade rules. Zero matches is success:
// the operations are idempotent and safe to retry.
type RedactionRepository interface {
	// DeleteCustomerData removes every profile for shop+customerID together
	// with all owned sessions and messages, all-or-nothing.
	DeleteCustomerData(ctx context.Context, shop, customerID string) (RedactionResult, error)

	// DeleteShopData removes every profile for the shop, for shop-wide
	// erasure after an uninstall grace period.
	DeleteShopData(ctx context.Context, shop string) (RedactionResult, error)
}
