package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormChatMessageRepository implements ChatMessageRepository using GORM
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a new GormChatMessageRepository
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Append stores a new message
func (r *GormChatMessageRepository) Append(ctx context.Context, message *conversation.ChatMessage) error {
	model := &models.ChatMessageModel{}
	model.FromDomain(message)
	return r.db.WithContext(ctx).Create(model).Error
}

// CountBySession returns the number of messages in a session
func (r *GormChatMessageRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessageModel{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

var _ conversation.ChatMessageRepository = (*GormChatMessageRepository)(nil)
