package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormChatSessionRepository implements ChatSessionRepository using GORM
type GormChatSessionRepository struct {
	db *gorm.DB
}

// NewGormChatSessionRepository creates a new GormChatSessionRepository
func NewGormChatSessionRepository(db *gorm.DB) *GormChatSessionRepository {
	return &GormChatSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormChatSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*conversation.ChatSession, error) {
	var model models.ChatSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByProfile finds the profile's current open session, if any
func (r *GormChatSessionRepository) FindOpenByProfile(ctx context.Context, profileID uuid.UUID) (*conversation.ChatSession, error) {
	var model models.ChatSessionModel
	if err := r.db.WithContext(ctx).
		Where("user_profile_id = ? AND status = ?", profileID, conversation.SessionStatusOpen).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates a session
func (r *GormChatSessionRepository) Save(ctx context.Context, session *conversation.ChatSession) error {
	model := &models.ChatSessionModel{}
	model.FromDomain(session)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ conversation.ChatSessionRepository = (*GormChatSessionRepository)(nil)
