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

// GormUserProfileRepository implements UserProfileRepository using GORM
type GormUserProfileRepository struct {
	db *gorm.DB
}

// NewGormUserProfileRepository creates a new GormUserProfileRepository
func NewGormUserProfileRepository(db *gorm.DB) *GormUserProfileRepository {
	return &GormUserProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormUserProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*conversation.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShopAndCustomer finds a profile by shop and platform customer ID
func (r *GormUserProfileRepository) FindByShopAndCustomer(ctx context.Context, shop, customerID string) (*conversation.UserProfile, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND customer_id = ?", shop, customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShopAndSession finds a profile by shop and storefront session ID
func (r *GormUserProfileRepository) FindByShopAndSession(ctx context.Context, shop, sessionID string) (*conversation.UserProfile, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_ID", "Session ID cannot be empty")
	}
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND session_id = ?", shop, sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates a profile
func (r *GormUserProfileRepository) Save(ctx context.Context, profile *conversation.UserProfile) error {
	model := &models.UserProfileModel{}
	model.FromDomain(profile)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ conversation.UserProfileRepository = (*GormUserProfileRepository)(nil)
