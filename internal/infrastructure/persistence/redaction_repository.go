package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRedactionRepository implements RedactionRepository using GORM.
// The cascade runs bottom-up over explicit ID sets inside a single
// transaction, so a failure at any step rolls back the whole erasure and
// no orphaned session or message can survive a committed one. The
// usage_snapshots table is deliberately never touched here.
type GormRedactionRepository struct {
	db *Database
}

// NewGormRedactionRepository creates a new GormRedactionRepository
func NewGormRedactionRepository(db *Database) *GormRedactionRepository {
	return &GormRedactionRepository{db: db}
}

// DeleteCustomerData removes every profile matching shop+customerID along
// with all owned sessions and messages. Zero matches is a successful
// no-op, which makes retries safe.
func (r *GormRedactionRepository) DeleteCustomerData(ctx context.Context, shop, customerID string) (conversation.RedactionResult, error) {
	return r.cascade(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("shop = ? AND customer_id = ?", shop, customerID)
	})
}

// DeleteShopData removes every profile for the shop regardless of
// customer, for shop-wide erasure requests.
func (r *GormRedactionRepository) DeleteShopData(ctx context.Context, shop string) (conversation.RedactionResult, error) {
	return r.cascade(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("shop = ?", shop)
	})
}

func (r *GormRedactionRepository) cascade(ctx context.Context, profileScope func(*gorm.DB) *gorm.DB) (conversation.RedactionResult, error) {
	var result conversation.RedactionResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)

		var profileIDs []uuid.UUID
		if err := profileScope(tx.Model(&models.UserProfileModel{})).
			Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		if len(profileIDs) == 0 {
			return nil
		}

		var sessionIDs []uuid.UUID
		if err := tx.Model(&models.ChatSessionModel{}).
			Where("user_profile_id IN ?", profileIDs).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}

		if len(sessionIDs) > 0 {
			res := tx.Where("session_id IN ?", sessionIDs).Delete(&models.ChatMessageModel{})
			if res.Error != nil {
				return res.Error
			}
			result.MessagesDeleted = res.RowsAffected

			res = tx.Where("id IN ?", sessionIDs).Delete(&models.ChatSessionModel{})
			if res.Error != nil {
				return res.Error
			}
			result.SessionsDeleted = res.RowsAffected
		}

		res := tx.Where("id IN ?", profileIDs).Delete(&models.UserProfileModel{})
		if res.Error != nil {
			return res.Error
		}
		result.ProfilesDeleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return conversation.RedactionResult{}, err
	}
	return result, nil
}

var _ conversation.RedactionRepository = (*GormRedactionRepository)(nil)
