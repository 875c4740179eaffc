package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/domain/shop"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShopAccountRepository implements AccountRepository using GORM
type GormShopAccountRepository struct {
	db *gorm.DB
}

// NewGormShopAccountRepository creates a new GormShopAccountRepository
func NewGormShopAccountRepository(db *gorm.DB) *GormShopAccountRepository {
	return &GormShopAccountRepository{db: db}
}

// FindByDomain finds an account by its shop domain
func (r *GormShopAccountRepository) FindByDomain(ctx context.Context, domain string) (*shop.Account, error) {
	if domain == "" {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop domain cannot be empty")
	}
	var model models.ShopAccountModel
	if err := r.db.WithContext(ctx).
		Where("domain = ?", strings.ToLower(domain)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates an account
func (r *GormShopAccountRepository) Save(ctx context.Context, account *shop.Account) error {
	model := &models.ShopAccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ shop.AccountRepository = (*GormShopAccountRepository)(nil)
