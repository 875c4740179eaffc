package models

import (
	"time"

	"github.com/shopassist/backend/internal/domain/shop"
)

// ShopAccountModel is the persistence model for the shop Account domain entity.
type ShopAccountModel struct {
	BaseModel
	Domain        string             `gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken   string             `gorm:"type:text"`
	Scopes        string             `gorm:"type:text"`
	Status        shop.AccountStatus `gorm:"type:varchar(20);not null;default:'installed'"`
	InstalledAt   time.Time          `gorm:"not null"`
	UninstalledAt *time.Time
}

// TableName returns the table name for GORM
func (ShopAccountModel) TableName() string {
	return "shop_accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *ShopAccountModel) ToDomain() *shop.Account {
	return &shop.Account{
		BaseEntity:    m.BaseModel.ToDomain(),
		Domain:        m.Domain,
		AccessToken:   m.AccessToken,
		Scopes:        m.Scopes,
		Status:        m.Status,
		InstalledAt:   m.InstalledAt,
		UninstalledAt: m.UninstalledAt,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *ShopAccountModel) FromDomain(a *shop.Account) {
	m.SetBase(a.BaseEntity)
	m.Domain = a.Domain
	m.AccessToken = a.AccessToken
	m.Scopes = a.Scopes
	m.Status = a.Status
	m.InstalledAt = a.InstalledAt
	m.UninstalledAt = a.UninstalledAt
}
