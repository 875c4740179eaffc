// Package shop models the installing merchant: the tenant identity every
// profile, session and audit row is scoped to.
package shop

import (
	"context"
	"strings"
	"time"

	"github.com/shopassist/backend/internal/domain/shared"
)

// AccountStatus is the install lifecycle state of a shop
type AccountStatus string

const (
	AccountStatusInstalled   AccountStatus = "installed"
	AccountStatusUninstalled AccountStatus = "uninstalled"
)

// Account is one installed shop. AccessToken is the platform OAuth token;
// it is cleared the moment the app is uninstalled.
type Account struct {
	shared.BaseEntity
	Domain        string
	AccessToken   string
	Scopes        string
	Status        AccountStatus
	InstalledAt   time.Time
	UninstalledAt *time.Time
}

// NewAccount records a fresh install
func NewAccount(domain, accessToken, scopes string) (*Account, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop domain cannot be empty")
	}
	base := shared.NewBaseEntity()
	return &Account{
		BaseEntity:  base,
		Domain:      domain,
		AccessToken: accessToken,
		Scopes:      scopes,
		Status:      AccountStatusInstalled,
		InstalledAt: base.CreatedAt,
	}, nil
}

// Uninstall clears the OAuth credential and marks the shop gone.
// Idempotent: a second uninstall notification is a no-op.
func (a *Account) Uninstall() {
	if a.Status == AccountStatusUninstalled {
		return
	}
	now := time.Now()
	a.Status = AccountStatusUninstalled
	a.AccessToken = ""
	a.UninstalledAt = &now
	a.UpdatedAt = now
}

// AccountRepository persists shop accounts
type AccountRepository interface {
	FindByDomain(ctx context.Context, domain string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}
