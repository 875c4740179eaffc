// Package conversation models the personal-data entity graph the chat
// engine writes and the compliance pipeline redacts: UserProfile owns
// ChatSession owns ChatMessage.
package conversation

import (
	"strings"

	"github.com/shopassist/backend/internal/domain/shared"
)

// UserProfile is a shopper's record scoped to one shop. CustomerID is the
// platform-assigned customer identifier when the shopper is logged in;
// SessionID identifies the storefront browsing session otherwise.
type UserProfile struct {
	shared.BaseEntity
	Shop       string
	CustomerID string
	SessionID  string
	Email      string
	Name       string
}

// NewUserProfile creates a profile for a shop
func NewUserProfile(shop, customerID, sessionID string) (*UserProfile, error) {
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop domain cannot be empty")
	}
	if customerID == "" && sessionID == "" {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile requires a customer ID or a session ID")
	}
	return &UserProfile{
		BaseEntity: shared.NewBaseEntity(),
		Shop:       shop,
		CustomerID: customerID,
		SessionID:  sessionID,
	}, nil
}

// Identify attaches the platform customer ID once a shopper logs in
func (p *UserProfile) Identify(customerID string) {
	if customerID != "" && customerID != p.CustomerID {
		p.CustomerID = customerID
		p.Touch()
	}
}
