// Package analytics holds de-identified, per-shop usage aggregates.
// Nothing in this package may reference a single shopper: snapshots must
// survive redaction untouched.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopassist/backend/internal/domain/shared"
)

// UsageSnapshot is one day of aggregate conversation activity for a shop
type UsageSnapshot struct {
	shared.BaseEntity
	Shop          string
	Day           time.Time
	Conversations int64
	Messages      int64
}

// NewUsageSnapshot creates an empty snapshot for a shop and day
func NewUsageSnapshot(shop string, day time.Time) *UsageSnapshot {
	return &UsageSnapshot{
		BaseEntity: shared.NewBaseEntity(),
		Shop:       shop,
		Day:        day.Truncate(24 * time.Hour),
	}
}

// AvgMessagesPerConversation returns the day's average, exact
func (s *UsageSnapshot) AvgMessagesPerConversation() decimal.Decimal {
	if s.Conversations == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.Messages).Div(decimal.NewFromInt(s.Conversations))
}

// UsageSnapshotRepository persists daily aggregates
type UsageSnapshotRepository interface {
	// Increment bumps the counters for shop+day, creating the row if needed
	Increment(ctx context.Context, shop string, day time.Time, conversations, messages int64) error

	// ListByShop returns a shop's snapshots for the inclusive day range,
	// oldest first
	ListByShop(ctx context.Context, shop string, from, to time.Time) ([]UsageSnapshot, error)
}
