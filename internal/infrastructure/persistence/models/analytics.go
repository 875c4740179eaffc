package models

import (
	"time"

	"github.com/shopassist/backend/internal/domain/analytics"
)

// UsageSnapshotModel is the persistence model for the UsageSnapshot
// domain entity. Rows hold only per-shop counters; no column may ever
// reference a single shopper.
type UsageSnapshotModel struct {
	BaseModel
	Shop          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_snapshot_shop_day,priority:1"`
	Day           time.Time `gorm:"type:date;not null;uniqueIndex:idx_snapshot_shop_day,priority:2"`
	Conversations int64     `gorm:"not null;default:0"`
	Messages      int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (UsageSnapshotModel) TableName() string {
	return "usage_snapshots"
}

// ToDomain converts the persistence model to a domain UsageSnapshot entity.
func (m *UsageSnapshotModel) ToDomain() *analytics.UsageSnapshot {
	return &analytics.UsageSnapshot{
		BaseEntity:    m.BaseModel.ToDomain(),
		Shop:          m.Shop,
		Day:           m.Day,
		Conversations: m.Conversations,
		Messages:      m.Messages,
	}
}

// FromDomain populates the persistence model from a domain UsageSnapshot entity.
func (m *UsageSnapshotModel) FromDomain(s *analytics.UsageSnapshot) {
	m.SetBase(s.BaseEntity)
	m.Shop = s.Shop
	m.Day = s.Day
	m.Conversations = s.Conversations
	m.Messages = s.Messages
}
