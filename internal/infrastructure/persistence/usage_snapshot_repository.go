package persistence

import (
	"context"
	"time"

	"github.com/shopassist/backend/internal/domain/analytics"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUsageSnapshotRepository implements UsageSnapshotRepository using GORM
type GormUsageSnapshotRepository struct {
	db *gorm.DB
}

// NewGormUsageSnapshotRepository creates a new GormUsageSnapshotRepository
func NewGormUsageSnapshotRepository(db *gorm.DB) *GormUsageSnapshotRepository {
	return &GormUsageSnapshotRepository{db: db}
}

// Increment bumps the day's counters for a shop, creating the row on first
// activity. Upsert keyed on shop+day so concurrent increments never race
// on insert.
func (r *GormUsageSnapshotRepository) Increment(ctx context.Context, shop string, day time.Time, conversations, messages int64) error {
	snapshot := analytics.NewUsageSnapshot(shop, day)
	snapshot.Conversations = conversations
	snapshot.Messages = messages

	model := &models.UsageSnapshotModel{}
	model.FromDomain(snapshot)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"conversations": gorm.Expr("usage_snapshots.conversations + ?", conversations),
			"messages":      gorm.Expr("usage_snapshots.messages + ?", messages),
			"updated_at":    time.Now(),
		}),
	}).Create(model).Error
}

// ListByShop returns the shop's snapshots for the inclusive day range
func (r *GormUsageSnapshotRepository) ListByShop(ctx context.Context, shop string, from, to time.Time) ([]analytics.UsageSnapshot, error) {
	var snapshotModels []models.UsageSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND day >= ? AND day <= ?", shop, from, to).
		Order("day ASC").
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}

	snapshots := make([]analytics.UsageSnapshot, len(snapshotModels))
	for i, model := range snapshotModels {
		snapshots[i] = *model.ToDomain()
	}
	return snapshots, nil
}

var _ analytics.UsageSnapshotRepository = (*GormUsageSnapshotRepository)(nil)
