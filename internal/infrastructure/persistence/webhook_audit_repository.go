package persistence

import (
	"context"

	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWebhookAuditRepository implements AuditRepository using GORM
type GormWebhookAuditRepository struct {
	db *gorm.DB
}

// NewGormWebhookAuditRepository creates a new GormWebhookAuditRepository
func NewGormWebhookAuditRepository(db *gorm.DB) *GormWebhookAuditRepository {
	return &GormWebhookAuditRepository{db: db}
}

// Record stores one audit entry
func (r *GormWebhookAuditRepository) Record(ctx context.Context, entry *webhook.AuditEntry) error {
	model := &models.WebhookAuditModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByShop returns a page of the shop's audit trail with the total row
// count for pagination. Sorting defaults to newest first.
func (r *GormWebhookAuditRepository) ListByShop(ctx context.Context, shop string, q webhook.AuditQuery) ([]webhook.AuditEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WebhookAuditModel{}).Where("shop = ?", shop)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sortField := ValidateSortField(q.OrderBy, AuditSortFields, "created_at")
	sortOrder := ValidateSortOrder(q.OrderDir)

	var auditModels []models.WebhookAuditModel
	if err := query.Order(sortField + " " + sortOrder).Limit(limit).Offset(q.Offset).Find(&auditModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]webhook.AuditEntry, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}

var _ webhook.AuditRepository = (*GormWebhookAuditRepository)(nil)
