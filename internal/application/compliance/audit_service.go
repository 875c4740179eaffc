package compliance

import (
	"context"

	"github.com/shopassist/backend/internal/domain/webhook"
)

// AuditService exposes the compliance audit trail to the admin UI
type AuditService struct {
	audits webhook.AuditRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(audits webhook.AuditRepository) *AuditService {
	return &AuditService{audits: audits}
}

// AuditPage is one page of a shop's audit trail
type AuditPage struct {
	Entries []webhook.AuditEntry
	Total   int64
}

// ListByShop returns a page of the shop's audit trail, newest first unless
// the query asks for a different order
func (s *AuditService) ListByShop(ctx context.Context, shop string, q webhook.AuditQuery) (*AuditPage, error) {
	entries, total, err := s.audits.ListByShop(ctx, shop, q)
	if err != nil {
		return nil, err
	}
	return &AuditPage{Entries: entries, Total: total}, nil
}
