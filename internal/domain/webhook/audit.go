package webhook

import (
	"context"
	"time"

	"github.com/shopassist/backend/internal/domain/shared"
)

// AuditStatus describes what happened to a delivery
type AuditStatus string

const (
	AuditStatusRejected  AuditStatus = "rejected"
	AuditStatusFailed    AuditStatus = "failed"
	AuditStatusCompleted AuditStatus = "completed"
)

// AuditEntry is one row of the compliance audit trail. Every rejected or
// failed delivery and every completed redaction produces one. For compliance
// topics Deadline records when the regulatory clock runs out.
type AuditEntry struct {
	shared.BaseEntity
	Shop       string
	Topic      string
	WebhookID  string
	Status     AuditStatus
	ErrorCode  string
	Detail     string
	CustomerID string
	Deadline   *time.Time
}

// NewAuditEntry creates an audit entry for a delivery received now
func NewAuditEntry(shop, topic, webhookID string, status AuditStatus) *AuditEntry {
	e := &AuditEntry{
		BaseEntity: shared.NewBaseEntity(),
		Shop:       shop,
		Topic:      topic,
		WebhookID:  webhookID,
		Status:     status,
	}
	e.Deadline = DeadlineFor(topic, e.CreatedAt)
	return e
}

// WithError attaches an error code and detail to the entry
func (e *AuditEntry) WithError(code, detail string) *AuditEntry {
	e.ErrorCode = code
	e.Detail = detail
	return e
}

// WithCustomer attaches the customer identifier the delivery referred to
func (e *AuditEntry) WithCustomer(customerID string) *AuditEntry {
	e.CustomerID = customerID
	return e
}

// AuditSink receives audit entries. Implementations must not fail the
// webhook pipeline: a sink error is logged by the caller, never propagated
// to the platform.
type AuditSink interface {
	Record(ctx context.Context, entry *AuditEntry) error
}

// AuditQuery selects a page of a shop's audit trail. OrderBy and OrderDir
// are validated against a whitelist by the repository; invalid values fall
// back to newest first.
type AuditQuery struct {
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// AuditRepository persists and queries the audit trail
type AuditRepository interface {
	AuditSink
	ListByShop(ctx context.Context, shop string, q AuditQuery) ([]AuditEntry, int64, error)
}
