// Package compliance implements the webhook trust pipeline: delivery
// verification, topic routing and the atomic redaction of personal data.
package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CustomerIdentity carries the identifiers a compliance payload may name a
// shopper by. Only CustomerID is used as a match key; email and phone are
// recorded for the audit trail but profiles are not looked up by them.
type CustomerIdentity struct {
	CustomerID string
	Email      string
	Phone      string
}

// Empty reports whether no identifier is present at all
func (i CustomerIdentity) Empty() bool {
	return i.CustomerID == "" && i.Email == "" && i.Phone == ""
}

// RedactionService removes a shopper's or a whole shop's personal data.
// Every run is recorded in the audit trail, success or not. De-identified
// usage aggregates are never touched.
type RedactionService struct {
	redactions conversation.RedactionRepository
	audit      webhook.AuditSink
	metrics    *telemetry.ComplianceMetrics
	logger     *zap.Logger
}

// NewRedactionService creates a new RedactionService. metrics may be nil.
func NewRedactionService(
	redactions conversation.RedactionRepository,
	audit webhook.AuditSink,
	metrics *telemetry.ComplianceMetrics,
	logger *zap.Logger,
) *RedactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedactionService{
		redactions: redactions,
		audit:      audit,
		metrics:    metrics,
		logger:     logger.Named("redaction"),
	}
}

// RedactCustomer removes every profile for shop+identity together with all
// owned sessions and messages, all-or-nothing. Zero matches is success.
// A transaction failure is wrapped in RedactionFailedError; it is the
// caller's job to convert that to the accepted-with-error response.
func (s *RedactionService) RedactCustomer(ctx context.Context, shop, webhookID string, identity CustomerIdentity) (conversation.RedactionResult, error) {
	if identity.Empty() {
		entry := webhook.NewAuditEntry(shop, webhook.TopicCustomersRedact, webhookID, webhook.AuditStatusFailed).
			WithError(webhook.ErrIdentityMissing.Code, webhook.ErrIdentityMissing.Message)
		s.record(ctx, entry)
		return conversation.RedactionResult{}, webhook.ErrIdentityMissing
	}

	if identity.CustomerID == "" {
		// Email/phone are informational, not match keys. Without a
		// customer ID there is nothing to look up, which is still a
		// successful zero-deletion run.
		s.logger.Warn("redaction request without customer id",
			zap.String("shop", shop),
			zap.String("webhook_id", webhookID),
		)
		entry := webhook.NewAuditEntry(shop, webhook.TopicCustomersRedact, webhookID, webhook.AuditStatusCompleted).
			WithError("", "no customer id in payload; alternate identifiers are not match keys")
		s.record(ctx, entry)
		return conversation.RedactionResult{}, nil
	}

	start := time.Now()
	result, err := s.redactions.DeleteCustomerData(ctx, shop, identity.CustomerID)
	if err != nil {
		s.logger.Error("customer redaction transaction failed",
			zap.String("shop", shop),
			zap.String("customer_id", identity.CustomerID),
			zap.Error(err),
		)
		failure := webhook.NewRedactionFailedError(shop, err)
		entry := webhook.NewAuditEntry(shop, webhook.TopicCustomersRedact, webhookID, webhook.AuditStatusFailed).
			WithError(failure.Code(), err.Error()).
			WithCustomer(identity.CustomerID)
		s.record(ctx, entry)
		return conversation.RedactionResult{}, failure
	}

	s.logger.Info("customer data redacted",
		zap.String("shop", shop),
		zap.String("customer_id", identity.CustomerID),
		zap.Int64("profiles", result.ProfilesDeleted),
		zap.Int64("sessions", result.SessionsDeleted),
		zap.Int64("messages", result.MessagesDeleted),
	)
	if s.metrics != nil {
		s.metrics.RecordRedaction(ctx, webhook.TopicCustomersRedact, result.ProfilesDeleted, time.Since(start))
	}
	entry := webhook.NewAuditEntry(shop, webhook.TopicCustomersRedact, webhookID, webhook.AuditStatusCompleted).
		WithCustomer(identity.CustomerID)
	entry.Detail = redactionDetail(result)
	s.record(ctx, entry)
	return result, nil
}

// RedactShop removes every profile for the shop, for shop-wide erasure
// requests delivered after an uninstall.
func (s *RedactionService) RedactShop(ctx context.Context, shop, webhookID string) (conversation.RedactionResult, error) {
	start := time.Now()
	result, err := s.redactions.DeleteShopData(ctx, shop)
	if err != nil {
		s.logger.Error("shop redaction transaction failed",
			zap.String("shop", shop),
			zap.Error(err),
		)
		failure := webhook.NewRedactionFailedError(shop, err)
		entry := webhook.NewAuditEntry(shop, webhook.TopicShopRedact, webhookID, webhook.AuditStatusFailed).
			WithError(failure.Code(), err.Error())
		s.record(ctx, entry)
		return conversation.RedactionResult{}, failure
	}

	s.logger.Info("shop data redacted",
		zap.String("shop", shop),
		zap.Int64("profiles", result.ProfilesDeleted),
		zap.Int64("sessions", result.SessionsDeleted),
		zap.Int64("messages", result.MessagesDeleted),
	)
	if s.metrics != nil {
		s.metrics.RecordRedaction(ctx, webhook.TopicShopRedact, result.ProfilesDeleted, time.Since(start))
	}
	entry := webhook.NewAuditEntry(shop, webhook.TopicShopRedact, webhookID, webhook.AuditStatusCompleted)
	entry.Detail = redactionDetail(result)
	s.record(ctx, entry)
	return result, nil
}

// record writes an audit entry. Audit failures are logged, never allowed
// to fail the pipeline.
func (s *RedactionService) record(ctx context.Context, entry *webhook.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("shop", entry.Shop),
			zap.String("topic", entry.Topic),
			zap.Error(err),
		)
	}
}

func redactionDetail(result conversation.RedactionResult) string {
	return fmt.Sprintf("profiles=%d sessions=%d messages=%d",
		result.ProfilesDeleted, result.SessionsDeleted, result.MessagesDeleted)
}
