package compliance

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/domain/shop"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/infrastructure/platform"
	"github.com/shopassist/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProcessResult reports what the pipeline did with one delivery
type ProcessResult struct {
	Topic           string
	Shop            string
	WebhookID       string
	Processed       bool
	ProfilesDeleted int64
	Message         string
}

// customerID tolerates both JSON numbers and strings; the platform has
// sent the customer id in either form.
type customerID string

// UnmarshalJSON implements json.Unmarshaler
func (c *customerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = customerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = customerID(n.String())
	return nil
}

// compliancePayload is the JSON body shape of compliance deliveries
type compliancePayload struct {
	ShopDomain string `json:"shop_domain"`
	Customer   struct {
		ID    customerID `json:"id"`
		Email string     `json:"email"`
		Phone string     `json:"phone"`
	} `json:"customer"`
}

// WebhookService drives a delivery through the verification stages and
// routes compliance topics to redaction. Stages short-circuit on first
// failure: signature, then freshness, then replay, then classification.
// No topic or shop logic runs before the delivery is authenticated.
type WebhookService struct {
	verifier  *platform.SignatureVerifier
	freshness *platform.FreshnessGuard
	replay    shared.DeliveryReplayStore
	replayCfg shared.ReplayConfig
	redaction *RedactionService
	accounts  shop.AccountRepository
	audit     webhook.AuditSink
	metrics   *telemetry.ComplianceMetrics
	logger    *zap.Logger
}

// NewWebhookService creates a new WebhookService. replay, accounts, audit
// and metrics may be nil; the corresponding stage is skipped.
func NewWebhookService(
	verifier *platform.SignatureVerifier,
	freshness *platform.FreshnessGuard,
	replay shared.DeliveryReplayStore,
	replayCfg shared.ReplayConfig,
	redaction *RedactionService,
	accounts shop.AccountRepository,
	audit webhook.AuditSink,
	metrics *telemetry.ComplianceMetrics,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		verifier:  verifier,
		freshness: freshness,
		replay:    replay,
		replayCfg: replayCfg,
		redaction: redaction,
		accounts:  accounts,
		audit:     audit,
		metrics:   metrics,
		logger:    logger.Named("webhook"),
	}
}

// Process runs one delivery through the pipeline. The returned error is
// either an authentication/validation *shared.DomainError or a
// *webhook.RedactionFailedError; the HTTP layer decides the status code.
func (s *WebhookService) Process(ctx context.Context, env webhook.Envelope) (ProcessResult, error) {
	result := ProcessResult{
		Topic:     env.Topic,
		Shop:      env.Shop,
		WebhookID: env.WebhookID,
	}

	if outcome := s.authenticate(ctx, env); !outcome.Valid {
		s.reject(ctx, env, outcome.Err)
		return result, outcome.Err
	}

	if env.Topic == "" {
		s.reject(ctx, env, webhook.ErrTopicMissing)
		return result, webhook.ErrTopicMissing
	}
	if env.Shop == "" {
		s.reject(ctx, env, webhook.ErrShopMissing)
		return result, webhook.ErrShopMissing
	}

	if err := s.route(ctx, env, &result); err != nil {
		s.countDelivery(ctx, env.Topic, "failed", errorCode(err))
		return result, err
	}

	s.countDelivery(ctx, env.Topic, "accepted", "")
	return result, nil
}

// authenticate runs the signature, freshness and replay stages in order
// and folds the result into a verification outcome.
func (s *WebhookService) authenticate(ctx context.Context, env webhook.Envelope) webhook.Outcome {
	if env.Signature == "" {
		return env.Reject(webhook.ErrSignatureMissing)
	}
	if !s.verifier.Configured() {
		return env.Reject(webhook.ErrSecretMissing)
	}
	if !s.verifier.Verify(env.RawBody, env.Signature) {
		return env.Reject(webhook.ErrSignatureMismatch)
	}
	if !s.freshness.IsFresh(env.WebhookID) {
		return env.Reject(webhook.ErrStaleDelivery)
	}

	if s.replay != nil && s.replayCfg.Enabled {
		fresh, err := s.replay.MarkSeen(ctx, env.WebhookID, s.replayCfg.TTL)
		if err != nil {
			// A broken replay store must not take webhook intake down;
			// the freshness window still bounds the exposure.
			s.logger.Warn("replay store unavailable, skipping replay check",
				zap.String("webhook_id", env.WebhookID),
				zap.Error(err),
			)
			return env.Accept()
		}
		if !fresh {
			return env.Reject(webhook.ErrDuplicateDelivery)
		}
	}
	return env.Accept()
}

// route dispatches an authenticated, classified delivery
func (s *WebhookService) route(ctx context.Context, env webhook.Envelope, result *ProcessResult) error {
	switch env.Topic {
	case webhook.TopicCustomersRedact:
		identity := parseIdentity(env.RawBody)
		res, err := s.redaction.RedactCustomer(ctx, env.Shop, env.WebhookID, identity)
		if err != nil {
			return err
		}
		result.Processed = true
		result.ProfilesDeleted = res.ProfilesDeleted
		result.Message = "customer data redacted"

	case webhook.TopicShopRedact:
		res, err := s.redaction.RedactShop(ctx, env.Shop, env.WebhookID)
		if err != nil {
			return err
		}
		result.Processed = true
		result.ProfilesDeleted = res.ProfilesDeleted
		result.Message = "shop data redacted"

	case webhook.TopicCustomersDataRequest:
		s.recordDataRequest(ctx, env)
		result.Processed = true
		result.Message = "data request recorded for manual fulfilment"

	case webhook.TopicAppUninstalled:
		s.handleUninstall(ctx, env.Shop)
		result.Processed = true
		result.Message = "app uninstall recorded"

	default:
		// Ordinary topic, nothing for the compliance pipeline to do
		s.logger.Debug("ignoring non-compliance topic",
			zap.String("topic", env.Topic),
			zap.String("shop", env.Shop),
		)
		result.Message = "accepted"
	}
	return nil
}

// recordDataRequest writes the audit entry an operator works from when
// assembling a data access export. Nothing is deleted.
func (s *WebhookService) recordDataRequest(ctx context.Context, env webhook.Envelope) {
	identity := parseIdentity(env.RawBody)
	entry := webhook.NewAuditEntry(env.Shop, env.Topic, env.WebhookID, webhook.AuditStatusCompleted).
		WithCustomer(identity.CustomerID)
	entry.Detail = "data access request; export to be assembled manually"
	s.record(ctx, entry)
}

// handleUninstall clears the shop's OAuth credential. A second uninstall
// notification or an unknown shop is a no-op.
func (s *WebhookService) handleUninstall(ctx context.Context, shopDomain string) {
	if s.accounts == nil {
		return
	}
	account, err := s.accounts.FindByDomain(ctx, shopDomain)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to load shop account for uninstall",
				zap.String("shop", shopDomain),
				zap.Error(err),
			)
		}
		return
	}
	account.Uninstall()
	if err := s.accounts.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist shop uninstall",
			zap.String("shop", shopDomain),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("shop uninstalled, access token cleared", zap.String("shop", shopDomain))
}

// reject logs and audits a rejected delivery. The secret and computed
// digests are never logged.
func (s *WebhookService) reject(ctx context.Context, env webhook.Envelope, err *shared.DomainError) {
	s.logger.Warn("webhook delivery rejected",
		zap.String("topic", env.Topic),
		zap.String("shop", env.Shop),
		zap.String("webhook_id", env.WebhookID),
		zap.String("error_code", err.Code),
	)
	s.countDelivery(ctx, env.Topic, "rejected", err.Code)
	entry := webhook.NewAuditEntry(env.Shop, env.Topic, env.WebhookID, webhook.AuditStatusRejected).
		WithError(err.Code, err.Message)
	s.record(ctx, entry)
}

func (s *WebhookService) record(ctx context.Context, entry *webhook.AuditEntry) {
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

func (s *WebhookService) countDelivery(ctx context.Context, topic, outcome, errorCode string) {
	if s.metrics != nil {
		s.metrics.RecordDelivery(ctx, topic, outcome, errorCode)
	}
}

// parseIdentity extracts the customer identifiers from a compliance
// payload. Parsing happens only after signature verification; a malformed
// body simply yields an empty identity.
func parseIdentity(rawBody []byte) CustomerIdentity {
	var payload compliancePayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return CustomerIdentity{}
	}
	return CustomerIdentity{
		CustomerID: string(payload.Customer.ID),
		Email:      payload.Customer.Email,
		Phone:      payload.Customer.Phone,
	}
}

func errorCode(err error) string {
	var redactionErr *webhook.RedactionFailedError
	if errors.As(err, &redactionErr) {
		return redactionErr.Code()
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "ERR_INTERNAL"
}
