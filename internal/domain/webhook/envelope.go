// Package webhook holds the domain model for inbound platform notifications:
// the per-request envelope, topic classification, the verification error
// taxonomy and the compliance audit trail.
package webhook

import "github.com/shopassist/backend/internal/domain/shared"

// Platform headers carried by every webhook delivery
const (
	HeaderHMAC      = "X-Shopify-Hmac-Sha256"
	HeaderTopic     = "X-Shopify-Topic"
	HeaderShop      = "X-Shopify-Shop-Domain"
	HeaderWebhookID = "X-Shopify-Webhook-Id"
)

// Envelope is the immutable per-request view of a webhook delivery.
// RawBody is the body exactly as received; signature verification must run
// against these bytes before any JSON parsing touches them.
type Envelope struct {
	Topic     string
	Shop      string
	WebhookID string
	Signature string
	RawBody   []byte
}

// Outcome is the result of the verification stage chain. It is produced
// once per request and consumed by the dispatcher.
type Outcome struct {
	Valid     bool
	Topic     string
	Shop      string
	WebhookID string
	Err       *shared.DomainError
}

// Reject builds a failed outcome for the envelope with the given error
func (e Envelope) Reject(err *shared.DomainError) Outcome {
	return Outcome{
		Topic:     e.Topic,
		Shop:      e.Shop,
		WebhookID: e.WebhookID,
		Err:       err,
	}
}

// Accept builds a successful outcome for the envelope
func (e Envelope) Accept() Outcome {
	return Outcome{
		Valid:     true,
		Topic:     e.Topic,
		Shop:      e.Shop,
		WebhookID: e.WebhookID,
	}
}
