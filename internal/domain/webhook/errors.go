package webhook

import (
	"fmt"

	"github.com/shopassist/backend/internal/domain/shared"
)

// Verification and routing errors. The first six are authentication or
// validation class: terminal for the request, surfaced as a rejected
// response and never retried locally.
var (
	ErrSignatureMissing  = shared.NewDomainError("ERR_SIGNATURE_MISSING", "Signature header is missing")
	ErrSecretMissing     = shared.NewDomainError("ERR_SECRET_MISSING", "Webhook secret is not configured")
	ErrSignatureMismatch = shared.NewDomainError("ERR_SIGNATURE_MISMATCH", "Signature verification failed")
	ErrStaleDelivery     = shared.NewDomainError("ERR_STALE_DELIVERY", "Delivery is older than the freshness window")
	ErrDuplicateDelivery = shared.NewDomainError("ERR_DUPLICATE_DELIVERY", "Delivery ID was already accepted")
	ErrTopicMissing      = shared.NewDomainError("ERR_TOPIC_MISSING", "Topic header is missing")
	ErrShopMissing       = shared.NewDomainError("ERR_SHOP_MISSING", "Shop domain header is missing")
	ErrIdentityMissing   = shared.NewDomainError("ERR_IDENTITY_MISSING", "No customer identifier was provided")
)

// RedactionFailedError wraps a failure inside the redaction transaction.
// It is caught at the dispatcher and reported with an accepted status so the
// platform does not retry a structurally failing deletion.
type RedactionFailedError struct {
	Shop  string
	Cause error
}

// Error implements the error interface
func (e *RedactionFailedError) Error() string {
	return fmt.Sprintf("redaction failed for shop %s: %v", e.Shop, e.Cause)
}

// Unwrap returns the underlying cause
func (e *RedactionFailedError) Unwrap() error {
	return e.Cause
}

// Code returns the audit/response error code for a redaction failure
func (e *RedactionFailedError) Code() string {
	return "ERR_REDACTION_FAILED"
}

// NewRedactionFailedError wraps a transaction failure for a shop
func NewRedactionFailedError(shop string, cause error) *RedactionFailedError {
	return &RedactionFailedError{Shop: shop, Cause: cause}
}

// IsAuthError reports whether the error code belongs to the
// authentication class (401 at the HTTP boundary).
func IsAuthError(err *shared.DomainError) bool {
	switch err {
	case ErrSignatureMissing, ErrSecretMissing, ErrSignatureMismatch, ErrStaleDelivery, ErrDuplicateDelivery:
		return true
	}
	return false
}
