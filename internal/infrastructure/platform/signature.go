package platform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"go.uber.org/zap"
)

// SignatureVerifier authenticates webhook payloads pushed by the commerce
// platform. The platform signs the raw request body with HMAC-SHA256 keyed
// by the app's shared secret and sends the base64 digest in a header.
type SignatureVerifier struct {
	secret []byte
	logger *zap.Logger
}

// NewSignatureVerifier creates a verifier for the given shared secret
func NewSignatureVerifier(secret string, logger *zap.Logger) *SignatureVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignatureVerifier{
		secret: []byte(secret),
		logger: logger.Named("signature"),
	}
}

// Verify reports whether signatureHeader is a valid HMAC-SHA256 digest of
// rawBody under the shared secret. It fails closed: a missing header, an
// empty secret, or any mismatch yields false. rawBody must be the request
// body exactly as received; verifying a re-serialized body produces false
// negatives.
func (v *SignatureVerifier) Verify(rawBody []byte, signatureHeader string) bool {
	if signatureHeader == "" {
		v.logger.Warn("webhook signature header missing")
		return false
	}
	if len(v.secret) == 0 {
		v.logger.Error("webhook secret not configured, rejecting delivery")
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Constant-time compare so attackers cannot probe digest prefixes
	if !hmac.Equal([]byte(expected), []byte(signatureHeader)) {
		v.logger.Warn("webhook signature mismatch",
			zap.Int("body_bytes", len(rawBody)),
			zap.Int("header_len", len(signatureHeader)),
		)
		return false
	}
	return true
}

// Configured reports whether a shared secret is present. Callers use this
// to distinguish a missing secret from a digest mismatch.
func (v *SignatureVerifier) Configured() bool {
	return len(v.secret) > 0
}

// Sign computes the base64 HMAC-SHA256 digest of body under the shared
// secret. Used by outbound callers and tests to produce valid signatures.
func (v *SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
