package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the session token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the session token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodePayloadTooLarge is used when the request body exceeds the size limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Webhook delivery error codes. The first five are authentication class
// and map to 401 so forged or replayed senders are not rewarded with a 200.
const (
	// ErrCodeSignatureMissing is used when the HMAC signature header is absent
	ErrCodeSignatureMissing = "ERR_SIGNATURE_MISSING"
	// ErrCodeSecretMissing is used when no webhook secret is configured
	ErrCodeSecretMissing = "ERR_SECRET_MISSING"
	// ErrCodeSignatureMismatch is used when the computed digest does not match
	ErrCodeSignatureMismatch = "ERR_SIGNATURE_MISMATCH"
	// ErrCodeStaleDelivery is used when the delivery is older than the freshness window
	ErrCodeStaleDelivery = "ERR_STALE_DELIVERY"
	// ErrCodeDuplicateDelivery is used when the delivery ID was already accepted
	ErrCodeDuplicateDelivery = "ERR_DUPLICATE_DELIVERY"
	// ErrCodeTopicMissing is used when the topic header is absent
	ErrCodeTopicMissing = "ERR_TOPIC_MISSING"
	// ErrCodeShopMissing is used when the shop domain header is absent
	ErrCodeShopMissing = "ERR_SHOP_MISSING"
	// ErrCodeIdentityMissing is used when a redaction payload carries no customer identifier
	ErrCodeIdentityMissing = "ERR_IDENTITY_MISSING"
	// ErrCodeRedactionFailed is used when the redaction transaction rolled back
	ErrCodeRedactionFailed = "ERR_REDACTION_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Webhook authentication failures -> 401 Unauthorized
	ErrCodeSignatureMissing:  http.StatusUnauthorized,
	ErrCodeSecretMissing:     http.StatusUnauthorized,
	ErrCodeSignatureMismatch: http.StatusUnauthorized,
	ErrCodeStaleDelivery:     http.StatusUnauthorized,
	ErrCodeDuplicateDelivery: http.StatusUnauthorized,

	// Webhook envelope validation -> 400 Bad Request
	ErrCodeTopicMissing: http.StatusBadRequest,
	ErrCodeShopMissing:  http.StatusBadRequest,

	// Post-authentication delivery failures -> 200 OK.
	// Once a delivery is authenticated, a failing redaction is reported as
	// accepted with the error in the body so the platform does not keep
	// redelivering a request that fails for a structural reason.
	ErrCodeIdentityMissing: http.StatusOK,
	ErrCodeRedactionFailed: http.StatusOK,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps old error codes to new standardized codes
// This is for backward compatibility with existing domain errors
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
