package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/internal/application/compliance"
	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/interfaces/http/dto"
)

// WebhookHandler receives platform webhook deliveries. These endpoints are
// called by the platform and are authenticated by HMAC signature, not by
// session token.
type WebhookHandler struct {
	BaseHandler
	webhookService *compliance.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *compliance.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// RegisterRoutes registers the webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	webhooks.POST("/platform", h.HandlePlatformWebhook)
}

// WebhookAck is the body returned for an accepted delivery
type WebhookAck struct {
	Received        bool   `json:"received"`
	Topic           string `json:"topic,omitempty"`
	WebhookID       string `json:"webhook_id,omitempty"`
	ProfilesDeleted int64  `json:"profiles_deleted,omitempty"`
	Message         string `json:"message,omitempty"`
}

// HandlePlatformWebhook receives one webhook delivery and drives it through
// the verification pipeline. Status codes follow the platform's retry
// semantics: 401 for anything that fails authentication, 400 for a
// malformed envelope, and 200 for every authenticated delivery, including
// a redaction that failed and was recorded for manual follow-up, so the
// platform does not redeliver a structurally failing request.
func (h *WebhookHandler) HandlePlatformWebhook(c *gin.Context) {
	// Webhook responses must never end up in a search index
	c.Header("X-Robots-Tag", "noindex")

	// The raw body is needed for signature verification; read it before
	// anything touches the request. The size cap belongs to the BodyLimit
	// middleware; its MaxBytesReader surfaces an overrun here.
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Payload exceeds the webhook size limit")
			return
		}
		h.BadRequest(c, "Failed to read request body")
		return
	}

	env := webhook.Envelope{
		Topic:     c.GetHeader(webhook.HeaderTopic),
		Shop:      c.GetHeader(webhook.HeaderShop),
		WebhookID: c.GetHeader(webhook.HeaderWebhookID),
		Signature: c.GetHeader(webhook.HeaderHMAC),
		RawBody:   payload,
	}

	result, err := h.webhookService.Process(c.Request.Context(), env)
	if err != nil {
		h.respondProcessError(c, err)
		return
	}

	h.Success(c, WebhookAck{
		Received:        true,
		Topic:           result.Topic,
		WebhookID:       result.WebhookID,
		ProfilesDeleted: result.ProfilesDeleted,
		Message:         result.Message,
	})
}

// respondProcessError maps pipeline errors onto the wire. A caught
// redaction failure travels as an error body under an accepted status,
// authentication failures reject with 401, and everything else derives
// its status from the error code.
func (h *WebhookHandler) respondProcessError(c *gin.Context, err error) {
	var redactionErr *webhook.RedactionFailedError
	if errors.As(err, &redactionErr) {
		c.JSON(http.StatusOK, dto.NewErrorResponseWithRequestID(
			redactionErr.Code(),
			"Redaction failed and was recorded for manual follow-up",
			getRequestID(c),
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if webhook.IsAuthError(domainErr) {
			h.Error(c, http.StatusUnauthorized, domainErr.Code, domainErr.Message)
			return
		}
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
