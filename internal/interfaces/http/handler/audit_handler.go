package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/internal/application/compliance"
	"github.com/shopassist/backend/internal/domain/webhook"
	"github.com/shopassist/backend/internal/interfaces/http/dto"
	"github.com/shopassist/backend/internal/interfaces/http/middleware"
)

// AuditHandler exposes the compliance audit trail to the embedded admin UI
type AuditHandler struct {
	BaseHandler
	auditService *compliance.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *compliance.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// RegisterRoutes registers the audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/compliance/audit", h.ListAuditEntries)
}

// AuditEntryResponse is one audit trail row
type AuditEntryResponse struct {
	ID         string     `json:"id"`
	Topic      string     `json:"topic"`
	WebhookID  string     `json:"webhook_id"`
	Status     string     `json:"status"`
	ErrorCode  string     `json:"error_code,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	CustomerID string     `json:"customer_id,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}

// ListAuditEntries returns a page of the shop's webhook audit trail,
// newest first. The shop is taken from the session token.
func (h *AuditHandler) ListAuditEntries(c *gin.Context) {
	shop := middleware.GetShopDomain(c)
	if shop == "" {
		h.Unauthorized(c, "Shop could not be determined from session")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	page, err := h.auditService.ListByShop(c.Request.Context(), shop, webhook.AuditQuery{
		Limit:    req.PageSize,
		Offset:   (req.Page - 1) * req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	entries := make([]AuditEntryResponse, 0, len(page.Entries))
	for i := range page.Entries {
		entries = append(entries, toAuditEntryResponse(&page.Entries[i]))
	}

	h.SuccessWithMeta(c, entries, page.Total, req.Page, req.PageSize)
}

func toAuditEntryResponse(entry *webhook.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID.String(),
		Topic:      entry.Topic,
		WebhookID:  entry.WebhookID,
		Status:     string(entry.Status),
		ErrorCode:  entry.ErrorCode,
		Detail:     entry.Detail,
		CustomerID: entry.CustomerID,
		Deadline:   entry.Deadline,
		ReceivedAt: entry.CreatedAt,
	}
}
