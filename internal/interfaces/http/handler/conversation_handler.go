package handler

import (
	"github.com/gin-gonic/gin"

	conversationapp "github.com/shopassist/backend/internal/application/conversation"
	"github.com/shopassist/backend/internal/domain/conversation"
	"github.com/shopassist/backend/internal/interfaces/http/middleware"
)

// ConversationHandler records assistant conversation turns for the
// storefront widget
type ConversationHandler struct {
	BaseHandler
	conversationService *conversationapp.Service
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService *conversationapp.Service) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

// RegisterRoutes registers the conversation routes
func (h *ConversationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	conversations := rg.Group("/conversations")
	conversations.POST("/messages", h.RecordMessage)
	conversations.POST("/sessions/:session_id/close", h.CloseSession)
}

// RecordMessageRequest is one conversation turn
type RecordMessageRequest struct {
	SessionID  string `json:"session_id" binding:"required,max=128"`
	CustomerID string `json:"customer_id" binding:"omitempty,max=64"`
	Role       string `json:"role" binding:"required,oneof=shopper assistant"`
	Content    string `json:"content" binding:"required,max=8000"`
}

// RecordMessageResponse reports where the turn was stored
type RecordMessageResponse struct {
	ProfileID  string `json:"profile_id"`
	SessionID  string `json:"session_id"`
	MessageID  string `json:"message_id"`
	NewSession bool   `json:"new_session"`
}

// RecordMessage stores one turn of an assistant conversation
func (h *ConversationHandler) RecordMessage(c *gin.Context) {
	shop := middleware.GetShopDomain(c)
	if shop == "" {
		h.Unauthorized(c, "Shop could not be determined from session")
		return
	}

	var req RecordMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.conversationService.RecordMessage(c.Request.Context(), conversationapp.RecordMessageInput{
		Shop:       shop,
		CustomerID: req.CustomerID,
		SessionID:  req.SessionID,
		Role:       conversation.MessageRole(req.Role),
		Content:    req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RecordMessageResponse{
		ProfileID:  result.ProfileID,
		SessionID:  result.SessionID,
		MessageID:  result.MessageID,
		NewSession: result.NewSession,
	})
}

// CloseSession marks the open chat session for a storefront session as ended
func (h *ConversationHandler) CloseSession(c *gin.Context) {
	shop := middleware.GetShopDomain(c)
	if shop == "" {
		h.Unauthorized(c, "Shop could not be determined from session")
		return
	}

	sessionID := c.Param("session_id")
	if err := h.conversationService.CloseSession(c.Request.Context(), shop, sessionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
