package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	conversationapp "github.com/shopassist/backend/internal/application/conversation"
	"github.com/shopassist/backend/internal/interfaces/http/middleware"
)

// usageDayLayout is the wire format for day query parameters and fields
const usageDayLayout = "2006-01-02"

// defaultUsageWindowDays is how far back the usage listing reaches when
// the caller gives no range
const defaultUsageWindowDays = 30

// AnalyticsHandler exposes de-identified usage aggregates to the embedded
// admin UI
type AnalyticsHandler struct {
	BaseHandler
	conversationService *conversationapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(conversationService *conversationapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		conversationService: conversationService,
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics/usage", h.ListUsage)
}

// UsageDayResponse is one day of aggregate activity. The average is
// rendered as a decimal string so the admin UI never rounds it.
type UsageDayResponse struct {
	Day                        string `json:"day"`
	Conversations              int64  `json:"conversations"`
	Messages                   int64  `json:"messages"`
	AvgMessagesPerConversation string `json:"avg_messages_per_conversation"`
}

// ListUsage returns the shop's daily usage aggregates, oldest first. The
// range defaults to the last 30 days and is bounded by the from and to
// query parameters, both inclusive YYYY-MM-DD days.
func (h *AnalyticsHandler) ListUsage(c *gin.Context) {
	shop := middleware.GetShopDomain(c)
	if shop == "" {
		h.Unauthorized(c, "Shop could not be determined from session")
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -defaultUsageWindowDays)
	var err error
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(usageDayLayout, raw); err != nil {
			h.BadRequest(c, "from must be a YYYY-MM-DD day")
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(usageDayLayout, raw); err != nil {
			h.BadRequest(c, "to must be a YYYY-MM-DD day")
			return
		}
	}
	if to.Before(from) {
		h.BadRequest(c, "to must not precede from")
		return
	}

	snapshots, err := h.conversationService.UsageByShop(c.Request.Context(), shop, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	days := make([]UsageDayResponse, 0, len(snapshots))
	for i := range snapshots {
		s := &snapshots[i]
		days = append(days, UsageDayResponse{
			Day:                        s.Day.Format(usageDayLayout),
			Conversations:              s.Conversations,
			Messages:                   s.Messages,
			AvgMessagesPerConversation: s.AvgMessagesPerConversation().String(),
		})
	}

	h.Success(c, days)
}
