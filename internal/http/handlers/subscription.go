package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathwise-backend/internal/http/response"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/services"
)

type SubscriptionHandler struct {
	subService services.SubscriptionService
}

func NewSubscriptionHandler(subService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// GET /api/subscriptions/plans
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	response.RespondOK(c, gin.H{"plans": h.subService.Plans()})
}

// GET /api/subscriptions/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	details, err := h.subService.Current(dbctx.Of(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "load_subscription_failed")
		return
	}
	response.RespondOK(c, gin.H{"subscription": details})
}

// GET /api/subscriptions/history
func (h *SubscriptionHandler) History(c *gin.Context) {
	rows, err := h.subService.History(dbctx.Of(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "load_history_failed")
		return
	}
	response.RespondOK(c, gin.H{"subscriptions": rows})
}

// POST /api/subscriptions/subscribe
// body: { "plan": "basic" }
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.subService.Subscribe(dbctx.Of(c.Request.Context()), req.Plan)
	if err != nil {
		response.RespondServiceError(c, err, "subscribe_failed")
		return
	}
	response.RespondOK(c, gin.H{"subscription": out})
}

// POST /api/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	endDate, err := h.subService.Cancel(dbctx.Of(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "cancel_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "access_until": endDate})
}

// GET /api/subscriptions/usage
func (h *SubscriptionHandler) Usage(c *gin.Context) {
	usage, err := h.subService.Usage(dbctx.Of(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "load_usage_failed")
		return
	}
	response.RespondOK(c, gin.H{"usage": usage})
}

// POST /api/subscriptions/admin/reset-credits
func (h *SubscriptionHandler) ResetCredits(c *gin.Context) {
	n, err := h.subService.ResetMonthlyCredits(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err, "reset_credits_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "users_reset": n})
}
