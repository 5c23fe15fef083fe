package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/internal/service"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/httpx"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/middleware"
)

// AnalyticsHandler exposes the editorial dashboard statistics.
type AnalyticsHandler struct {
	svc    *service.AnalyticsService
	auth   *middleware.AuthMiddleware
	logger logger.Logger
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, auth *middleware.AuthMiddleware, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, auth: auth, logger: log}
}

// RegisterRoutes registers the admin analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/admin/analytics", h.auth.RequireRole(model.RoleAdmin))
	{
		api.GET("/top", h.TopArticles)
		api.GET("/categories", h.CategoryBreakdown)
	}
}

// TopArticles returns the most viewed articles in a window.
func (h *AnalyticsHandler) TopArticles(c *gin.Context) {
	ctx := c.Request.Context()

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	stats, err := h.svc.TopArticles(ctx, days, limit)
	if err != nil {
		h.logger.Error(ctx, "Top articles failed", logger.F("error", err.Error()))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"articles": stats}, nil)
}

// CategoryBreakdown returns view totals per category.
func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	ctx := c.Request.Context()

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	breakdown, err := h.svc.CategoryBreakdown(ctx, days)
	if err != nil {
		h.logger.Error(ctx, "Category breakdown failed", logger.F("error", err.Error()))
		httpx.WriteError(c, err)
		return
	}

	httpx.WriteObject(c, gin.H{"categories": breakdown}, nil)
}
