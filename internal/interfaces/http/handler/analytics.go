package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/upstream"
)

// AnalyticsHandler handles revenue and profitability reporting endpoints
type AnalyticsHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(client *upstream.Client, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{upstream: client, logger: logger}
}

func analyticsFilter(c *gin.Context) (upstream.AnalyticsFilter, error) {
	var filter upstream.AnalyticsFilter
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > 365 {
			return filter, errInvalidDays
		}
		filter.Days = days
	}
	filter.ShopID = queryInt64(c, "shop_id")
	return filter, nil
}

// Overview handles GET /analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	overview, err := h.upstream.Analytics().Overview(c.Request.Context(), filter)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, overview)
}

// Products handles GET /analytics/products
func (h *AnalyticsHandler) Products(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.upstream.Analytics().Products(c.Request.Context(), filter)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, stats)
}

// Profitability handles GET /analytics/profitability
func (h *AnalyticsHandler) Profitability(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, err := h.upstream.Analytics().Profitability(c.Request.Context(), filter)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, rows)
}
