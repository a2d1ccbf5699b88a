package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/upstream"
)

// OrderHandler handles order tracking endpoints
type OrderHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(client *upstream.Client, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{upstream: client, logger: logger}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	opts, err := bindListOptions(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.upstream.Orders().List(c.Request.Context(), opts)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page.Orders, page.Pagination)
}

// Fulfillment handles GET /orders/fulfillment
func (h *OrderHandler) Fulfillment(c *gin.Context) {
	opts, err := bindListOptions(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.upstream.Orders().Fulfillment(c.Request.Context(), opts)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page.Orders, page.Pagination)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.upstream.Orders().Get(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, order)
}
