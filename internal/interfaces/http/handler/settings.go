package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/upstream"
)

// SettingsHandler handles account settings endpoints
type SettingsHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(client *upstream.Client, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{upstream: client, logger: logger}
}

// Billing handles GET /settings/billing
func (h *SettingsHandler) Billing(c *gin.Context) {
	billing, err := h.upstream.Settings().Billing(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, billing)
}
