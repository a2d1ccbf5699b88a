package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// supplierTypes are the POD suppliers the gateway knows how to connect
var supplierTypes = map[string]bool{
	"printify": true,
	"printful": true,
	"gelato":   true,
}

// SupplierHandler handles POD supplier connection endpoints
type SupplierHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(client *upstream.Client, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{upstream: client, logger: logger}
}

// ConnectSupplierRequest links a supplier account by API key
type ConnectSupplierRequest struct {
	APIKey string `json:"api_key" binding:"required"`
	ShopID string `json:"shop_id"`
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.upstream.Suppliers().List(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, suppliers)
}

// Status handles GET /suppliers/status
func (h *SupplierHandler) Status(c *gin.Context) {
	status, err := h.upstream.Suppliers().Status(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, status)
}

// ByType handles GET /suppliers/:type
func (h *SupplierHandler) ByType(c *gin.Context) {
	supplierType := c.Param("type")
	if !supplierTypes[supplierType] {
		h.BadRequest(c, "unknown supplier: "+supplierType)
		return
	}

	suppliers, err := h.upstream.Suppliers().ByType(c.Request.Context(), supplierType)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, suppliers)
}

// Connect handles POST /suppliers/:type/connect
func (h *SupplierHandler) Connect(c *gin.Context) {
	supplierType := c.Param("type")
	if !supplierTypes[supplierType] {
		h.BadRequest(c, "unknown supplier: "+supplierType)
		return
	}

	var req ConnectSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	conn, err := h.upstream.Suppliers().Connect(c.Request.Context(), supplierType, upstream.ConnectInput{
		APIKey: req.APIKey,
		ShopID: req.ShopID,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Supplier connected",
		zap.String("supplier_type", supplierType),
		zap.Int64("connection_id", conn.ID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, conn)
}

// Connection handles GET /suppliers/connection/:id
func (h *SupplierHandler) Connection(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	conn, err := h.upstream.Suppliers().Connection(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, conn)
}

// Disconnect handles POST /suppliers/connection/:id/disconnect
func (h *SupplierHandler) Disconnect(c *gin.Context) {
	h.connectionAction(c, h.upstream.Suppliers().Disconnect, "Supplier disconnected")
}

// Activate handles POST /suppliers/connection/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	h.connectionAction(c, h.upstream.Suppliers().Activate, "Supplier connection activated")
}

// Deactivate handles POST /suppliers/connection/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	h.connectionAction(c, h.upstream.Suppliers().Deactivate, "Supplier connection deactivated")
}

// Sync handles POST /suppliers/connection/:id/sync
func (h *SupplierHandler) Sync(c *gin.Context) {
	h.connectionAction(c, h.upstream.Suppliers().Sync, "Supplier catalog sync started")
}

// Products handles GET /suppliers/connection/:id/products
func (h *SupplierHandler) Products(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	opts, err := bindListOptions(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.upstream.Suppliers().Products(c.Request.Context(), id, opts)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page.Products, page.Pagination)
}

func (h *SupplierHandler) connectionAction(c *gin.Context, action func(ctx context.Context, id int64) error, logMsg string) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info(logMsg,
		zap.Int64("connection_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}
