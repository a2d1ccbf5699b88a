package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// ShopHandler handles marketplace shop endpoints
type ShopHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(client *upstream.Client, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{upstream: client, logger: logger}
}

// ConnectEtsyRequest links an Etsy shop with tokens obtained via OAuth
type ConnectEtsyRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
	ShopID       string `json:"shop_id"`
}

// ConnectShopifyRequest links a Shopify storefront
type ConnectShopifyRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
	ShopDomain  string `json:"shop_domain" binding:"required,hostname"`
}

// List handles GET /shops
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.upstream.Shops().List(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, shops)
}

// Get handles GET /shops/:id
func (h *ShopHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shop, err := h.upstream.Shops().Get(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, shop)
}

// ConnectEtsy handles POST /shops/etsy/connect
func (h *ShopHandler) ConnectEtsy(c *gin.Context) {
	var req ConnectEtsyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	shop, err := h.upstream.Shops().ConnectEtsy(c.Request.Context(), upstream.ConnectEtsyInput{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ShopID:       req.ShopID,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Etsy shop connected",
		zap.Int64("shop_id", shop.ID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, shop)
}

// ConnectShopify handles POST /shops/shopify/connect
func (h *ShopHandler) ConnectShopify(c *gin.Context) {
	var req ConnectShopifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	shop, err := h.upstream.Shops().ConnectShopify(c.Request.Context(), upstream.ConnectShopifyInput{
		AccessToken: req.AccessToken,
		ShopDomain:  req.ShopDomain,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Shopify shop connected",
		zap.Int64("shop_id", shop.ID),
		zap.String("shop_domain", req.ShopDomain),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, shop)
}

// Disconnect handles POST /shops/:id/disconnect
func (h *ShopHandler) Disconnect(c *gin.Context) {
	h.shopAction(c, h.upstream.Shops().Disconnect, "Shop disconnected")
}

// Delete handles DELETE /shops/:id/delete
func (h *ShopHandler) Delete(c *gin.Context) {
	h.shopAction(c, h.upstream.Shops().Delete, "Shop deleted")
}

// Sync handles POST /shops/:id/sync
func (h *ShopHandler) Sync(c *gin.Context) {
	h.shopAction(c, h.upstream.Shops().Sync, "Shop listing sync started")
}

// Products handles GET /shops/:id/products
func (h *ShopHandler) Products(c *gin.Context) {
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

	page, err := h.upstream.Shops().Products(c.Request.Context(), id, opts)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page.Products, page.Pagination)
}

// Product handles GET /shops/:id/products/:productId
func (h *ShopHandler) Product(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	productID := queryPathInt64(c, "productId")
	if productID <= 0 {
		h.BadRequest(c, errInvalidProductID.Error())
		return
	}

	product, err := h.upstream.Shops().Product(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, product)
}

func (h *ShopHandler) shopAction(c *gin.Context, action func(ctx context.Context, id int64) error, logMsg string) {
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
		zap.Int64("shop_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}
