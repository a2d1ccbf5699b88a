package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/cache"
	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// ProductHandler handles the supplier price comparison endpoints. The
// comparison list is the most expensive upstream query, so successful
// responses are cached for a short TTL; any write through this handler
// clears the cache.
type ProductHandler struct {
	BaseHandler
	upstream *upstream.Client
	cache    cache.QueryCache
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(client *upstream.Client, qc cache.QueryCache, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{upstream: client, cache: qc, logger: logger}
}

// SwitchRequest moves a product to another supplier
type SwitchRequest struct {
	ProductID       int64  `json:"product_id" binding:"required,min=1"`
	TargetSupplier  string `json:"target_supplier" binding:"required,oneof=printify printful gelato"`
	TargetProductID string `json:"target_product_id"`
}

// BulkSwitchRequest moves several products to another supplier
type BulkSwitchRequest struct {
	ProductIDs     []int64 `json:"product_ids" binding:"required,min=1,dive,min=1"`
	TargetSupplier string  `json:"target_supplier" binding:"required,oneof=printify printful gelato"`
}

// Compare handles GET /products/compare
func (h *ProductHandler) Compare(c *gin.Context) {
	key := cache.Key("/products/compare", c.Request.URL.Query())
	if h.serveCached(c, key) {
		return
	}

	result, err := h.upstream.Products().Compare(c.Request.Context(), upstream.CompareFilter{
		ProductType: c.Query("product_type"),
		ShopID:      queryInt64(c, "shop_id"),
		Supplier:    c.Query("supplier"),
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.respondCaching(c, key, result)
}

// Comparison handles GET /products/compare/:id
func (h *ProductHandler) Comparison(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.upstream.Products().Comparison(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, result)
}

// Summary handles GET /products/compare/summary
func (h *ProductHandler) Summary(c *gin.Context) {
	key := cache.Key("/products/compare/summary", nil)
	if h.serveCached(c, key) {
		return
	}

	result, err := h.upstream.Products().ComparisonSummary(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.respondCaching(c, key, result)
}

// Types handles GET /products/types
func (h *ProductHandler) Types(c *gin.Context) {
	types, err := h.upstream.Products().Types(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, types)
}

// FindMatches handles GET /products/match/:id
func (h *ProductHandler) FindMatches(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.upstream.Products().FindMatches(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, result)
}

// Switch handles POST /products/switch
func (h *ProductHandler) Switch(c *gin.Context) {
	var req SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	result, err := h.upstream.Products().Switch(c.Request.Context(), upstream.SwitchInput{
		ProductID:       req.ProductID,
		TargetSupplier:  req.TargetSupplier,
		TargetProductID: req.TargetProductID,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.invalidateCache(c)
	h.logger.Info("Product switched to new supplier",
		zap.Int64("product_id", req.ProductID),
		zap.String("target_supplier", req.TargetSupplier),
		zap.String("request_id", getRequestID(c)))
	h.Success(c, result)
}

// BulkSwitch handles POST /products/switch/bulk
func (h *ProductHandler) BulkSwitch(c *gin.Context) {
	var req BulkSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	result, err := h.upstream.Products().BulkSwitch(c.Request.Context(), upstream.BulkSwitchInput{
		ProductIDs:     req.ProductIDs,
		TargetSupplier: req.TargetSupplier,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.invalidateCache(c)
	h.logger.Info("Products switched to new supplier",
		zap.Int("count", len(req.ProductIDs)),
		zap.String("target_supplier", req.TargetSupplier),
		zap.String("request_id", getRequestID(c)))
	h.Success(c, result)
}

// AddUserProductRequest tracks a product from a supplier catalog
type AddUserProductRequest struct {
	SupplierConnectionID int64  `json:"supplier_connection_id" binding:"required,min=1"`
	SupplierProductID    int64  `json:"supplier_product_id" binding:"required,min=1"`
	ProductName          string `json:"product_name"`
}

// UserProducts handles GET /products/user/list
func (h *ProductHandler) UserProducts(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	page, err := h.upstream.Products().UserProducts(c.Request.Context(), upstream.UserProductFilter{
		Page:     req.Page,
		PerPage:  req.PerPage,
		Search:   req.Search,
		Category: c.Query("category"),
		Supplier: c.Query("supplier"),
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page, page.Pagination)
}

// Catalog handles GET /products/user/catalog/:id
func (h *ProductHandler) Catalog(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.upstream.Products().Catalog(c.Request.Context(), id, upstream.UserProductFilter{
		Page:     queryInt(c, "page"),
		PerPage:  queryInt(c, "per_page"),
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page, page.Pagination)
}

// AddUserProduct handles POST /products/user/add. The upstream also scans
// the other connected suppliers for the same product; cached comparisons go
// stale either way, so the cache is cleared.
func (h *ProductHandler) AddUserProduct(c *gin.Context) {
	var req AddUserProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	result, err := h.upstream.Products().AddUserProduct(c.Request.Context(), upstream.AddUserProductInput{
		SupplierConnectionID: req.SupplierConnectionID,
		SupplierProductID:    req.SupplierProductID,
		ProductName:          req.ProductName,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.invalidateCache(c)
	h.logger.Info("Product added to tracked list",
		zap.Int64("supplier_connection_id", req.SupplierConnectionID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, result)
}

// DeleteUserProduct handles DELETE /products/user/:id
func (h *ProductHandler) DeleteUserProduct(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upstream.Products().DeleteUserProduct(c.Request.Context(), id); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.invalidateCache(c)
	h.logger.Info("Product removed from tracked list",
		zap.Int64("product_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}

// UserProductSuppliers handles GET /products/user/:id/suppliers
func (h *ProductHandler) UserProductSuppliers(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.upstream.Products().UserProductSuppliers(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, result)
}

// serveCached writes the cached envelope if one exists
func (h *ProductHandler) serveCached(c *gin.Context, key string) bool {
	if h.cache == nil {
		return false
	}
	payload, ok, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Warn("Query cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
	return true
}

// respondCaching sends the success envelope and stores it for the next call
func (h *ProductHandler) respondCaching(c *gin.Context, key string, data any) {
	envelope := dto.NewSuccessResponse(data)

	if h.cache != nil {
		if payload, err := json.Marshal(envelope); err == nil {
			if err := h.cache.Set(c.Request.Context(), key, payload, 0); err != nil {
				h.logger.Warn("Query cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, envelope)
}

func (h *ProductHandler) invalidateCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateAll(c.Request.Context()); err != nil {
		h.logger.Warn("Query cache invalidation failed", zap.Error(err))
	}
}

func queryInt(c *gin.Context, name string) int {
	return int(queryInt64(c, name))
}

func queryInt64(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
