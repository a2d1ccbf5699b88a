package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// TemplateHandler handles listing template endpoints
type TemplateHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(client *upstream.Client, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{upstream: client, logger: logger}
}

// TemplateRequest creates or updates a template
type TemplateRequest struct {
	Name               string           `json:"name" binding:"omitempty,max=255"`
	Description        string           `json:"description" binding:"omitempty,max=2000"`
	DefaultTitle       string           `json:"default_title" binding:"omitempty,max=255"`
	DefaultDescription string           `json:"default_description"`
	DefaultTags        []string         `json:"default_tags" binding:"omitempty,max=13,dive,max=30"`
	DefaultPriceMarkup *decimal.Decimal `json:"default_price_markup"`
	TargetPlatforms    []string         `json:"target_platforms" binding:"omitempty,dive,oneof=etsy shopify"`
	IsActive           *bool            `json:"is_active"`
}

// TemplateProductRequest attaches or edits a template product
type TemplateProductRequest struct {
	SupplierType      string           `json:"supplier_type" binding:"omitempty,oneof=printify printful gelato"`
	ProductName       string           `json:"product_name" binding:"omitempty,max=255"`
	ProductType       string           `json:"product_type" binding:"omitempty,max=128"`
	ExternalProductID string           `json:"external_product_id"`
	SelectedSizes     []string         `json:"selected_sizes"`
	PriceOverride     *decimal.Decimal `json:"price_override"`
}

// TemplateColorRequest adds a color option to a template product
type TemplateColorRequest struct {
	ColorName   string `json:"color_name" binding:"required,max=64"`
	ColorHex    string `json:"color_hex" binding:"omitempty,hexcolor"`
	DisplayName string `json:"display_name" binding:"omitempty,max=64"`
}

// CreateListingRequest publishes a listing from a template into a shop
type CreateListingRequest struct {
	ShopID      int64            `json:"shop_id" binding:"required,min=1"`
	Title       string           `json:"title" binding:"omitempty,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []string         `json:"tags" binding:"omitempty,max=13,dive,max=30"`
	Images      []string         `json:"images" binding:"omitempty,dive,url"`
}

// PreviewRequest renders a listing preview without publishing
type PreviewRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (r TemplateRequest) toInput() upstream.TemplateInput {
	return upstream.TemplateInput{
		Name:               r.Name,
		Description:        r.Description,
		DefaultTitle:       r.DefaultTitle,
		DefaultDescription: r.DefaultDescription,
		DefaultTags:        r.DefaultTags,
		DefaultPriceMarkup: r.DefaultPriceMarkup,
		TargetPlatforms:    r.TargetPlatforms,
		IsActive:           r.IsActive,
	}
}

func (r TemplateProductRequest) toInput() upstream.TemplateProductInput {
	return upstream.TemplateProductInput{
		SupplierType:      r.SupplierType,
		ProductName:       r.ProductName,
		ProductType:       r.ProductType,
		ExternalProductID: r.ExternalProductID,
		SelectedSizes:     r.SelectedSizes,
		PriceOverride:     r.PriceOverride,
	}
}

// List handles GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	includeProducts := c.Query("include_products") == "true"
	templates, err := h.upstream.Templates().List(c.Request.Context(), includeProducts)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, templates)
}

// Get handles GET /templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tpl, err := h.upstream.Templates().Get(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, tpl)
}

// Create handles POST /templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.Name == "" {
		h.BadRequest(c, "template name is required")
		return
	}

	tpl, err := h.upstream.Templates().Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Template created",
		zap.Int64("template_id", tpl.ID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, tpl)
}

// Update handles PATCH /templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	tpl, err := h.upstream.Templates().Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, tpl)
}

// Delete handles DELETE /templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upstream.Templates().Delete(c.Request.Context(), id); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Template deleted",
		zap.Int64("template_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}

// AddProduct handles POST /templates/:id/products
func (h *TemplateHandler) AddProduct(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req TemplateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.SupplierType == "" || req.ProductName == "" {
		h.BadRequest(c, "supplier_type and product_name are required")
		return
	}

	product, err := h.upstream.Templates().AddProduct(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct handles PATCH /templates/:id/products/:productId
func (h *TemplateHandler) UpdateProduct(c *gin.Context) {
	id, productID, err := templateProductIDs(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req TemplateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	product, err := h.upstream.Templates().UpdateProduct(c.Request.Context(), id, productID, req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct handles DELETE /templates/:id/products/:productId
func (h *TemplateHandler) DeleteProduct(c *gin.Context) {
	id, productID, err := templateProductIDs(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upstream.Templates().DeleteProduct(c.Request.Context(), id, productID); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.NoContent(c)
}

// AddColor handles POST /templates/:id/products/:productId/colors
func (h *TemplateHandler) AddColor(c *gin.Context) {
	id, productID, err := templateProductIDs(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req TemplateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	color, err := h.upstream.Templates().AddColor(c.Request.Context(), id, productID, upstream.TemplateColorInput{
		ColorName:   req.ColorName,
		ColorHex:    req.ColorHex,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Created(c, color)
}

// DeleteColor handles DELETE /templates/:id/products/:productId/colors/:colorId
func (h *TemplateHandler) DeleteColor(c *gin.Context) {
	id, productID, err := templateProductIDs(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	colorID := queryPathInt64(c, "colorId")
	if colorID <= 0 {
		h.BadRequest(c, "invalid color id")
		return
	}

	if err := h.upstream.Templates().DeleteColor(c.Request.Context(), id, productID, colorID); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.NoContent(c)
}

// CreateListing handles POST /templates/:id/create-listing
func (h *TemplateHandler) CreateListing(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	err = h.upstream.Templates().CreateListing(c.Request.Context(), id, upstream.CreateListingInput{
		ShopID:      req.ShopID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Listing created from template",
		zap.Int64("template_id", id),
		zap.Int64("shop_id", req.ShopID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, gin.H{"template_id": id, "shop_id": req.ShopID})
}

// Preview handles POST /templates/:id/preview
func (h *TemplateHandler) Preview(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	preview, err := h.upstream.Templates().Preview(c.Request.Context(), id, upstream.PreviewInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, preview)
}

// ProductPricing handles GET /templates/:id/products/:productId/pricing.
// The view query param picks the grouping: config (default), size, or color.
func (h *TemplateHandler) ProductPricing(c *gin.Context) {
	id, productID, err := templateProductIDs(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view := c.DefaultQuery("view", "config")
	switch view {
	case "config", "size", "color":
	default:
		h.BadRequest(c, "view must be config, size, or color")
		return
	}

	pricing, err := h.upstream.Templates().ProductPricing(c.Request.Context(), id, productID, view)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, pricing)
}

func templateProductIDs(c *gin.Context) (int64, int64, error) {
	id, err := bindID(c)
	if err != nil {
		return 0, 0, err
	}
	productID := queryPathInt64(c, "productId")
	if productID <= 0 {
		return 0, 0, errInvalidProductID
	}
	return id, productID, nil
}
