package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// DiscountHandler handles the discount program endpoints
type DiscountHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(client *upstream.Client, logger *zap.Logger) *DiscountHandler {
	return &DiscountHandler{upstream: client, logger: logger}
}

// DiscountProgramRequest creates or edits a discount program
type DiscountProgramRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	DiscountType      string           `json:"discount_type" binding:"omitempty,oneof=percentage fixed free_shipping"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	StartDate         string           `json:"start_date" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate           string           `json:"end_date" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsRecurring       *bool            `json:"is_recurring"`
	RecurrencePattern string           `json:"recurrence_pattern"`
	MinMarginRequired *decimal.Decimal `json:"min_margin_required"`
	IsActive          *bool            `json:"is_active"`
}

func (r DiscountProgramRequest) toInput() upstream.DiscountProgramInput {
	return upstream.DiscountProgramInput{
		Name:              r.Name,
		Description:       r.Description,
		DiscountType:      r.DiscountType,
		DiscountValue:     r.DiscountValue,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		IsRecurring:       r.IsRecurring,
		RecurrencePattern: r.RecurrencePattern,
		MinMarginRequired: r.MinMarginRequired,
		IsActive:          r.IsActive,
	}
}

// DiscountMappingRequest maps a product into a program
type DiscountMappingRequest struct {
	UserProductID *int64 `json:"user_product_id" binding:"omitempty,min=1"`
	ProductID     *int64 `json:"product_id" binding:"omitempty,min=1"`
}

// List handles GET /discounts
func (h *DiscountHandler) List(c *gin.Context) {
	programs, err := h.upstream.Discounts().Programs(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, programs)
}

// Create handles POST /discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var req DiscountProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.Name == "" {
		h.BadRequest(c, "name is required")
		return
	}
	if req.DiscountType == "" {
		h.BadRequest(c, "discount_type is required")
		return
	}

	program, err := h.upstream.Discounts().CreateProgram(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Discount program created",
		zap.Int64("program_id", program.ID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, program)
}

// Get handles GET /discounts/:id
func (h *DiscountHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	program, err := h.upstream.Discounts().Program(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, program)
}

// Update handles PATCH /discounts/:id
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req DiscountProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	program, err := h.upstream.Discounts().UpdateProgram(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, program)
}

// Delete handles DELETE /discounts/:id
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upstream.Discounts().DeleteProgram(c.Request.Context(), id); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Discount program deleted",
		zap.Int64("program_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}

// AddMapping handles POST /discounts/:id/products
func (h *DiscountHandler) AddMapping(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req DiscountMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.UserProductID == nil && req.ProductID == nil {
		h.BadRequest(c, "user_product_id or product_id required")
		return
	}

	mapping, err := h.upstream.Discounts().AddMapping(c.Request.Context(), id, upstream.DiscountMappingInput{
		UserProductID: req.UserProductID,
		ProductID:     req.ProductID,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Created(c, mapping)
}

// RemoveMapping handles DELETE /discounts/:id/products/:mappingId
func (h *DiscountHandler) RemoveMapping(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	mappingID := queryPathInt64(c, "mappingId")
	if mappingID <= 0 {
		h.BadRequest(c, "invalid mapping id")
		return
	}

	if err := h.upstream.Discounts().RemoveMapping(c.Request.Context(), id, mappingID); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.NoContent(c)
}
