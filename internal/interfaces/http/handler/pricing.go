package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// PricingHandler handles the fee calculator and pricing rule endpoints
type PricingHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(client *upstream.Client, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{upstream: client, logger: logger}
}

// CalculateRequest runs a price through the marketplace fee calculator
type CalculateRequest struct {
	Platform           string          `json:"platform" binding:"omitempty,oneof=etsy shopify"`
	Price              decimal.Decimal `json:"price" binding:"required"`
	Cost               decimal.Decimal `json:"cost"`
	IsOffsiteAd        bool            `json:"is_offsite_ad"`
	HasShopifyPayments bool            `json:"has_shopify_payments"`
}

// PricingRuleRequest creates or edits a pricing rule
type PricingRuleRequest struct {
	UserProductID    *int64           `json:"user_product_id" binding:"omitempty,min=1"`
	ProductID        *int64           `json:"product_id" binding:"omitempty,min=1"`
	BaseCost         *decimal.Decimal `json:"base_cost"`
	MarkupPercentage *decimal.Decimal `json:"markup_percentage"`
	MarkupFixed      *decimal.Decimal `json:"markup_fixed"`
	MinPrice         *decimal.Decimal `json:"min_price"`
	TargetMargin     *decimal.Decimal `json:"target_margin"`
	FinalPrice       *decimal.Decimal `json:"final_price"`
	Currency         string           `json:"currency" binding:"omitempty,iso4217"`
}

func (r PricingRuleRequest) toInput() upstream.PricingRuleInput {
	return upstream.PricingRuleInput{
		UserProductID:    r.UserProductID,
		ProductID:        r.ProductID,
		BaseCost:         r.BaseCost,
		MarkupPercentage: r.MarkupPercentage,
		MarkupFixed:      r.MarkupFixed,
		MinPrice:         r.MinPrice,
		TargetMargin:     r.TargetMargin,
		FinalPrice:       r.FinalPrice,
		Currency:         r.Currency,
	}
}

// Calculate handles POST /pricing/calculator
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		h.BadRequest(c, "price and cost must not be negative")
		return
	}

	breakdown, err := h.upstream.Pricing().Calculate(c.Request.Context(), upstream.CalculatorInput{
		Platform:           req.Platform,
		Price:              req.Price,
		Cost:               req.Cost,
		IsOffsiteAd:        req.IsOffsiteAd,
		HasShopifyPayments: req.HasShopifyPayments,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, breakdown)
}

// ListRules handles GET /pricing/rules
func (h *PricingHandler) ListRules(c *gin.Context) {
	rules, err := h.upstream.Pricing().Rules(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, rules)
}

// CreateRule handles POST /pricing/rules
func (h *PricingHandler) CreateRule(c *gin.Context) {
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	rule, err := h.upstream.Pricing().CreateRule(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Pricing rule created",
		zap.Int64("rule_id", rule.ID),
		zap.String("request_id", getRequestID(c)))
	h.Created(c, rule)
}

// GetRule handles GET /pricing/rules/:id
func (h *PricingHandler) GetRule(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.upstream.Pricing().Rule(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, rule)
}

// UpdateRule handles PATCH /pricing/rules/:id
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	rule, err := h.upstream.Pricing().UpdateRule(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, rule)
}

// DeleteRule handles DELETE /pricing/rules/:id
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.upstream.Pricing().DeleteRule(c.Request.Context(), id); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Pricing rule deleted",
		zap.Int64("rule_id", id),
		zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}
