package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingService wraps the upstream fee calculator and pricing rules.
// All fee math happens upstream; the gateway only displays the results.
type PricingService struct {
	client *Client
}

// CalculatorInput describes a price to run through the fee calculator
type CalculatorInput struct {
	Platform           string          `json:"platform,omitempty"`
	Price              decimal.Decimal `json:"price"`
	Cost               decimal.Decimal `json:"cost,omitempty"`
	IsOffsiteAd        bool            `json:"is_offsite_ad,omitempty"`
	HasShopifyPayments bool            `json:"has_shopify_payments,omitempty"`
}

// FeeBreakdown is the calculator's answer
type FeeBreakdown struct {
	Platform      string           `json:"platform"`
	Price         decimal.Decimal  `json:"price"`
	Cost          decimal.Decimal  `json:"cost"`
	TotalFees     decimal.Decimal  `json:"total_fees"`
	Net           decimal.Decimal  `json:"net"`
	GrossProfit   *decimal.Decimal `json:"gross_profit,omitempty"`
	MarginPercent *decimal.Decimal `json:"margin_percent,omitempty"`
}

// PricingRule is a per-product pricing policy
type PricingRule struct {
	ID               int64            `json:"id"`
	UserProductID    *int64           `json:"user_product_id,omitempty"`
	ProductID        *int64           `json:"product_id,omitempty"`
	BaseCost         *decimal.Decimal `json:"base_cost,omitempty"`
	MarkupPercentage *decimal.Decimal `json:"markup_percentage,omitempty"`
	MarkupFixed      *decimal.Decimal `json:"markup_fixed,omitempty"`
	MinPrice         *decimal.Decimal `json:"min_price,omitempty"`
	TargetMargin     *decimal.Decimal `json:"target_margin,omitempty"`
	FinalPrice       *decimal.Decimal `json:"final_price,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

// PricingRuleInput creates or edits a pricing rule
type PricingRuleInput struct {
	UserProductID    *int64           `json:"user_product_id,omitempty"`
	ProductID        *int64           `json:"product_id,omitempty"`
	BaseCost         *decimal.Decimal `json:"base_cost,omitempty"`
	MarkupPercentage *decimal.Decimal `json:"markup_percentage,omitempty"`
	MarkupFixed      *decimal.Decimal `json:"markup_fixed,omitempty"`
	MinPrice         *decimal.Decimal `json:"min_price,omitempty"`
	TargetMargin     *decimal.Decimal `json:"target_margin,omitempty"`
	FinalPrice       *decimal.Decimal `json:"final_price,omitempty"`
	Currency         string           `json:"currency,omitempty"`
}

// Calculate runs the marketplace fee calculator
func (s *PricingService) Calculate(ctx context.Context, input CalculatorInput) (*FeeBreakdown, error) {
	var result FeeBreakdown
	if err := s.client.post(ctx, "/pricing/calculator", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Rules fetches all pricing rules
func (s *PricingService) Rules(ctx context.Context) ([]PricingRule, error) {
	var result struct {
		Rules []PricingRule `json:"rules"`
	}
	if err := s.client.get(ctx, "/pricing/rules", nil, &result); err != nil {
		return nil, err
	}
	return result.Rules, nil
}

// CreateRule creates a pricing rule
func (s *PricingService) CreateRule(ctx context.Context, input PricingRuleInput) (*PricingRule, error) {
	var rule PricingRule
	if err := s.client.post(ctx, "/pricing/rules", input, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Rule fetches one pricing rule
func (s *PricingService) Rule(ctx context.Context, id int64) (*PricingRule, error) {
	var rule PricingRule
	if err := s.client.get(ctx, rulePath(id), nil, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// UpdateRule applies a partial rule edit
func (s *PricingService) UpdateRule(ctx context.Context, id int64, input PricingRuleInput) (*PricingRule, error) {
	var rule PricingRule
	if err := s.client.patch(ctx, rulePath(id), input, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeleteRule removes a pricing rule
func (s *PricingService) DeleteRule(ctx context.Context, id int64) error {
	return s.client.delete(ctx, rulePath(id), nil)
}

func rulePath(id int64) string {
	return fmt.Sprintf("/pricing/rules/%d", id)
}
