package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// AnalyticsService wraps the upstream revenue and profitability endpoints
type AnalyticsService struct {
	client *Client
}

// Period bounds an analytics window
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overview is the dashboard-level rollup for a period
type Overview struct {
	Period         Period          `json:"period"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int             `json:"total_orders"`
	TotalItemsSold int             `json:"total_items_sold"`
	ListingsCount  int             `json:"listings_count"`
	ProductsCount  int             `json:"products_count"`
	TotalCosts     decimal.Decimal `json:"total_costs"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	NetProfit      decimal.Decimal `json:"net_profit"`
}

// ProductStat is the per-product sales rollup
type ProductStat struct {
	ProductID    int64           `json:"product_id"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku,omitempty"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Fees         decimal.Decimal `json:"fees"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
	SupplierType string          `json:"supplier_type,omitempty"`
}

// ProfitabilityRow is one product's profitability breakdown
type ProfitabilityRow struct {
	ProductID    int64            `json:"product_id"`
	Title        string           `json:"title"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	Fees         decimal.Decimal  `json:"fees"`
	Profit       decimal.Decimal  `json:"profit"`
	MarginPct    *decimal.Decimal `json:"margin_pct,omitempty"`
	Platform     string           `json:"platform,omitempty"`
	ShopID       int64            `json:"shop_id,omitempty"`
	IsProfitable bool             `json:"is_profitable"`
}

// AnalyticsFilter narrows the reporting window
type AnalyticsFilter struct {
	Days   int
	ShopID int64
}

func (f AnalyticsFilter) values() url.Values {
	v := url.Values{}
	if f.Days > 0 {
		v.Set("days", strconv.Itoa(f.Days))
	}
	if f.ShopID > 0 {
		v.Set("shop_id", strconv.FormatInt(f.ShopID, 10))
	}
	return v
}

// Overview fetches the dashboard rollup
func (s *AnalyticsService) Overview(ctx context.Context, filter AnalyticsFilter) (*Overview, error) {
	var result Overview
	if err := s.client.get(ctx, "/analytics/overview", filter.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Products fetches the per-product sales rollup
func (s *AnalyticsService) Products(ctx context.Context, filter AnalyticsFilter) ([]ProductStat, error) {
	var result struct {
		Products []ProductStat `json:"products"`
	}
	if err := s.client.get(ctx, "/analytics/products", filter.values(), &result); err != nil {
		return nil, err
	}
	return result.Products, nil
}

// Profitability fetches the per-product profitability breakdown
func (s *AnalyticsService) Profitability(ctx context.Context, filter AnalyticsFilter) ([]ProfitabilityRow, error) {
	var result struct {
		Products []ProfitabilityRow `json:"products"`
	}
	if err := s.client.get(ctx, "/analytics/profitability", filter.values(), &result); err != nil {
		return nil, err
	}
	return result.Products, nil
}
