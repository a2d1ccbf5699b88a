package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderService wraps the upstream order tracking endpoints
type OrderService struct {
	client *Client
}

// Order is a marketplace order pulled from a connected shop
type Order struct {
	ID          int64           `json:"id"`
	ShopID      int64           `json:"shop_id"`
	Platform    string          `json:"platform,omitempty"`
	ExternalID  string          `json:"external_id,omitempty"`
	Status      string          `json:"status"`
	BuyerName   string          `json:"buyer_name,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id,omitempty"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SupplierType string          `json:"supplier_type,omitempty"`
}

// OrderPage is a page of orders
type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// List fetches orders, filterable by platform, shop, and status
func (s *OrderService) List(ctx context.Context, page ListOptions) (*OrderPage, error) {
	var result OrderPage
	if err := s.client.get(ctx, "/orders", page.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Fulfillment fetches orders still pending fulfillment
func (s *OrderService) Fulfillment(ctx context.Context, page ListOptions) (*OrderPage, error) {
	var result OrderPage
	if err := s.client.get(ctx, "/orders/fulfillment", page.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches one order with its items
func (s *OrderService) Get(ctx context.Context, id int64) (*Order, error) {
	var order Order
	if err := s.client.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
