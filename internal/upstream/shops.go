package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ShopService wraps the upstream marketplace shop endpoints
type ShopService struct {
	client *Client
}

// Shop is a connected marketplace storefront (Etsy or Shopify)
type Shop struct {
	ID              int64  `json:"id"`
	ShopType        string `json:"shop_type"`
	ShopName        string `json:"shop_name"`
	ShopID          string `json:"shop_id,omitempty"`
	ShopURL         string `json:"shop_url,omitempty"`
	ShopifyDomain   string `json:"shopify_domain,omitempty"`
	IsActive        bool   `json:"is_active"`
	IsConnected     bool   `json:"is_connected"`
	LastSync        string `json:"last_sync,omitempty"`
	ConnectionError string `json:"connection_error,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// ConnectEtsyInput links an Etsy shop with tokens obtained via OAuth
type ConnectEtsyInput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ShopID       string `json:"shop_id,omitempty"`
}

// ConnectShopifyInput links a Shopify storefront
type ConnectShopifyInput struct {
	AccessToken string `json:"access_token"`
	ShopDomain  string `json:"shop_domain"`
}

// ShopProduct is a listing pulled from a connected shop
type ShopProduct struct {
	ID                int64           `json:"id"`
	ShopID            int64           `json:"shop_id"`
	ListingID         string          `json:"listing_id,omitempty"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	SupplierType      string          `json:"supplier_type,omitempty"`
	SupplierProductID string          `json:"supplier_product_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency,omitempty"`
	ProductType       string          `json:"product_type,omitempty"`
	Category          string          `json:"category,omitempty"`
	ThumbnailURL      string          `json:"thumbnail_url,omitempty"`
	IsActive          bool            `json:"is_active"`
	SyncStatus        string          `json:"sync_status,omitempty"`
	SyncError         string          `json:"sync_error,omitempty"`
	CreatedAt         string          `json:"created_at,omitempty"`
	LastSyncedAt      string          `json:"last_synced_at,omitempty"`
}

// ShopProductPage is a page of shop listings
type ShopProductPage struct {
	Products   []ShopProduct `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// List fetches all connected shops
func (s *ShopService) List(ctx context.Context) ([]Shop, error) {
	var result struct {
		Shops []Shop `json:"shops"`
	}
	if err := s.client.get(ctx, "/shops", nil, &result); err != nil {
		return nil, err
	}
	return result.Shops, nil
}

// Get fetches one shop by ID
func (s *ShopService) Get(ctx context.Context, id int64) (*Shop, error) {
	var shop Shop
	if err := s.client.get(ctx, shopPath(id), nil, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// ConnectEtsy links an Etsy shop
func (s *ShopService) ConnectEtsy(ctx context.Context, input ConnectEtsyInput) (*Shop, error) {
	var shop Shop
	if err := s.client.post(ctx, "/shops/etsy/connect", input, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// ConnectShopify links a Shopify storefront
func (s *ShopService) ConnectShopify(ctx context.Context, input ConnectShopifyInput) (*Shop, error) {
	var shop Shop
	if err := s.client.post(ctx, "/shops/shopify/connect", input, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// Disconnect severs the shop's marketplace link but keeps its records
func (s *ShopService) Disconnect(ctx context.Context, id int64) error {
	return s.client.post(ctx, shopPath(id)+"/disconnect", nil, nil)
}

// Delete removes the shop and its synced data
func (s *ShopService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, shopPath(id)+"/delete", nil)
}

// Sync triggers a listing sync for the shop
func (s *ShopService) Sync(ctx context.Context, id int64) error {
	return s.client.post(ctx, shopPath(id)+"/sync", nil, nil)
}

// Products fetches a page of the shop's listings
func (s *ShopService) Products(ctx context.Context, id int64, page ListOptions) (*ShopProductPage, error) {
	var result ShopProductPage
	if err := s.client.get(ctx, shopPath(id)+"/products", page.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Product fetches one listing from the shop
func (s *ShopService) Product(ctx context.Context, id, productID int64) (*ShopProduct, error) {
	var p ShopProduct
	if err := s.client.get(ctx, fmt.Sprintf("%s/products/%d", shopPath(id), productID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func shopPath(id int64) string {
	return fmt.Sprintf("/shops/%d", id)
}
