package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// SupplierService wraps the upstream POD supplier connection endpoints
type SupplierService struct {
	client *Client
}

// SupplierConnection is a linked POD supplier account
type SupplierConnection struct {
	ID              int64  `json:"id"`
	SupplierType    string `json:"supplier_type"`
	AccountName     string `json:"account_name,omitempty"`
	AccountEmail    string `json:"account_email,omitempty"`
	AccountID       string `json:"account_id,omitempty"`
	IsActive        bool   `json:"is_active"`
	IsConnected     bool   `json:"is_connected"`
	LastSync        string `json:"last_sync,omitempty"`
	ConnectionError string `json:"connection_error,omitempty"`
	ShopID          string `json:"shop_id,omitempty"`
	StoreID         string `json:"store_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// ConnectInput links a supplier account by API key
type ConnectInput struct {
	APIKey string `json:"api_key"`
	ShopID string `json:"shop_id,omitempty"`
}

// CatalogProduct is one product from a supplier catalog
type CatalogProduct struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ProductType  string          `json:"product_type,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	Model        string          `json:"model,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Variants     int             `json:"variants,omitempty"`
}

// CatalogPage is a page of supplier catalog products
type CatalogPage struct {
	Products   []CatalogProduct `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// SupplierStatus summarizes connection health per supplier type
type SupplierStatus struct {
	SupplierType string `json:"supplier_type"`
	Connected    int    `json:"connected"`
	Active       int    `json:"active"`
	LastSync     string `json:"last_sync,omitempty"`
}

// List fetches all supplier connections
func (s *SupplierService) List(ctx context.Context) ([]SupplierConnection, error) {
	var result struct {
		Suppliers []SupplierConnection `json:"suppliers"`
	}
	if err := s.client.get(ctx, "/suppliers", nil, &result); err != nil {
		return nil, err
	}
	return result.Suppliers, nil
}

// ByType fetches the connections for one supplier type
func (s *SupplierService) ByType(ctx context.Context, supplierType string) ([]SupplierConnection, error) {
	var result struct {
		Suppliers []SupplierConnection `json:"suppliers"`
	}
	if err := s.client.get(ctx, "/suppliers/"+supplierType, nil, &result); err != nil {
		return nil, err
	}
	return result.Suppliers, nil
}

// Connection fetches one connection by ID
func (s *SupplierService) Connection(ctx context.Context, id int64) (*SupplierConnection, error) {
	var conn SupplierConnection
	if err := s.client.get(ctx, connectionPath(id), nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Connect links a new supplier account
func (s *SupplierService) Connect(ctx context.Context, supplierType string, input ConnectInput) (*SupplierConnection, error) {
	var conn SupplierConnection
	if err := s.client.post(ctx, "/suppliers/"+supplierType+"/connect", input, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Disconnect severs a connection by ID
func (s *SupplierService) Disconnect(ctx context.Context, id int64) error {
	return s.client.post(ctx, connectionPath(id)+"/disconnect", nil, nil)
}

// Activate enables a connection
func (s *SupplierService) Activate(ctx context.Context, id int64) error {
	return s.client.post(ctx, connectionPath(id)+"/activate", nil, nil)
}

// Deactivate disables a connection without severing it
func (s *SupplierService) Deactivate(ctx context.Context, id int64) error {
	return s.client.post(ctx, connectionPath(id)+"/deactivate", nil, nil)
}

// Sync triggers a catalog sync for a connection
func (s *SupplierService) Sync(ctx context.Context, id int64) error {
	return s.client.post(ctx, connectionPath(id)+"/sync", nil, nil)
}

// Products fetches a page of the connection's catalog
func (s *SupplierService) Products(ctx context.Context, id int64, page ListOptions) (*CatalogPage, error) {
	var result CatalogPage
	if err := s.client.get(ctx, connectionPath(id)+"/products", page.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Status fetches the per-supplier connection health summary
func (s *SupplierService) Status(ctx context.Context) ([]SupplierStatus, error) {
	var result struct {
		Suppliers []SupplierStatus `json:"suppliers"`
	}
	if err := s.client.get(ctx, "/suppliers/status", nil, &result); err != nil {
		return nil, err
	}
	return result.Suppliers, nil
}

func connectionPath(id int64) string {
	return fmt.Sprintf("/suppliers/connection/%d", id)
}

// ListOptions carries common pagination and search parameters through to
// the upstream; the gateway tracks no pagination state of its own
type ListOptions struct {
	Page     int
	PerPage  int
	Search   string
	Supplier string
	Platform string
	ShopID   int64
	Status   string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Supplier != "" {
		v.Set("supplier", o.Supplier)
	}
	if o.Platform != "" {
		v.Set("platform", o.Platform)
	}
	if o.ShopID > 0 {
		v.Set("shop_id", strconv.FormatInt(o.ShopID, 10))
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	return v
}

// Pagination mirrors the upstream page envelope
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}
