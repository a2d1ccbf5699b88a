package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ProductService wraps the upstream supplier comparison endpoints. The
// comparison math itself runs upstream; rows are passed through untouched.
type ProductService struct {
	client *Client
}

// ComparisonList is the supplier price comparison across tracked products
type ComparisonList struct {
	Products           []json.RawMessage `json:"products"`
	Total              int               `json:"total"`
	SuppliersConnected []string          `json:"suppliers_connected"`
	Message            string            `json:"message,omitempty"`
}

// CompareFilter narrows the comparison list
type CompareFilter struct {
	ProductType string
	ShopID      int64
	Supplier    string
}

// SwitchInput moves a product to another supplier
type SwitchInput struct {
	ProductID       int64  `json:"product_id"`
	TargetSupplier  string `json:"target_supplier"`
	TargetProductID string `json:"target_product_id,omitempty"`
}

// BulkSwitchInput moves several products to another supplier
type BulkSwitchInput struct {
	ProductIDs     []int64 `json:"product_ids"`
	TargetSupplier string  `json:"target_supplier"`
}

// Compare fetches the comparison list, optionally filtered
func (s *ProductService) Compare(ctx context.Context, filter CompareFilter) (*ComparisonList, error) {
	v := url.Values{}
	if filter.ProductType != "" {
		v.Set("product_type", filter.ProductType)
	}
	if filter.ShopID > 0 {
		v.Set("shop_id", fmt.Sprintf("%d", filter.ShopID))
	}
	if filter.Supplier != "" {
		v.Set("supplier", filter.Supplier)
	}

	var result ComparisonList
	if err := s.client.get(ctx, "/products/compare", v, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Comparison fetches the detailed comparison for one product
func (s *ProductService) Comparison(ctx context.Context, productID int64) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.get(ctx, fmt.Sprintf("/products/compare/%d", productID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ComparisonSummary fetches the aggregate comparison summary
func (s *ProductService) ComparisonSummary(ctx context.Context) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.get(ctx, "/products/compare/summary", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Switch moves one product to a different supplier
func (s *ProductService) Switch(ctx context.Context, input SwitchInput) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.post(ctx, "/products/switch", input, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// BulkSwitch moves several products to a different supplier
func (s *ProductService) BulkSwitch(ctx context.Context, input BulkSwitchInput) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.post(ctx, "/products/switch/bulk", input, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Types fetches the known product types
func (s *ProductService) Types(ctx context.Context) ([]string, error) {
	var result struct {
		Types []string `json:"types"`
	}
	if err := s.client.get(ctx, "/products/types", nil, &result); err != nil {
		return nil, err
	}
	return result.Types, nil
}

// FindMatches fetches candidate matches for a product across suppliers
func (s *ProductService) FindMatches(ctx context.Context, productID int64) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.get(ctx, fmt.Sprintf("/products/match/%d", productID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UserProductFilter narrows the tracked-product list
type UserProductFilter struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Supplier string
}

func (f UserProductFilter) values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", fmt.Sprintf("%d", f.Page))
	}
	if f.PerPage > 0 {
		v.Set("per_page", fmt.Sprintf("%d", f.PerPage))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Supplier != "" {
		v.Set("supplier", f.Supplier)
	}
	return v
}

// UserProductPage is one page of the user's tracked products
type UserProductPage struct {
	Products   []json.RawMessage `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// UserCatalogPage is one page of a supplier's browsable catalog
type UserCatalogPage struct {
	Products   []json.RawMessage `json:"products"`
	Categories []string          `json:"categories"`
	Pagination Pagination        `json:"pagination"`
	Supplier   json.RawMessage   `json:"supplier"`
}

// AddUserProductInput tracks a supplier catalog product
type AddUserProductInput struct {
	SupplierConnectionID int64  `json:"supplier_connection_id"`
	SupplierProductID    int64  `json:"supplier_product_id"`
	ProductName          string `json:"product_name,omitempty"`
}

// UserProducts fetches a page of the user's tracked products
func (s *ProductService) UserProducts(ctx context.Context, filter UserProductFilter) (*UserProductPage, error) {
	var result UserProductPage
	if err := s.client.get(ctx, "/products/user/list", filter.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog fetches a page of a connected supplier's catalog
func (s *ProductService) Catalog(ctx context.Context, connectionID int64, filter UserProductFilter) (*UserCatalogPage, error) {
	var result UserCatalogPage
	if err := s.client.get(ctx, fmt.Sprintf("/products/user/catalog/%d", connectionID), filter.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddUserProduct tracks a catalog product; the upstream also scans the other
// connected suppliers for matching products
func (s *ProductService) AddUserProduct(ctx context.Context, input AddUserProductInput) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.post(ctx, "/products/user/add", input, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteUserProduct stops tracking a product
func (s *ProductService) DeleteUserProduct(ctx context.Context, productID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/products/user/%d", productID), nil)
}

// UserProductSuppliers fetches every supplier carrying the product, with
// pricing and availability
func (s *ProductService) UserProductSuppliers(ctx context.Context, productID int64) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.get(ctx, fmt.Sprintf("/products/user/%d/suppliers", productID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
