package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// TemplateService wraps the upstream listing template endpoints
type TemplateService struct {
	client *Client
}

// Template is a reusable listing blueprint
type Template struct {
	ID                 int64             `json:"id"`
	UserID             int64             `json:"user_id,omitempty"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	DefaultTitle       string            `json:"default_title,omitempty"`
	DefaultDescription string            `json:"default_description,omitempty"`
	DefaultTags        []string          `json:"default_tags,omitempty"`
	DefaultPriceMarkup *decimal.Decimal  `json:"default_price_markup,omitempty"`
	DefaultPriceFixed  *decimal.Decimal  `json:"default_price_fixed,omitempty"`
	TargetPlatforms    []string          `json:"target_platforms,omitempty"`
	EtsyCategory       string            `json:"etsy_category,omitempty"`
	ShopifyCategory    string            `json:"shopify_category,omitempty"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          string            `json:"created_at,omitempty"`
	UpdatedAt          string            `json:"updated_at,omitempty"`
	Products           []TemplateProduct `json:"products,omitempty"`
}

// TemplateProduct is a supplier product attached to a template
type TemplateProduct struct {
	ID                int64            `json:"id"`
	TemplateID        int64            `json:"template_id"`
	SupplierType      string           `json:"supplier_type"`
	ExternalProductID string           `json:"external_product_id,omitempty"`
	ProductName       string           `json:"product_name"`
	ProductType       string           `json:"product_type,omitempty"`
	AliasName         string           `json:"alias_name,omitempty"`
	SelectedSizes     []string         `json:"selected_sizes,omitempty"`
	PricingMode       string           `json:"pricing_mode,omitempty"`
	GlobalPrice       *decimal.Decimal `json:"global_price,omitempty"`
	PriceOverride     *decimal.Decimal `json:"price_override,omitempty"`
	PriceMarkup       *decimal.Decimal `json:"price_markup,omitempty"`
	DisplayOrder      int              `json:"display_order,omitempty"`
	IsActive          bool             `json:"is_active"`
	Colors            []TemplateColor  `json:"colors,omitempty"`
}

// TemplateColor is a color option on a template product
type TemplateColor struct {
	ID          int64  `json:"id"`
	ColorName   string `json:"color_name"`
	ColorHex    string `json:"color_hex,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// TemplateInput creates or updates a template
type TemplateInput struct {
	Name               string           `json:"name,omitempty"`
	Description        string           `json:"description,omitempty"`
	DefaultTitle       string           `json:"default_title,omitempty"`
	DefaultDescription string           `json:"default_description,omitempty"`
	DefaultTags        []string         `json:"default_tags,omitempty"`
	DefaultPriceMarkup *decimal.Decimal `json:"default_price_markup,omitempty"`
	TargetPlatforms    []string         `json:"target_platforms,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

// TemplateProductInput attaches or edits a template product
type TemplateProductInput struct {
	SupplierType      string           `json:"supplier_type,omitempty"`
	ProductName       string           `json:"product_name,omitempty"`
	ProductType       string           `json:"product_type,omitempty"`
	ExternalProductID string           `json:"external_product_id,omitempty"`
	SelectedSizes     []string         `json:"selected_sizes,omitempty"`
	PriceOverride     *decimal.Decimal `json:"price_override,omitempty"`
}

// TemplateColorInput adds a color to a template product
type TemplateColorInput struct {
	ColorName   string `json:"color_name"`
	ColorHex    string `json:"color_hex,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// CreateListingInput publishes a listing from a template into a shop
type CreateListingInput struct {
	ShopID      int64            `json:"shop_id"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Images      []string         `json:"images,omitempty"`
}

// PreviewInput renders a listing preview without publishing
type PreviewInput struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// List fetches all templates, optionally with their attached products
func (s *TemplateService) List(ctx context.Context, includeProducts bool) ([]Template, error) {
	v := url.Values{}
	if includeProducts {
		v.Set("include_products", "true")
	}
	var result struct {
		Templates []Template `json:"templates"`
	}
	if err := s.client.get(ctx, "/templates", v, &result); err != nil {
		return nil, err
	}
	return result.Templates, nil
}

// Get fetches one template with its products
func (s *TemplateService) Get(ctx context.Context, id int64) (*Template, error) {
	var tpl Template
	if err := s.client.get(ctx, templatePath(id), nil, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Create creates a template
func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*Template, error) {
	var tpl Template
	if err := s.client.post(ctx, "/templates", input, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Update applies a partial template edit
func (s *TemplateService) Update(ctx context.Context, id int64, input TemplateInput) (*Template, error) {
	var tpl Template
	if err := s.client.patch(ctx, templatePath(id), input, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, templatePath(id), nil)
}

// AddProduct attaches a supplier product to a template
func (s *TemplateService) AddProduct(ctx context.Context, id int64, input TemplateProductInput) (*TemplateProduct, error) {
	var p TemplateProduct
	if err := s.client.post(ctx, templatePath(id)+"/products", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct edits an attached template product
func (s *TemplateService) UpdateProduct(ctx context.Context, id, productID int64, input TemplateProductInput) (*TemplateProduct, error) {
	var p TemplateProduct
	if err := s.client.patch(ctx, templateProductPath(id, productID), input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct detaches a template product
func (s *TemplateService) DeleteProduct(ctx context.Context, id, productID int64) error {
	return s.client.delete(ctx, templateProductPath(id, productID), nil)
}

// AddColor adds a color option to a template product
func (s *TemplateService) AddColor(ctx context.Context, id, productID int64, input TemplateColorInput) (*TemplateColor, error) {
	var c TemplateColor
	if err := s.client.post(ctx, templateProductPath(id, productID)+"/colors", input, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteColor removes a color option
func (s *TemplateService) DeleteColor(ctx context.Context, id, productID, colorID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("%s/colors/%d", templateProductPath(id, productID), colorID), nil)
}

// CreateListing publishes a listing built from the template
func (s *TemplateService) CreateListing(ctx context.Context, id int64, input CreateListingInput) error {
	return s.client.post(ctx, templatePath(id)+"/create-listing", input, nil)
}

// ProductPricing fetches the cost/price/profit table for a template product.
// view selects the grouping: "config" (size+color), "size", or "color".
func (s *TemplateService) ProductPricing(ctx context.Context, id, productID int64, view string) (json.RawMessage, error) {
	v := url.Values{}
	if view != "" {
		v.Set("view", view)
	}
	var result json.RawMessage
	if err := s.client.get(ctx, templateProductPath(id, productID)+"/pricing", v, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Preview renders the listing the template would produce
func (s *TemplateService) Preview(ctx context.Context, id int64, input PreviewInput) (*Template, error) {
	var tpl Template
	if err := s.client.post(ctx, templatePath(id)+"/preview", input, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func templatePath(id int64) string {
	return fmt.Sprintf("/templates/%d", id)
}

func templateProductPath(id, productID int64) string {
	return fmt.Sprintf("/templates/%d/products/%d", id, productID)
}
