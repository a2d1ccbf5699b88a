package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListingService wraps the unified cross-shop listings view
type ListingService struct {
	client *Client
}

// ListingFilter narrows the unified listings list
type ListingFilter struct {
	Page     int
	PerPage  int
	ShopID   int64
	Supplier string
	Search   string
}

func (f ListingFilter) values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.ShopID > 0 {
		v.Set("shop_id", strconv.FormatInt(f.ShopID, 10))
	}
	if f.Supplier != "" {
		v.Set("supplier", f.Supplier)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// ListingShop identifies the shop a listing belongs to
type ListingShop struct {
	ID       int64  `json:"id"`
	ShopName string `json:"shop_name"`
	ShopType string `json:"shop_type"`
}

// ListingPage is one page of listings across every connected shop. Listing
// rows carry variant data whose schema the upstream owns, so they pass
// through untouched.
type ListingPage struct {
	Listings   []json.RawMessage `json:"listings"`
	Pagination Pagination        `json:"pagination"`
	Shops      []ListingShop     `json:"shops"`
}

// List fetches a page of listings across the user's shops
func (s *ListingService) List(ctx context.Context, filter ListingFilter) (*ListingPage, error) {
	var result ListingPage
	if err := s.client.get(ctx, "/listings", filter.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches one listing with its variants
func (s *ListingService) Get(ctx context.Context, id int64) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.client.get(ctx, fmt.Sprintf("/listings/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
