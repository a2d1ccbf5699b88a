package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountService wraps the upstream discount program endpoints
type DiscountService struct {
	client *Client
}

// DiscountProgram is a seller-defined promotion applied to mapped products
type DiscountProgram struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	DiscountType      string            `json:"discount_type"`
	DiscountValue     *decimal.Decimal  `json:"discount_value,omitempty"`
	StartDate         string            `json:"start_date,omitempty"`
	EndDate           string            `json:"end_date,omitempty"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurrencePattern string            `json:"recurrence_pattern,omitempty"`
	MinMarginRequired *decimal.Decimal  `json:"min_margin_required,omitempty"`
	IsActive          bool              `json:"is_active"`
	CreatedAt         string            `json:"created_at,omitempty"`
	UpdatedAt         string            `json:"updated_at,omitempty"`
	Mappings          []DiscountMapping `json:"mappings,omitempty"`
}

// DiscountMapping ties a product to a discount program
type DiscountMapping struct {
	ID                int64  `json:"id"`
	DiscountProgramID int64  `json:"discount_program_id"`
	UserProductID     *int64 `json:"user_product_id,omitempty"`
	ProductID         *int64 `json:"product_id,omitempty"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// DiscountProgramInput creates or edits a discount program
type DiscountProgramInput struct {
	Name              string           `json:"name,omitempty"`
	Description       string           `json:"description,omitempty"`
	DiscountType      string           `json:"discount_type,omitempty"`
	DiscountValue     *decimal.Decimal `json:"discount_value,omitempty"`
	StartDate         string           `json:"start_date,omitempty"`
	EndDate           string           `json:"end_date,omitempty"`
	IsRecurring       *bool            `json:"is_recurring,omitempty"`
	RecurrencePattern string           `json:"recurrence_pattern,omitempty"`
	MinMarginRequired *decimal.Decimal `json:"min_margin_required,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

// DiscountMappingInput maps a product into a program; either ID may be set
type DiscountMappingInput struct {
	UserProductID *int64 `json:"user_product_id,omitempty"`
	ProductID     *int64 `json:"product_id,omitempty"`
}

// Programs fetches all discount programs with their product mappings
func (s *DiscountService) Programs(ctx context.Context) ([]DiscountProgram, error) {
	var result struct {
		Programs []DiscountProgram `json:"programs"`
	}
	if err := s.client.get(ctx, "/discounts", nil, &result); err != nil {
		return nil, err
	}
	return result.Programs, nil
}

// CreateProgram creates a discount program
func (s *DiscountService) CreateProgram(ctx context.Context, input DiscountProgramInput) (*DiscountProgram, error) {
	var p DiscountProgram
	if err := s.client.post(ctx, "/discounts", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Program fetches one discount program
func (s *DiscountService) Program(ctx context.Context, id int64) (*DiscountProgram, error) {
	var p DiscountProgram
	if err := s.client.get(ctx, discountPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProgram applies a partial program edit
func (s *DiscountService) UpdateProgram(ctx context.Context, id int64, input DiscountProgramInput) (*DiscountProgram, error) {
	var p DiscountProgram
	if err := s.client.patch(ctx, discountPath(id), input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProgram removes a discount program and its mappings
func (s *DiscountService) DeleteProgram(ctx context.Context, id int64) error {
	return s.client.delete(ctx, discountPath(id), nil)
}

// AddMapping maps a product into a discount program
func (s *DiscountService) AddMapping(ctx context.Context, programID int64, input DiscountMappingInput) (*DiscountMapping, error) {
	var m DiscountMapping
	if err := s.client.post(ctx, discountPath(programID)+"/products", input, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMapping removes a product mapping from a program
func (s *DiscountService) RemoveMapping(ctx context.Context, programID, mappingID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("%s/products/%d", discountPath(programID), mappingID), nil)
}

func discountPath(id int64) string {
	return fmt.Sprintf("/discounts/%d", id)
}
