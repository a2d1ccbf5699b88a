package upstream

import (
	"context"

	"github.com/shopspring/decimal"
)

// SettingsService wraps the upstream account settings endpoints
type SettingsService struct {
	client *Client
}

// BillingInfo is the account's subscription and usage snapshot
type BillingInfo struct {
	Plan           string           `json:"plan"`
	Status         string           `json:"status,omitempty"`
	ListingsUsed   int              `json:"listings_used"`
	ListingsLimit  int              `json:"listings_limit"`
	MonthlyPrice   *decimal.Decimal `json:"monthly_price,omitempty"`
	Currency       string           `json:"currency,omitempty"`
	RenewsAt       string           `json:"renews_at,omitempty"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	InvoiceHistory []Invoice        `json:"invoice_history,omitempty"`
}

// Invoice is one past billing charge
type Invoice struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Status   string          `json:"status"`
	IssuedAt string          `json:"issued_at,omitempty"`
}

// Billing fetches the subscription and usage snapshot
func (s *SettingsService) Billing(ctx context.Context) (*BillingInfo, error) {
	var result BillingInfo
	if err := s.client.get(ctx, "/settings/billing", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
