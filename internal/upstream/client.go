// Package upstream is the typed HTTP client for the POD backend API. The
// gateway performs no business logic of its own: every service here fetches
// JSON from the upstream and decodes it verbatim. Credential handling
// (bearer injection, refresh-on-401) lives in AuthTransport.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/podsuite/console/internal/session"
)

// Config holds client construction parameters
type Config struct {
	// BaseURL is the upstream API root, including any path prefix
	BaseURL string
	// RefreshPath is the token refresh endpoint relative to BaseURL
	RefreshPath string
	// Timeout bounds every outgoing call
	Timeout time.Duration
	// Session supplies credentials
	Session *session.Store
	// OnAuthFailure runs on forced logout; may be nil
	OnAuthFailure func()
	// Base is the underlying round tripper (wrapped by AuthTransport);
	// http.DefaultTransport when nil. Wrap with otelhttp for tracing.
	Base http.RoundTripper
	// Logger may be nil
	Logger *zap.Logger
}

// Client talks to the upstream POD backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client whose transport injects the session's access token
// and recovers from a single expired-token failure per request
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session store is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	transport := &AuthTransport{
		Base:          cfg.Base,
		Session:       cfg.Session,
		RefreshURL:    base + cfg.RefreshPath,
		OnAuthFailure: cfg.OnAuthFailure,
		Logger:        log,
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: log,
	}, nil
}

// Auth returns the authentication service
func (c *Client) Auth() *AuthService { return &AuthService{client: c} }

// Users returns the user profile service
func (c *Client) Users() *UserService { return &UserService{client: c} }

// Suppliers returns the supplier connection service
func (c *Client) Suppliers() *SupplierService { return &SupplierService{client: c} }

// Shops returns the marketplace shop service
func (c *Client) Shops() *ShopService { return &ShopService{client: c} }

// Products returns the product comparison service
func (c *Client) Products() *ProductService { return &ProductService{client: c} }

// Templates returns the listing template service
func (c *Client) Templates() *TemplateService { return &TemplateService{client: c} }

// Listings returns the unified cross-shop listings service
func (c *Client) Listings() *ListingService { return &ListingService{client: c} }

// Discounts returns the discount program service
func (c *Client) Discounts() *DiscountService { return &DiscountService{client: c} }

// Orders returns the order tracking service
func (c *Client) Orders() *OrderService { return &OrderService{client: c} }

// Pricing returns the pricing service
func (c *Client) Pricing() *PricingService { return &PricingService{client: c} }

// Analytics returns the analytics service
func (c *Client) Analytics() *AnalyticsService { return &AnalyticsService{client: c} }

// Settings returns the settings/billing service
func (c *Client) Settings() *SettingsService { return &SettingsService{client: c} }

// get performs a GET and decodes the response into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post performs a POST with an optional JSON body
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// patch performs a PATCH with a JSON body
func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// put performs a PUT with a JSON body
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// delete performs a DELETE
func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return parseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse upstream response: %w", err)
	}
	return nil
}
