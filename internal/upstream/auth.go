package upstream

import (
	"context"
	"net/url"

	"github.com/podsuite/console/internal/session"
)

// AuthService wraps the upstream authentication endpoints
type AuthService struct {
	client *Client
}

// Credentials is a credential-based login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is an account registration request
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginResult is the upstream response to a successful login or registration
type LoginResult struct {
	Message      string       `json:"message,omitempty"`
	User         session.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// AuthorizeResult carries an OAuth authorization URL built by the upstream
type AuthorizeResult struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := s.client.post(ctx, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account and logs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	var result LoginResult
	if err := s.client.post(ctx, "/auth/register", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout invalidates the upstream session for the current credentials
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.post(ctx, "/auth/logout", nil, nil)
}

// AuthorizeURL fetches the OAuth authorization URL for a provider
// (google, etsy, shopify, printify, printful, gelato). Extra query
// parameters (e.g. shopify's shop domain) are passed through.
func (s *AuthService) AuthorizeURL(ctx context.Context, provider string, query url.Values) (*AuthorizeResult, error) {
	var result AuthorizeResult
	if err := s.client.get(ctx, "/auth/"+provider+"/authorize", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
