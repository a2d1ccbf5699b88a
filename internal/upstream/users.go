package upstream

import (
	"context"

	"github.com/podsuite/console/internal/session"
)

// UserService wraps the upstream profile endpoints
type UserService struct {
	client *Client
}

// PasswordChange is a password change request
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountSummary is the dashboard summary for the current user
type AccountSummary struct {
	ShopsConnected     int `json:"shops_connected"`
	SuppliersConnected int `json:"suppliers_connected"`
	ProductsTracked    int `json:"products_tracked"`
	ListingsCount      int `json:"listings_count"`
	OrdersPending      int `json:"orders_pending"`
}

// Profile fetches the current user's profile
func (s *UserService) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := s.client.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile edit and returns the updated record
func (s *UserService) UpdateProfile(ctx context.Context, update session.UserUpdate) (*session.User, error) {
	var user session.User
	if err := s.client.patch(ctx, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the account password
func (s *UserService) ChangePassword(ctx context.Context, change PasswordChange) error {
	return s.client.put(ctx, "/users/me/password", change, nil)
}

// EmailChange rotates the account email; the current password proves identity
type EmailChange struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// ChangeEmail replaces the account email and returns the updated profile.
// The upstream marks the account unverified until the new address confirms.
func (s *UserService) ChangeEmail(ctx context.Context, change EmailChange) (*session.User, error) {
	var result struct {
		Message string       `json:"message"`
		User    session.User `json:"user"`
	}
	if err := s.client.put(ctx, "/users/me/email", change, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Deactivate disables the account. The password is optional for OAuth-only
// accounts.
func (s *UserService) Deactivate(ctx context.Context, password string) error {
	body := struct {
		Password string `json:"password,omitempty"`
	}{Password: password}
	return s.client.post(ctx, "/users/me/deactivate", body, nil)
}

// Summary fetches the dashboard account summary
func (s *UserService) Summary(ctx context.Context) (*AccountSummary, error) {
	var summary AccountSummary
	if err := s.client.get(ctx, "/users/me/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
