package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/session"
	"github.com/podsuite/console/internal/theme"
	"github.com/podsuite/console/internal/upstream"
)

// UserHandler handles profile and account preference endpoints
type UserHandler struct {
	BaseHandler
	upstream *upstream.Client
	session  *session.Store
	themes   *theme.Store
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(client *upstream.Client, store *session.Store, themes *theme.Store, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		upstream: client,
		session:  store,
		themes:   themes,
		logger:   logger,
	}
}

// UpdateProfileRequest is a partial profile edit
type UpdateProfileRequest struct {
	Username       *string `json:"username" binding:"omitempty,min=3,max=64"`
	FirstName      *string `json:"first_name" binding:"omitempty,max=128"`
	LastName       *string `json:"last_name" binding:"omitempty,max=128"`
	AvatarURL      *string `json:"avatar_url" binding:"omitempty,url"`
	PreferredTheme *string `json:"preferred_theme" binding:"omitempty,themeid"`
}

// ChangePasswordRequest rotates the account password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ThemeResponse is the current UI theme
type ThemeResponse struct {
	ThemeID string `json:"theme_id"`
	Name    string `json:"name"`
}

// Profile handles GET /users/me, refreshing the local copy as a side effect
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.upstream.Users().Profile(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.session.SetUser(*user)
	h.Success(c, user)
}

// UpdateProfile handles PATCH /users/me. The upstream is the source of
// truth; the session copy is merged only after it accepts the edit.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}
	update := session.UserUpdate{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		AvatarURL:      req.AvatarURL,
		PreferredTheme: req.PreferredTheme,
	}

	user, err := h.upstream.Users().UpdateProfile(c.Request.Context(), update)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.session.UpdateUser(update)
	if req.PreferredTheme != nil && h.themes != nil {
		h.themes.Set(*req.PreferredTheme)
	}
	h.Success(c, user)
}

// ChangePassword handles PUT /users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	err := h.upstream.Users().ChangePassword(c.Request.Context(), upstream.PasswordChange{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.logger.Info("Password changed", zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}

// ChangeEmailRequest rotates the account email address
type ChangeEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// DeactivateRequest disables the account; the password is optional for
// OAuth-only accounts
type DeactivateRequest struct {
	Password string `json:"password"`
}

// ChangeEmail handles PUT /users/me/email. The upstream flips the account
// back to unverified; the session copy follows the returned profile.
func (h *UserHandler) ChangeEmail(c *gin.Context) {
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	user, err := h.upstream.Users().ChangeEmail(c.Request.Context(), upstream.EmailChange{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.session.SetUser(*user)
	h.logger.Info("Email changed", zap.String("request_id", getRequestID(c)))
	h.Success(c, user)
}

// Deactivate handles POST /users/me/deactivate. A deactivated account cannot
// stay logged in, so the local session is cleared after the upstream accepts.
func (h *UserHandler) Deactivate(c *gin.Context) {
	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	if err := h.upstream.Users().Deactivate(c.Request.Context(), req.Password); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.session.Logout()
	h.logger.Info("Account deactivated", zap.String("request_id", getRequestID(c)))
	h.NoContent(c)
}

// Summary handles GET /users/me/summary (the dashboard counters)
func (h *UserHandler) Summary(c *gin.Context) {
	summary, err := h.upstream.Users().Summary(c.Request.Context())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, summary)
}

// Theme handles GET /users/me/theme
func (h *UserHandler) Theme(c *gin.Context) {
	id := theme.DefaultID
	if h.themes != nil {
		id = h.themes.Current()
	}
	h.Success(c, ThemeResponse{ThemeID: id, Name: theme.Names[id]})
}

// SetTheme handles PUT /users/me/theme. The preference is applied locally
// and persisted to the profile upstream.
func (h *UserHandler) SetTheme(c *gin.Context) {
	var req struct {
		ThemeID string `json:"theme_id" binding:"required,themeid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	update := session.UserUpdate{PreferredTheme: &req.ThemeID}
	if _, err := h.upstream.Users().UpdateProfile(c.Request.Context(), update); err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.session.UpdateUser(update)
	if h.themes != nil {
		h.themes.Set(req.ThemeID)
	}
	h.Success(c, ThemeResponse{ThemeID: req.ThemeID, Name: theme.Names[req.ThemeID]})
}
