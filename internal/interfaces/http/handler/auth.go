package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/cache"
	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/session"
	"github.com/podsuite/console/internal/upstream"
)

// AuthHandler handles login, registration, logout, and OAuth callbacks.
// Successful logins replace the session wholesale; the query cache is
// cleared on every session change so no data crosses logins.
type AuthHandler struct {
	BaseHandler
	upstream *upstream.Client
	session  *session.Store
	cache    cache.QueryCache
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(client *upstream.Client, store *session.Store, qc cache.QueryCache, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		upstream: client,
		session:  store,
		cache:    qc,
		logger:   logger,
	}
}

// LoginRequest is a credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterRequest creates a new account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Username  string `json:"username" binding:"omitempty,min=3,max=64"`
	FirstName string `json:"first_name" binding:"omitempty,max=128"`
	LastName  string `json:"last_name" binding:"omitempty,max=128"`
}

// SessionResponse is the session state returned after login and on demand
type SessionResponse struct {
	User            *session.User `json:"user"`
	IsAuthenticated bool          `json:"is_authenticated"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	result, err := h.upstream.Auth().Login(c.Request.Context(), upstream.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.establishSession(c, result)
	h.logger.Info("User logged in",
		zap.Int64("user_id", result.User.ID),
		zap.String("request_id", getRequestID(c)))

	h.Success(c, SessionResponse{User: h.session.User(), IsAuthenticated: true})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	result, err := h.upstream.Auth().Register(c.Request.Context(), upstream.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	h.establishSession(c, result)
	h.logger.Info("User registered",
		zap.Int64("user_id", result.User.ID),
		zap.String("request_id", getRequestID(c)))

	h.Created(c, SessionResponse{User: h.session.User(), IsAuthenticated: true})
}

// Logout handles POST /auth/logout. The upstream call is best effort: the
// local session is cleared no matter what the upstream says.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.upstream.Auth().Logout(c.Request.Context()); err != nil {
		h.logger.Warn("Upstream logout failed, clearing local session anyway",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err))
	}

	h.session.Logout()
	h.invalidateCache(c)

	h.Success(c, SessionResponse{IsAuthenticated: false})
}

// Session handles GET /auth/session, returning the current session state
// without touching the upstream
func (h *AuthHandler) Session(c *gin.Context) {
	h.Success(c, SessionResponse{
		User:            h.session.User(),
		IsAuthenticated: h.session.Authenticated(),
	})
}

// Authorize handles GET /auth/:provider/authorize. Extra query parameters
// (e.g. shopify's shop domain) pass through to the upstream.
func (h *AuthHandler) Authorize(c *gin.Context) {
	provider := c.Param("provider")
	switch provider {
	case "google", "etsy", "shopify", "printify", "printful", "gelato":
	default:
		h.BadRequest(c, "unknown provider: "+provider)
		return
	}

	result, err := h.upstream.Auth().AuthorizeURL(c.Request.Context(), provider, c.Request.URL.Query())
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, result)
}

// Callback handles the OAuth redirect landings (GET /auth/callback,
// /shops/callback, /suppliers/callback). The upstream puts the token pair in
// the redirect query; the gateway adopts it, loads the profile, and sends
// the browser home. A missing token means the OAuth flow failed upstream.
func (h *AuthHandler) Callback(c *gin.Context) {
	accessToken := c.Query("access_token")
	refreshToken := c.Query("refresh_token")
	if accessToken == "" {
		reason := c.Query("error")
		if reason == "" {
			reason = "authorization failed"
		}
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape(reason))
		return
	}

	// Adopt the tokens before the profile fetch so the transport can sign it
	h.session.SetTokens(accessToken, refreshToken)

	user, err := h.upstream.Users().Profile(c.Request.Context())
	if err != nil {
		h.logger.Warn("Profile fetch after OAuth callback failed",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err))
		h.session.Logout()
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape("could not load profile"))
		return
	}

	h.session.Login(*user, accessToken, refreshToken)
	h.invalidateCache(c)
	h.logger.Info("OAuth login completed",
		zap.Int64("user_id", user.ID),
		zap.String("provider", user.OAuthProvider),
		zap.String("request_id", getRequestID(c)))

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) establishSession(c *gin.Context, result *upstream.LoginResult) {
	h.session.Login(result.User, result.AccessToken, result.RefreshToken)
	h.invalidateCache(c)
}

func (h *AuthHandler) invalidateCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateAll(c.Request.Context()); err != nil {
		h.logger.Warn("Query cache invalidation failed", zap.Error(err))
	}
}
