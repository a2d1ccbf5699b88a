package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/cache"
	"github.com/podsuite/console/internal/session"
	"github.com/podsuite/console/internal/theme"
	"github.com/podsuite/console/internal/upstream"
)

func newTestUpstream(t *testing.T, mux *http.ServeMux, store *session.Store) *upstream.Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := upstream.New(upstream.Config{
		BaseURL:     server.URL,
		RefreshPath: "/auth/refresh",
		Timeout:     5 * time.Second,
		Session:     store,
	})
	require.NoError(t, err)
	return client
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "Login successful",
			"user": {"id": 1, "email": "seller@example.com", "preferred_theme": "7"},
			"access_token": "tok1",
			"refresh_token": "ref1"
		}`))
	})

	themes := theme.NewStore()
	store := session.NewStore(themes)
	qc := cache.NewInMemoryQueryCache()
	defer func() { _ = qc.Close() }()

	h := NewAuthHandler(newTestUpstream(t, mux, store), store, qc, zap.NewNop())

	r := gin.New()
	r.POST("/auth/login", h.Login)

	t.Run("valid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"seller@example.com","password":"hunter2hunter2"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_authenticated":true`)

		assert.True(t, store.Authenticated())
		assert.Equal(t, "tok1", store.AccessToken())
		assert.Equal(t, "ref1", store.RefreshToken())
		// theme hydrated from the profile preference
		assert.Equal(t, "7", themes.Current())
	})

	t.Run("malformed body rejected locally", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"not-an-email","password":"short"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_INPUT")
	})
}

func TestAuthHandler_LoginRejectedUpstream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid credentials"}`))
	})

	store := session.NewStore(nil)
	h := NewAuthHandler(newTestUpstream(t, mux, store), store, nil, zap.NewNop())

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"seller@example.com","password":"wrongpassword"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.False(t, store.Authenticated())
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	themes := theme.NewStore()
	themes.Set("3")
	store := session.NewStore(themes)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok1", "ref1")

	qc := cache.NewInMemoryQueryCache()
	defer func() { _ = qc.Close() }()
	require.NoError(t, qc.Set(context.Background(), "query:/products/compare", []byte(`{}`), time.Minute))

	h := NewAuthHandler(newTestUpstream(t, mux, store), store, qc, zap.NewNop())

	r := gin.New()
	r.POST("/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.AccessToken())
	// theme back to default, cached queries gone
	assert.Equal(t, theme.DefaultID, themes.Current())
	assert.Equal(t, 0, qc.Count())
}

func TestAuthHandler_OAuthCallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cb-access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 9, "email": "oauth@example.com", "oauth_provider": "google"}`))
	})

	store := session.NewStore(nil)
	h := NewAuthHandler(newTestUpstream(t, mux, store), store, nil, zap.NewNop())

	r := gin.New()
	r.GET("/auth/callback", h.Callback)

	t.Run("tokens adopted and profile loaded", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?access_token=cb-access&refresh_token=cb-refresh", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.True(t, store.Authenticated())
		require.NotNil(t, store.User())
		assert.Equal(t, int64(9), store.User().ID)
	})

	t.Run("missing token bounces to login", func(t *testing.T) {
		store.Logout()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/login?error=")
		assert.False(t, store.Authenticated())
	})
}
