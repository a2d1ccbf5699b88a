package upstream

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsuite/console/internal/session"
)

var testSigningKey = []byte("transport-test-secret")

// mintToken issues an HS256 token the fake upstream will accept
func mintToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	require.NoError(t, err)
	return signed
}

func bearerOf(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func validToken(raw string) bool {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		return testSigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return err == nil && tok.Valid
}

func loggedInStore(t *testing.T, accessToken, refreshToken string) *session.Store {
	t.Helper()
	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, accessToken, refreshToken)
	return store
}

func TestAuthTransport_InjectsBearer(t *testing.T) {
	access := mintToken(t, "1", time.Hour)

	var seen string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = bearerOf(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	store := loggedInStore(t, access, mintToken(t, "1", 24*time.Hour))
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/orders")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, access, seen)
}

func TestAuthTransport_NoTokenNoHeader(t *testing.T) {
	var hadHeader bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hadHeader = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	transport := &AuthTransport{Session: session.NewStore(nil), RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/auth/login")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.False(t, hadHeader)
}

func TestAuthTransport_RefreshAndRetry(t *testing.T) {
	staleAccess := mintToken(t, "1", -time.Minute)
	refresh := mintToken(t, "1", 24*time.Hour)
	freshAccess := mintToken(t, "1", time.Hour)

	var refreshCalls, orderCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// refresh authenticates with the refresh token, not the access token
		assert.Equal(t, refresh, bearerOf(r))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + freshAccess + `"}`))
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&orderCalls, 1)
		if bearerOf(r) == staleAccess {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, freshAccess, bearerOf(r))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[]}`))
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := loggedInStore(t, staleAccess, refresh)
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/orders")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&orderCalls))

	// rotated access token, refresh token carried over unchanged
	assert.Equal(t, freshAccess, store.AccessToken())
	assert.Equal(t, refresh, store.RefreshToken())
	assert.True(t, store.Authenticated())
}

func TestAuthTransport_SecondUnauthorizedPropagates(t *testing.T) {
	refresh := mintToken(t, "1", 24*time.Hour)

	var refreshCalls, apiCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + mintToken(t, "1", time.Hour) + `"}`))
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		// account is revoked: even a fresh token is rejected
		w.WriteHeader(http.StatusUnauthorized)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := loggedInStore(t, mintToken(t, "1", -time.Minute), refresh)
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/users/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// exactly one refresh per request, then the 401 is the caller's problem
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&apiCalls))
}

func TestAuthTransport_NoRefreshTokenForcesLogout(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/shops", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1}, mintToken(t, "1", -time.Minute), "")

	var authFailures int32
	transport := &AuthTransport{
		Session:       store,
		RefreshURL:    upstream.URL + "/auth/refresh",
		OnAuthFailure: func() { atomic.AddInt32(&authFailures, 1) },
	}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/shops")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&authFailures))
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.AccessToken())
}

func TestAuthTransport_RefreshFailureForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/shops", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := loggedInStore(t, mintToken(t, "1", -time.Minute), mintToken(t, "1", -time.Minute))

	var authFailures int32
	transport := &AuthTransport{
		Session:       store,
		RefreshURL:    upstream.URL + "/auth/refresh",
		OnAuthFailure: func() { atomic.AddInt32(&authFailures, 1) },
	}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/shops")
	require.Error(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&authFailures))
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.RefreshToken())
}

func TestAuthTransport_NonAuthErrorsPassThrough(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"upstream exploded"}`, http.StatusInternalServerError)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := loggedInStore(t, mintToken(t, "1", time.Hour), mintToken(t, "1", 24*time.Hour))
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/orders")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
	assert.True(t, store.Authenticated())
}

func TestAuthTransport_ReplaysBodyOnRetry(t *testing.T) {
	staleAccess := mintToken(t, "1", -time.Minute)
	refresh := mintToken(t, "1", 24*time.Hour)
	freshAccess := mintToken(t, "1", time.Hour)

	var bodies []string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + freshAccess + `"}`))
	})
	mux.HandleFunc("/pricing/rules", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if bearerOf(r) != freshAccess {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	store := loggedInStore(t, staleAccess, refresh)
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	payload := `{"markup_percentage":"40"}`
	resp, err := client.Post(upstream.URL+"/pricing/rules", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, bodies, 2)
	assert.Equal(t, payload, bodies[0])
	assert.Equal(t, payload, bodies[1])
}

func TestAuthTransport_ValidMintedTokenAccepted(t *testing.T) {
	access := mintToken(t, "42", time.Hour)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(bearerOf(r)) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	store := loggedInStore(t, access, mintToken(t, "42", 24*time.Hour))
	transport := &AuthTransport{Session: store, RefreshURL: upstream.URL + "/auth/refresh"}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(upstream.URL + "/users/me")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
