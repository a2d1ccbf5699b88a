package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/podsuite/console/internal/session"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "

	// maxErrorBodySize bounds how much of an upstream error body we read
	maxErrorBodySize = 64 * 1024
)

// RetryState tracks where a single request is in the refresh protocol
type RetryState int

const (
	// RetryStateInitial: the request has not hit a 401 yet
	RetryStateInitial RetryState = iota
	// RetryStateAwaitingRefresh: a 401 arrived and a refresh is in flight
	RetryStateAwaitingRefresh
	// RetryStateRetried: the request was re-issued once; no further refresh
	RetryStateRetried
)

// AuthTransport is an http.RoundTripper that attaches the session's access
// token to every request and transparently recovers from a single expired-
// token failure. On a 401 it refreshes the access token once, re-issues the
// original request with the new credential, and returns that outcome. A
// second 401, a missing refresh token, or a failed refresh force a logout
// via OnAuthFailure and propagate the failure to the caller.
//
// Only 401 responses are interpreted; network errors, timeouts, and every
// other status pass through untouched.
type AuthTransport struct {
	// Base performs the actual round trips; http.DefaultTransport when nil
	Base http.RoundTripper
	// Session supplies the token pair and receives refreshed tokens
	Session *session.Store
	// RefreshURL is the absolute URL of the upstream refresh endpoint
	RefreshURL string
	// OnAuthFailure is called when the session cannot be recovered
	// (forced logout). May be nil.
	OnAuthFailure func()
	// Logger may be nil
	Logger *zap.Logger
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) log() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}

// RoundTrip implements http.RoundTripper
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	state := RetryStateInitial

	outReq := req.Clone(req.Context())
	if token := t.Session.AccessToken(); token != "" {
		outReq.Header.Set(headerAuthorization, bearerPrefix+token)
	}

	for {
		resp, err := t.base().RoundTrip(outReq)
		if err != nil {
			// Ordinary network failure; never retried, never refreshed
			return nil, err
		}

		if resp.StatusCode != http.StatusUnauthorized || state == RetryStateRetried {
			// Success, a non-auth failure, or a second 401 after the one
			// permitted retry: hand it to the caller as-is
			return resp, nil
		}

		state = RetryStateAwaitingRefresh

		refreshToken := t.Session.RefreshToken()
		if refreshToken == "" {
			t.log().Warn("Unauthorized response with no refresh token, forcing logout")
			t.authFailed()
			return resp, nil
		}

		newAccess, refreshErr := t.refresh(req.Context(), refreshToken)
		if refreshErr != nil {
			t.log().Warn("Token refresh failed, forcing logout", zap.Error(refreshErr))
			t.authFailed()
			drainAndClose(resp)
			return nil, refreshErr
		}

		// The refresh endpoint only rotates the access token; the refresh
		// token is carried over unchanged
		t.Session.SetTokens(newAccess, refreshToken)
		t.log().Debug("Access token refreshed, retrying original request",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()))

		retryReq := req.Clone(req.Context())
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				drainAndClose(resp)
				return nil, fmt.Errorf("cannot replay request body: %w", bodyErr)
			}
			retryReq.Body = body
		}
		retryReq.Header.Set(headerAuthorization, bearerPrefix+newAccess)

		drainAndClose(resp)
		state = RetryStateRetried
		outReq = retryReq
	}
}

// refresh exchanges the refresh token for a new access token. The call
// bypasses the normal access-token injection and authenticates with the
// refresh token instead.
func (t *AuthTransport) refresh(ctx context.Context, refreshToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAuthorization, bearerPrefix+refreshToken)

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer drainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return "", &Error{
			StatusCode: resp.StatusCode,
			Message:    "refresh token rejected",
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return payload.AccessToken, nil
}

func (t *AuthTransport) authFailed() {
	if t.Session != nil {
		t.Session.Logout()
	}
	if t.OnAuthFailure != nil {
		t.OnAuthFailure()
	}
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()
}

var _ http.RoundTripper = (*AuthTransport)(nil)
