package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is an upstream failure carried back to the calling handler verbatim.
// The gateway never reinterprets these beyond the refresh protocol; pages
// are responsible for their own error presentation.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream: %d: %s", e.StatusCode, e.Message)
}

// parseError builds an Error from an upstream error response. It understands
// both the flat {"error": "..."} / {"message": "..."} shapes and the
// enveloped {"error": {"code": ..., "message": ...}} shape.
func parseError(resp *http.Response) error {
	e := &Error{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return e
	}

	var enveloped struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &enveloped) == nil && enveloped.Error.Message != "" {
		e.Code = enveloped.Error.Code
		e.Message = enveloped.Error.Message
		return e
	}

	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(data, &flat) == nil {
		switch {
		case flat.Message != "":
			e.Message = flat.Message
		case flat.Error != "":
			e.Message = flat.Error
		case flat.Msg != "":
			e.Message = flat.Msg
		}
	}
	return e
}
