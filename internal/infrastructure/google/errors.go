package google

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
)

// APIError is a non-2xx answer from a Google API
type APIError struct {
	StatusCode int
	Status     string // canonical status, e.g. "PERMISSION_DENIED"
	Message    string
	Reason     string // first ErrorInfo reason, if any
	RetryAfter time.Duration
	kind       error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Status != "" {
		return fmt.Sprintf("google: HTTP %d %s: %s", e.StatusCode, e.Status, msg)
	}
	return fmt.Sprintf("google: HTTP %d: %s", e.StatusCode, msg)
}

// Unwrap returns the integration sentinel for the status
func (e *APIError) Unwrap() error {
	return e.kind
}

// errorEnvelope is Google's JSON error body
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type   string `json:"@type"`
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		RetryAfter: retryAfter(resp.Header),
	}
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		e.Status = env.Error.Status
		e.Message = env.Error.Message
		for _, d := range env.Error.Details {
			if d.Reason != "" {
				e.Reason = d.Reason
				break
			}
		}
	}
	e.kind = classify(e)
	return e
}

func classify(e *APIError) error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return integration.ErrPlatformAuthFailed
	case e.StatusCode == http.StatusTooManyRequests,
		e.Status == "RESOURCE_EXHAUSTED",
		strings.Contains(strings.ReplaceAll(strings.ToLower(e.Reason), "_", ""), "ratelimit"):
		return integration.ErrPlatformRateLimited
	case e.StatusCode == http.StatusForbidden:
		return integration.ErrPlatformForbidden
	case e.StatusCode == http.StatusNotFound:
		return integration.ErrPlatformNotFound
	case e.StatusCode >= 500:
		return integration.ErrPlatformUnavailable
	default:
		return integration.ErrPlatformRequestFailed
	}
}
