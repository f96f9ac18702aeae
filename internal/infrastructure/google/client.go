// Package google talks to Google's OAuth2 endpoints and the Business
// Profile REST APIs.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout   = 30 * time.Second
	defaultMaxRetries       = 3
	defaultRetryBaseDelay   = 500 * time.Millisecond
	maxRetryDelay           = 30 * time.Second
	defaultMaxResponseBytes = 10 * 1024 * 1024
)

// transport sends authorized JSON requests with retries and bounded reads
type transport struct {
	http       *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxBody    int64
	logger     *zap.Logger
}

// Option configures the Google clients
type Option func(*transport)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(t *transport) {
		t.http = client
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func newTransport(cfg config.GoogleConfig, opts ...Option) *transport {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	t := &transport{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		maxBody:    cfg.MaxResponseBytes,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxRetries < 0 {
		t.maxRetries = 0
	} else if t.maxRetries == 0 {
		t.maxRetries = defaultMaxRetries
	}
	if t.baseDelay <= 0 {
		t.baseDelay = defaultRetryBaseDelay
	}
	if t.maxBody <= 0 {
		t.maxBody = defaultMaxResponseBytes
	}
	return t
}

// call is one API request description
type call struct {
	method      string
	url         string
	accessToken string
	body        any
	out         any
}

// do executes c. Rate limit answers are always retried; transport failures and 5xx
// answers only for methods other than POST.
func (t *transport) do(ctx context.Context, c call) error {
	var payload []byte
	if c.body != nil {
		var err error
		payload, err = json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("google: failed to encode request: %w", err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = t.baseDelay
	policy.MaxInterval = maxRetryDelay

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		body, err := t.send(ctx, c, payload)
		if err == nil {
			return body, nil
		}
		if attempt > t.maxRetries || !retryable(c.method, err) {
			return nil, backoff.Permanent(err)
		}
		t.logger.Debug("Retrying Google API call",
			zap.String("method", c.method),
			zap.String("url", c.url),
			zap.Int("attempt", attempt),
			zap.Error(err))
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			return nil, &backoff.RetryAfterError{Duration: apiErr.RetryAfter}
		}
		return nil, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(t.maxRetries+1)))
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return err
	}

	if c.out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, c.out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	return nil
}

func (t *transport) send(ctx context.Context, c call, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reader)
	if err != nil {
		return nil, fmt.Errorf("google: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, t.maxBody)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp, body)
	}
	return body, nil
}

// readLimited reads at most limit bytes and fails on anything larger
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrPlatformUnavailable, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", integration.ErrPlatformInvalidResponse, limit)
	}
	return body, nil
}

func retryable(method string, err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return method != http.MethodPost && errors.Is(err, integration.ErrPlatformUnavailable)
	}
	switch {
	case errors.Is(apiErr, integration.ErrPlatformRateLimited):
		return true
	case apiErr.StatusCode >= 500:
		return method != http.MethodPost
	default:
		return false
	}
}

// retryAfter parses a Retry-After header given in seconds
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d
}
