package middleware

import (
	"net/http"
	"strings"

	"github.com/gbpdash/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// Provider defaults to the global tracer provider
	Provider trace.TracerProvider
	// SkipPaths are not traced, matched by prefix
	SkipPaths []string
}

// DefaultTracingConfig skips the probes and the API docs
func DefaultTracingConfig(serviceName string) TracingConfig {
	return TracingConfig{
		ServiceName: serviceName,
		Enabled:     true,
		SkipPaths:   []string{"/health", "/ready", "/swagger"},
	}
}

// TracingWithConfig starts a server span per request through otelgin.
// Span attributes that depend on authentication are added later by
// SpanAttributes.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	provider := cfg.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	traced := otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(provider))

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range cfg.SkipPaths {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		traced(c)
	}
}

// SpanAttributes tags the active span with request, tenant and user ids and
// marks it failed on a 5xx answer. Place it after the JWT middleware.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		attrs := make([]attribute.KeyValue, 0, 3)
		if v := c.GetString(logger.GinRequestIDKey); v != "" {
			attrs = append(attrs, attribute.String("request_id", v))
		}
		if v := GetJWTTenantID(c); v != "" {
			attrs = append(attrs, attribute.String("tenant_id", v))
		}
		if v := GetJWTUserID(c); v != "" {
			attrs = append(attrs, attribute.String("user_id", v))
		}
		span.SetAttributes(attrs...)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("gin.errors", c.Errors.String()))
		}
	}
}
