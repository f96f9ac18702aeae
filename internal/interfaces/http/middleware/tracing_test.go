package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return sr, tp
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func tracedRouter(tp *sdktrace.TracerProvider, status int) *gin.Engine {
	cfg := DefaultTracingConfig("gbpdash-test")
	cfg.Provider = tp

	svc := newTestJWTService(time.Minute)
	router := gin.New()
	router.Use(RequestID(), TracingWithConfig(cfg), JWTAuthMiddleware(svc), SpanAttributes())
	router.GET("/api/v1/locations/:id", func(c *gin.Context) { c.Status(status) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTracing_RecordsSpanWithIdentity(t *testing.T) {
	sr, tp := newRecorder(t)
	svc := newTestJWTService(time.Minute)
	token, input := issueTestToken(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-trace")
	w := httptest.NewRecorder()
	tracedRouter(tp, http.StatusOK).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/locations/:id")

	attrs := attrMap(spans[0])
	assert.Equal(t, "req-trace", attrs["request_id"].AsString())
	assert.Equal(t, input.TenantID.String(), attrs["tenant_id"].AsString())
	assert.Equal(t, input.UserID.String(), attrs["user_id"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_MarksServerErrors(t *testing.T) {
	sr, tp := newRecorder(t)
	svc := newTestJWTService(time.Minute)
	token, _ := issueTestToken(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	tracedRouter(tp, http.StatusBadGateway).ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_SkipsProbes(t *testing.T) {
	sr, tp := newRecorder(t)
	tracedRouter(tp, http.StatusOK).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, sr.Ended())
}

func TestTracing_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}), SpanAttributes())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
