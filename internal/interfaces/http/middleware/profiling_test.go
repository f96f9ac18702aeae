package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/locations/:id/insights": "locations",
		"/api/v1/automation/rules/:id":   "automation",
		"/api/v2/posts":                  "posts",
		"/health":                        "health",
		"/api/v1/:id":                    "",
		"":                               "",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("video"))
}

func TestProfiling_SetsLabels(t *testing.T) {
	svc := newTestJWTService(time.Minute)
	token, input := issueTestToken(t, svc)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc), Profiling(true))
	router.GET("/api/v1/reviews/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ := pprof.Label(ctx, ProfilingLabelRoute)
		resource, _ := pprof.Label(ctx, ProfilingLabelResource)
		tenant, _ := pprof.Label(ctx, ProfilingLabelTenantID)
		assert.Equal(t, "/api/v1/reviews/:id", route)
		assert.Equal(t, "reviews", resource)
		assert.Equal(t, input.TenantID.String(), tenant)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfiling_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(false))
	router.GET("/test", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), ProfilingLabelRoute)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusOK, w.Code)
}
