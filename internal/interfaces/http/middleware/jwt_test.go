package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/infrastructure/auth"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"github.com/gbpdash/backend/internal/infrastructure/logger"
	"github.com/gbpdash/backend/internal/interfaces/http/dto"
	"github.com/gbpdash/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: expiration,
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService) (string, auth.IssueInput) {
	t.Helper()
	input := auth.IssueInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "owner@example.com",
	}
	token, _, err := svc.Issue(input)
	require.NoError(t, err)
	return token, input
}

func protectedRouter(validator TokenValidator, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(JWTAuthMiddleware(validator))
	router.GET("/api/v1/locations", handler)
	router.GET(OAuthCallbackPath, handler)
	router.GET("/health", handler)
	return router
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, input := issueTestToken(t, svc)

	router := protectedRouter(svc, func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if assert.NotNil(t, claims) {
			assert.Equal(t, input.Email, claims.Email)
		}
		assert.Equal(t, input.TenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, input.TenantID.String(), c.GetString(logger.GinTenantIDKey))
		assert.Equal(t, input.TenantID.String(), logger.GetTenantID(c.Request.Context()))
		assert.Equal(t, input.UserID.String(), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired, _ := issueTestToken(t, newTestJWTService(-time.Hour))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", header: "", code: dto.ErrCodeUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", code: dto.ErrCodeUnauthorized},
		{name: "empty token", header: "Bearer ", code: dto.ErrCodeUnauthorized},
		{name: "garbage token", header: "Bearer invalid-token", code: dto.ErrCodeTokenInvalid},
		{name: "expired token", header: "Bearer " + expired, code: dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter(svc, func(c *gin.Context) {
				t.Error("handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			req.Header.Set("X-Request-ID", "req-jwt")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			info := decodeError(t, rec)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, "req-jwt", info.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipsPublicRoutes(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := protectedRouter(svc, func(c *gin.Context) {
		assert.Nil(t, GetJWTClaims(c))
		c.Status(http.StatusOK)
	})

	for _, path := range []string{OAuthCallbackPath, "/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	cfg := DefaultJWTConfig(svc)
	cfg.OnError = func(c *gin.Context, err error) {
		c.AbortWithStatus(http.StatusTeapot)
	}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/posts", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestGetJWTHelpers_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTTenantID(c))
}

func TestGetJWTHelpers_FromContext(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)
	tc.SetTenantID(testutil.TestTenantID())
	tc.SetUserID(testutil.TestUserID())

	assert.Equal(t, testutil.TestTenantID().String(), GetJWTTenantID(tc.Context))
	assert.Equal(t, testutil.TestUserID().String(), GetJWTUserID(tc.Context))
}
