package auth

import (
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	in := IssueInput{TenantID: uuid.New(), UserID: uuid.New(), Email: "owner@example.com"}

	token, expiresAt, err := svc.Issue(in)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	tenantID, err := claims.TenantUUID()
	require.NoError(t, err)
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, in.TenantID, tenantID)
	assert.Equal(t, in.UserID, userID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestJWTService_Validate(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	valid := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.NewString(),
			UserID:   uuid.NewString(),
		}
	}

	t.Run("falls back to subject for the user id", func(t *testing.T) {
		c := valid()
		userID := uuid.NewString()
		c.UserID = ""
		c.Subject = userID

		claims, err := svc.Validate(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))

		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name: "expired",
			token: func() string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func() string {
				c := valid()
				c.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong secret",
			token: func() string {
				return sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), valid())
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := valid()
				c.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "alg none is rejected",
			token: func() string {
				return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid())
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing tenant",
			token: func() string {
				c := valid()
				c.TenantID = ""
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrMissingTenantID,
		},
		{
			name: "missing user",
			token: func() string {
				c := valid()
				c.UserID = ""
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrMissingUserID,
		},
		{
			name: "tenant is not a uuid",
			token: func() string {
				c := valid()
				c.TenantID = "acme"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Validate(tt.token())
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
