package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("a-very-long-token-encryption-key")
	require.NoError(t, err)

	sealed, err := c.Encrypt("ya29.refresh-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "ya29")

	again, err := c.Encrypt("ya29.refresh-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.refresh-token", plain)
}

func TestTokenCipher_Empty(t *testing.T) {
	c, err := NewTokenCipher("a-very-long-token-encryption-key")
	require.NoError(t, err)

	sealed, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestTokenCipher_Rejects(t *testing.T) {
	c, err := NewTokenCipher("a-very-long-token-encryption-key")
	require.NoError(t, err)
	other, err := NewTokenCipher("a-different-token-encryption-key")
	require.NoError(t, err)

	sealed, err := other.Encrypt("secret")
	require.NoError(t, err)

	for name, value := range map[string]string{
		"plaintext":      "ya29.raw",
		"bad base64":     "v1:***",
		"too short":      "v1:AAAA",
		"foreign key":    sealed,
		"tampered value": sealed[:len(sealed)-2] + "AA",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(value)
			assert.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}

	_, err = NewTokenCipher("short")
	assert.Error(t, err)
}
