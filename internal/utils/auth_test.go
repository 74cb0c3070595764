package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GeneratePlayerToken("user123", false, secret)
	require.NoError(t, err)

	userID, guest, err := ParsePlayerToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)
	assert.False(t, guest)
}

func TestGuestTokenCarriesClaim(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GeneratePlayerToken("guest1", true, secret)
	require.NoError(t, err)

	userID, guest, err := ParsePlayerToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "guest1", userID)
	assert.True(t, guest)
}

func TestParsePlayerTokenWrongSecret(t *testing.T) {
	token, err := GeneratePlayerToken("user123", false, []byte("secret-a"))
	require.NoError(t, err)

	_, _, err = ParsePlayerToken(token, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCallerIDFromBearer(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GeneratePlayerToken("user123", false, secret)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/v1/game", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	userID, _, err := CallerID(r, secret)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)
}

func TestCallerIDQueryFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/ws?userId=user456", nil)

	userID, guest, err := CallerID(r, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "user456", userID)
	assert.False(t, guest)
}

func TestCallerIDMissingCredentials(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/game", nil)

	_, _, err := CallerID(r, []byte("test-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.Contains(t, codeCharset, string(c))
		}
		seen[code] = true
	}
	// 50 draws from a 36^6 space should not collide.
	assert.Greater(t, len(seen), 45)
}
