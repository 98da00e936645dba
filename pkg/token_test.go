package pkg

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenFromHeaders(t *testing.T) {
	token, err := GetTokenFromHeaders("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = GetTokenFromHeaders("")
	assert.Error(t, err)

	_, err = GetTokenFromHeaders("Basic abc")
	assert.Error(t, err)

	_, err = GetTokenFromHeaders("Bearer ")
	assert.Error(t, err)
}

func TestParseJwtToken(t *testing.T) {
	const secret = "test-secret"

	sign := func(claims jwt.MapClaims, key string) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return signed
	}

	t.Run("extracts the user id", func(t *testing.T) {
		claims, err := ParseJwtToken(sign(jwt.MapClaims{"uid": 42}, secret), secret)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UID)
	})

	t.Run("rejects the wrong key", func(t *testing.T) {
		_, err := ParseJwtToken(sign(jwt.MapClaims{"uid": 42}, "other"), secret)
		assert.Error(t, err)
	})

	t.Run("missing uid parses to zero", func(t *testing.T) {
		claims, err := ParseJwtToken(sign(jwt.MapClaims{"sub": "x"}, secret), secret)
		require.NoError(t, err)
		assert.Zero(t, claims.UID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseJwtToken("not-a-token", secret)
		assert.Error(t, err)
	})
}
