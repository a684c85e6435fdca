package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tokenStr := signTestToken(t, "default_secret", jwt.MapClaims{
		"user_id":    "4b4fa05a-44a5-4b5a-9119-69a937a3a0c3",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "4b4fa05a-44a5-4b5a-9119-69a937a3a0c3", claims["user_id"])
	assert.Equal(t, "sess-1", claims["session_id"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tokenStr := signTestToken(t, "some-other-secret", jwt.MapClaims{
		"user_id": "u",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tokenStr := signTestToken(t, "default_secret", jwt.MapClaims{
		"user_id": "u",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	_, err := ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
