package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, secret string, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseValidToken(t *testing.T) {
	parser := NewParser("secret")

	token := signed(t, jwt.SigningMethodHS256, "secret", Claims{
		UserID: 42,
		Name:   "CS Agent",
		Role:   "CS",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "CS Agent", claims.Name)
	assert.Equal(t, "CS", claims.Role)
}

func TestParseRejectsBadTokens(t *testing.T) {
	parser := NewParser("secret")

	_, err := parser.Parse("garbage")
	assert.Error(t, err)

	wrongSecret := signed(t, jwt.SigningMethodHS256, "other", Claims{UserID: 1})
	_, err = parser.Parse(wrongSecret)
	assert.Error(t, err)

	expired := signed(t, jwt.SigningMethodHS256, "secret", Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	_, err = parser.Parse(expired)
	assert.Error(t, err)

	wrongMethod := signed(t, jwt.SigningMethodHS512, "secret", Claims{UserID: 1})
	_, err = parser.Parse(wrongMethod)
	assert.Error(t, err)
}
