package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("backend_secret"))
	require.NoError(t, err)
	return s
}

func TestParseUnverified_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, Claims{
		UserType: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := ParseUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.UserType)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
}

func TestParseUnverified_InvalidTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "opaque", token: "opaque-session-token"},
		{name: "broken segments", token: "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnverified(tt.token)
			assert.Error(t, err)
			assert.Nil(t, ExpiresAt(tt.token))
		})
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	withExp := signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}})
	withoutExp := signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}})

	got := ExpiresAt(withExp)
	require.NotNil(t, got)
	assert.True(t, exp.Equal(*got))

	assert.Nil(t, ExpiresAt(withoutExp))
}

func TestParseUnverified_ExpiredTokenStillParses(t *testing.T) {
	tok := signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})

	claims, err := ParseUnverified(tok)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}
