package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	info := Inspect(signed(t, "ops", exp))
	assert.True(t, info.JWT)
	assert.Equal(t, "ops", info.Subject)
	assert.True(t, exp.Equal(info.ExpiresAt))

	assert.Equal(t, TokenInfo{}, Inspect("opaque-token"))
}

func TestDescribe(t *testing.T) {
	now := time.Date(2029, 12, 31, 22, 0, 0, 0, time.UTC)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "token: not set", Describe("", false, now))
	assert.Equal(t, "token: empty", Describe("", true, now))
	assert.Equal(t, "token: set", Describe("opaque", true, now))
	assert.Equal(t, "token: jwt ops, expires in 2h0m0s", Describe(signed(t, "ops", exp), true, now))
	assert.Equal(t, "token: jwt ops, expired 1h0m0s ago", Describe(signed(t, "ops", exp), true, exp.Add(time.Hour)))
	assert.Equal(t, "token: jwt", Describe(signed(t, "", time.Time{}), true, now))
}
