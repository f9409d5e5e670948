// Package auth inspects bearer tokens for display. Nothing here verifies a
// signature; the backend does that.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the status bar shows about the saved token.
type TokenInfo struct {
	JWT       bool
	Subject   string
	ExpiresAt time.Time
}

// Inspect reads the claims of a JWT without verifying it. Opaque tokens
// return TokenInfo{JWT: false}.
func Inspect(token string) TokenInfo {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}
	}
	info := TokenInfo{JWT: true, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}

func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Describe is a one-line summary, e.g. "token: jwt ops@corp, expires in 2h0m0s".
func Describe(token string, hasToken bool, now time.Time) string {
	if !hasToken {
		return "token: not set"
	}
	if token == "" {
		return "token: empty"
	}
	info := Inspect(token)
	if !info.JWT {
		return "token: set"
	}
	s := "token: jwt"
	if info.Subject != "" {
		s += " " + info.Subject
	}
	switch {
	case info.ExpiresAt.IsZero():
	case info.Expired(now):
		s += fmt.Sprintf(", expired %s ago", now.Sub(info.ExpiresAt).Round(time.Minute))
	default:
		s += fmt.Sprintf(", expires in %s", info.ExpiresAt.Sub(now).Round(time.Minute))
	}
	return s
}
