package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can read from a bearer token without the
// signing key. It is informational only; the gateway stays authoritative.
type TokenInfo struct {
	Subject     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	MfaVerified *bool
}

// Expired reports whether the token carries an expiry that lies before now.
func (ti TokenInfo) Expired(now time.Time) bool {
	return !ti.ExpiresAt.IsZero() && now.After(ti.ExpiresAt)
}

// Describe decodes the claims of a JWT bearer token without verifying its
// signature. Opaque tokens yield an error.
func Describe(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("decode token: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if v, ok := claims["mfaVerified"].(bool); ok {
		info.MfaVerified = &v
	}
	return info, nil
}
