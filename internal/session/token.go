package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed token")

// Claims is what the front end needs from the access token.
type Claims struct {
	Subject   int
	ExpiresAt time.Time
}

// Expired reports whether the token's exp lies before now. Tokens without
// exp never expire locally.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// DecodeToken reads sub and exp without checking the signature; only the
// backend holds the key.
func DecodeToken(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	var claims Claims
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	switch sub := mc["sub"].(type) {
	case float64:
		claims.Subject = int(sub)
	case string:
		id, err := strconv.Atoi(sub)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: non-numeric sub %q", ErrMalformedToken, sub)
		}
		claims.Subject = id
	default:
		return Claims{}, fmt.Errorf("%w: missing sub", ErrMalformedToken)
	}

	return claims, nil
}
