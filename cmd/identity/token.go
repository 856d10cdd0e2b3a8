package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Access-token inspection:
//
// Access tokens are opaque to every control-flow decision the client makes.
// The single exception is advisory expiry inspection, used to decide whether
// locally cached records are still worth hydrating and to enrich logs. The
// claims are read without signature verification; only the server's verify
// endpoint is authoritative.

// PeekExpiry reads the "exp" claim of a JWT access token without verifying
// its signature. Returns ErrMalformedToken for anything that does not parse
// as a JWT carrying an expiry.
func PeekExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, ErrMalformedToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrMalformedToken
	}
	return exp.Time, nil
}

// LooksExpired reports whether the token's embedded expiry has passed.
// Unparseable tokens are treated as expired; the server still decides.
func LooksExpired(token string, now time.Time) bool {
	exp, err := PeekExpiry(token)
	if err != nil {
		return true
	}
	return !exp.After(now)
}
