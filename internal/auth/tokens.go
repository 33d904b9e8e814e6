// internal/auth/tokens.go
//
// HS256 token issuing and verification with one shared secret.
// Tokens carry {id, iat, exp?}; the id claim is the request subject.

// Package auth issues and verifies the HS256 tokens carried in the
// authorization header, hashes passwords, and threads the authenticated
// subject through a request context.
package auth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, expired, malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoSubject means the token verified but carries no usable id claim.
	ErrNoSubject = errors.New("token has no subject")
)

// Claims is the verified payload of a token.
type Claims jwt.MapClaims

// Subject extracts the numeric id claim. Float ids must be integral and
// within the exactly representable range.
func (c Claims) Subject() (int64, error) {
	if len(c) == 0 {
		return 0, ErrNoSubject
	}
	switch v := c["id"].(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, ErrNoSubject
		}
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, ErrNoSubject
}

// Tokens signs and verifies tokens with one shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret. A zero ttl issues tokens
// without an exp claim.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token for userID.
func (t *Tokens) Issue(userID int64) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
	}
	if t.ttl > 0 {
		claims["exp"] = now.Add(t.ttl).Unix()
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return ss, nil
}

// Verify checks the signature and registered claims of token and returns
// its claims. The token is used as given; no scheme prefix is stripped.
func (t *Tokens) Verify(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Claims(claims), nil
}
