// Package token issues and verifies the signed identity tokens that carry a
// principal across the trust boundary. Pure and stateless: no I/O, no clock
// ownership beyond capturing "now" once per verification.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"darum/pkg/domain"
	dErrors "darum/pkg/domain-errors"
)

// ErrInvalidToken is returned for every verification failure. Signature
// mismatch, expiry, and malformed payloads all collapse to the same
// externally observable outcome so nothing leaks about why a token failed.
var ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")

// Claims is the JWT payload for access tokens. Subject is the user's email.
type Claims struct {
	UserID string   `json:"uid"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec for the given secret and token lifetime.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token asserting the principal's identity and roles, valid
// from now until now+ttl.
func (c *Codec) Issue(userID, email string, roles []domain.Role, now time.Time) (string, error) {
	roleTags := make([]string, len(roles))
	for i, r := range roles {
		roleTags[i] = string(r)
	}

	claims := Claims{
		UserID: userID,
		Roles:  roleTags,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the token bit-for-bit and returns the principal it asserts.
// The comparison clock is captured once at entry so the expiry check cannot
// drift between validation steps.
func (c *Codec) Verify(tokenString string) (domain.Principal, error) {
	return c.VerifyAt(tokenString, time.Now())
}

// VerifyAt is Verify with an explicit clock, used by tests.
func (c *Codec) VerifyAt(tokenString string, now time.Time) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	var roles []domain.Role
	for _, tag := range claims.Roles {
		if r, parsedOK := domain.ParseRole(tag); parsedOK {
			roles = append(roles, r)
		}
	}

	return domain.Principal{
		ID:    claims.UserID,
		Email: claims.Subject,
		Roles: roles,
	}, nil
}
