package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is the only error surfaced to callers when a
// token fails verification. Signature internals are deliberately not
// exposed.
var ErrInvalidCredential = errors.New("invalid session credential")

// SessionIssuer signs and verifies session credentials with a shared
// HS256 secret. No database lookup is involved in either direction.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionIssuer creates an issuer with the given signing secret and
// credential lifetime.
func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the credential lifetime, used to bound cookie max-age
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a credential for a verified identity
func (s *SessionIssuer) Issue(identity Identity) (string, error) {
	now := time.Now().UTC()

	claims := SessionClaims{
		Username:      identity.Username,
		Avatar:        identity.Avatar,
		Discriminator: identity.Discriminator,
		IsMember:      identity.IsMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.DiscordID,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session credential: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and expiry. Any failure is
// reported as ErrInvalidCredential.
func (s *SessionIssuer) Verify(tokenString string) (Identity, error) {
	var claims SessionClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}

	return claims.Identity(), nil
}
