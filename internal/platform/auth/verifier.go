package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tstore/storefront/internal/platform/config"
)

var (
	ErrMissingToken = errors.New("auth: missing bearer token")
	ErrInvalidToken = errors.New("auth: invalid session token")
)

// SessionClaims is the claim set carried by storefront session tokens.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HMAC signed session tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier constructs a Verifier from auth configuration.
func NewVerifier(cfg config.AuthConfig) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		return nil, errors.New("auth: session secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.Issuer),
	}, nil
}

// Verify parses and validates the raw token, returning the embedded identity.
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrMissingToken
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{
		UID:   strings.TrimSpace(claims.Subject),
		Email: strings.TrimSpace(claims.Email),
	}
	if !identity.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// IssueToken mints a signed session token for the given identity. Used by
// session bootstrap and by tests exercising the middleware.
func (v *Verifier) IssueToken(identity Identity, ttl time.Duration) (string, error) {
	if !identity.Valid() {
		return "", errors.New("auth: identity requires a user id")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now()
	claims := SessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
