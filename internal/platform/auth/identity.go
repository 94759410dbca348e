package auth

import (
	"context"
	"strings"
)

type contextKey string

const identityContextKey contextKey = "github.com/tstore/storefront/internal/platform/auth/identity"

// Identity describes the authenticated shopper attached to a request.
type Identity struct {
	// UID is the stable user identifier carried in the session token subject.
	UID string
	// Email is optional and may be empty for guest-upgraded sessions.
	Email string
}

// Valid reports whether the identity carries a usable user ID.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.UID) != ""
}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the identity when present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityContextKey).(Identity)
	if !ok || !identity.Valid() {
		return Identity{}, false
	}
	return identity, true
}
