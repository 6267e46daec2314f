// Package session implements the identity boundary: the authenticated user's
// id, email, and admin flag, derived from a verified OIDC bearer token and
// carried on the request context.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Identity describes the acting user for authorization decisions.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Claims holds the token claims the service consumes.
type Claims struct {
	Subject string
	Email   string
}

type identityKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext extracts the identity placed on the context by the
// authentication middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// HashID derives the stable, non-reversible user id stored on records from
// the token subject.
func HashID(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])
}
