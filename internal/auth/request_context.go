package auth

import (
	"context"
)

type contextKey string

var identityKey contextKey = "session_identity"

func SetIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the verified identity from context. The second
// return is false when the request was not authenticated.
func GetIdentity(ctx context.Context) (Identity, bool) {
	val := ctx.Value(identityKey)
	if identity, ok := val.(Identity); ok {
		return identity, true
	}
	return Identity{}, false
}
