package contextkeys

import (
	"context"
	"landmark-service/internal/core/domain"
)

type identityKeyType struct{}

var identityKey = identityKeyType{}

// ContextWithIdentity stores the caller resolved by the auth middleware.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext reports false for anonymous requests.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok || identity.IsAnonymous() {
		return domain.Identity{}, false
	}
	return identity, true
}
