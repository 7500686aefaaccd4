package contextkeys

import (
	"context"
	"search-service/internal/core/domain"
)

// ContextWithIdentity stores the verified caller in ctx.
func ContextWithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the verified caller set by the auth middleware.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}
