package ctxutil

import (
	"context"

	"github.com/yungbote/daghub-backend/internal/domain/ownership"
)

type identityKey struct{}

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, id ownership.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentity returns the caller attached by the auth middleware.
func GetIdentity(ctx context.Context) (ownership.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(ownership.Identity)
	return id, ok
}
