package httpapi

import (
	"context"

	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const identityKey contextKey = "identity"

func withIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the authenticated identity from the context.
// ok is false for anonymous requests.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}
