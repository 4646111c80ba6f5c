package api

import (
	"context"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the authenticated admin identity to the context
func ctxWithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey, email)
}

// ctxIdentity retrieves the authenticated admin identity from the context,
// or the empty string when there is no session.
func ctxIdentity(ctx context.Context) string {
	if v, ok := ctx.Value(identityKey).(string); ok {
		return v
	}
	return ""
}
