package handlers

import "context"

type identityKey struct{}

// Identity is the caller as established by the bearer token.
type Identity struct {
	UserID string
	Role   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// callerOr prefers the authenticated user over a client-supplied id.
func callerOr(ctx context.Context, fallback string) string {
	if id, ok := IdentityFrom(ctx); ok {
		return id.UserID
	}
	return fallback
}
