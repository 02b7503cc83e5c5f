package apitoken

import "context"

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the resolved identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || v.TokenID == "" {
		return Identity{}, false
	}
	return v, true
}
