package auth

import "context"

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*AccessClaims)
	return claims, ok && claims != nil
}
