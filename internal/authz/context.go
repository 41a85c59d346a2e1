package authz

import "context"

// Principal describes the authenticated actor attached to a request.
type Principal struct {
	UserID       int64
	Nome         string
	Email        string
	IsAdmin      bool
	IsSuperAdmin bool
	Permissions  Set
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal, nil when unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
