package auth

import "context"

type contextKey string

const principalKey contextKey = "auth_principal"

// Principal identifies the caller that passed the API key check.
type Principal struct {
	KeyPrefix string
	Env       string
}

// ContextWithPrincipal adds p to the context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// ActorFromContext names the caller for audit logs: the key prefix,
// or "anonymous" when auth is disabled.
func ActorFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return "key:" + p.KeyPrefix
	}
	return "anonymous"
}
