package upstream

import "context"

type tokenContextKey struct{}

// WithToken stores the bearer token the client should attach to outgoing calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token for the request, if any.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenContextKey{}).(string)
	return t
}
