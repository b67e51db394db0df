package session

import "context"

// Session is the acting admin as asserted by the identity provider.
type Session struct {
	AdminID    string
	AdminEmail string
	Token      string
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)

	return s, ok
}
