package session

import "context"

type contextKey struct{}

// WithStore attaches the request's session store to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store attached by WithStore. Without one it returns
// an empty unauthenticated store so callers never see nil.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(contextKey{}).(*Store); ok {
		return s
	}
	return NewStore(nil)
}
