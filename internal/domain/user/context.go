package user

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the authenticated user.
func NewContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the authenticated user stored by NewContext.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// Actor is FromContext for services: a missing user is ErrUnauthenticated.
func Actor(ctx context.Context) (User, error) {
	u, ok := FromContext(ctx)
	if !ok {
		return User{}, ErrUnauthenticated
	}
	return u, nil
}
