package user

import "context"

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the authenticated caller
func WithCaller(ctx context.Context, caller *User) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the authenticated caller, or nil for anonymous requests
func CallerFromContext(ctx context.Context) *User {
	caller, _ := ctx.Value(callerKey{}).(*User)
	return caller
}
