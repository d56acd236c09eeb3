// Package identity carries the resolved caller through request handling.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an operation requires a known caller.
var ErrUnauthenticated = errors.New("not authenticated")

// Caller is the authenticated user on whose behalf an operation runs.
// The zero value is the anonymous caller.
type Caller struct {
	UserID string
}

// Anonymous returns the caller used when no credentials were presented.
func Anonymous() Caller {
	return Caller{}
}

// User returns a caller for the given user ID.
func User(userID string) Caller {
	return Caller{UserID: userID}
}

// Authenticated reports whether the caller resolved to a user.
func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

// Require returns ErrUnauthenticated for the anonymous caller.
func (c Caller) Require() error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

type callerKey struct{}

// WithCaller stores the caller on the context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller stored on the context, or the anonymous caller.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}
