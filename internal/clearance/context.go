// Package clearance carries the caller-supplied security clearance through a request.
//
// Clearance is an unauthenticated integer. It gates operations; it does not identify anyone.
package clearance

import "context"

// Level is a presented security clearance. Zero means none was presented.
type Level int

// None is the level of a caller that presented no usable clearance.
const None Level = 0

// Present reports whether the caller supplied a usable clearance.
func (l Level) Present() bool { return l > None }

type ctxKey struct{}

func WithLevel(ctx context.Context, l Level) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the clearance stored by WithLevel, or None.
func FromContext(ctx context.Context) Level {
	if l, ok := ctx.Value(ctxKey{}).(Level); ok {
		return l
	}
	return None
}
