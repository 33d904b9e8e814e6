// internal/auth/context.go
//
// Request-scoped subject (authenticated user id).

package auth

import "context"

type subjectKey struct{}

// WithSubject returns a copy of ctx carrying the authenticated user id.
func WithSubject(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, subjectKey{}, userID)
}

// SubjectFromContext returns the user id set by WithSubject.
func SubjectFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(subjectKey{}).(int64)
	return v, ok
}
