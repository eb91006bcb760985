// Package auth resolves the acting user and issues the tokens that identify it.
package auth

import (
	"context"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

type ctxKey string

const userIDKey ctxKey = "deazl.userID"

// Provider resolves the acting user of a request.
type Provider interface {
	// CurrentUser returns the user id or an errs.ErrUnauthenticated error.
	CurrentUser(ctx context.Context) (string, error)
}

// WithUserID stores the authenticated user ID in context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx fetches the user ID from context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ContextProvider reads the user placed in the context by the auth middleware.
type ContextProvider struct{}

// NewContextProvider returns the context-backed provider.
func NewContextProvider() ContextProvider { return ContextProvider{} }

func (ContextProvider) CurrentUser(ctx context.Context) (string, error) {
	id, ok := UserIDFromCtx(ctx)
	if !ok {
		return "", errs.Unauthenticated("must sign in")
	}
	return id, nil
}
