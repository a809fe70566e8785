// Package session exposes the already-authenticated user to services.
// Authentication itself happens upstream (see the HTTP auth middleware).
package session

import (
	"context"
	"errors"
	"strings"
)

var ErrNoSession = errors.New("no authenticated session")

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, strings.TrimSpace(userID))
}

func UserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// Provider resolves the current user for a request.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// ContextProvider reads the user placed in ctx by the auth middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, error) {
	if id, ok := UserID(ctx); ok {
		return id, nil
	}
	return "", ErrNoSession
}
