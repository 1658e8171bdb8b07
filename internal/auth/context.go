package auth

import (
	"context"

	"github.com/telbook/telbook/internal/db/models"
)

type userContextKey struct{}

// WithUser stores the authenticated user on the context for downstream consumers.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	return user, ok
}
