package middleware

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/auth"
	"github.com/baharkarakas/shelfhub/internal/models"
)

type userKey struct{}

// UserCtx is the authenticated caller of a request.
type UserCtx struct {
	User   models.User
	Claims *auth.Claims
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	if u, ok := FromCtx(ctx); ok {
		return &u.User
	}
	return nil
}
