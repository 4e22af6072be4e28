package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/auth"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, *auth.Claims, error)
}

type AuthMiddleware struct {
	Auth   Authenticator
	Cookie string
}

func NewAuthMiddleware(a Authenticator, cookie string) *AuthMiddleware {
	return &AuthMiddleware{Auth: a, Cookie: cookie}
}

// token reads "Authorization: Bearer <jwt>" first, then the session cookie.
func (m *AuthMiddleware) token(r *http.Request) string {
	if ah := r.Header.Get("Authorization"); len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	if c, err := r.Cookie(m.Cookie); err == nil {
		return c.Value
	}
	return ""
}

// Session attaches the caller to the request context when a valid session is
// presented. Requests without one continue anonymously.
func (m *AuthMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := m.token(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, claims, err := m.Auth.Authenticate(r.Context(), tok)
		switch {
		case err == nil:
			r = r.WithContext(WithUser(r.Context(), UserCtx{User: u, Claims: claims}))
		case errors.Is(err, services.ErrUnauthorized):
			// stale or revoked session: treat as anonymous
		default:
			httpx.WriteServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser redirects anonymous callers to the login route.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			httpx.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends signed-in callers to the index instead of the
// register and login routes.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) != nil {
			http.Redirect(w, r, httpx.IndexPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
