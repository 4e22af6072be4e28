package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/shelfhub/internal/auth"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type stubAuth struct {
	users map[string]models.User
	err   error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (models.User, *auth.Claims, error) {
	if s.err != nil {
		return models.User{}, nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return models.User{}, nil, services.ErrUnauthorized
	}
	return u, &auth.Claims{UserID: u.ID, Role: string(u.Role)}, nil
}

// whoami answers with the current username, or "anonymous".
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if u := CurrentUser(r.Context()); u != nil {
		_, _ = w.Write([]byte(u.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestSession_ResolvesCookieAndBearer(t *testing.T) {
	m := NewAuthMiddleware(stubAuth{users: map[string]models.User{
		"tok": {ID: "1", Username: "alice"},
	}}, "session")
	h := m.Session(whoami)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "alice", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tok")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "alice", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "stale"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestSession_StoreFailureIs500(t *testing.T) {
	m := NewAuthMiddleware(stubAuth{err: errors.New("bolt closed")}, "session")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})
	rec := httptest.NewRecorder()
	m.Session(whoami).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func withUser(r *http.Request, u models.User) *http.Request {
	return r.WithContext(WithUser(r.Context(), UserCtx{User: u}))
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me?tab=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/v1/auth/login?next=%2Fapi%2Fv1%2Fme%3Ftab%3D1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), models.User{Username: "bob"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", rec.Body.String())
}

func TestRedirectIfAuthenticated(t *testing.T) {
	h := RedirectIfAuthenticated(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), models.User{Username: "bob"}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/v1/books", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleLibrarian)(whoami)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/", nil), models.User{Username: "s", Role: models.RoleStudent}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/", nil), models.User{Username: "lib", Role: models.RoleLibrarian}))
	assert.Equal(t, "lib", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", id)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, id, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLimiter_PerClient(t *testing.T) {
	l := newLimiter(2)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))

	now = now.Add(500 * time.Millisecond)
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0)(whoami)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
