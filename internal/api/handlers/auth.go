package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/middleware"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type AuthHandler struct {
	Users  *services.UserService
	Limits Limits
	Cookie string
	Secure bool
}

func NewAuthHandler(us *services.UserService, limits Limits, cookie string, secure bool) *AuthHandler {
	return &AuthHandler{Users: us, Limits: limits, Cookie: cookie, Secure: secure}
}

// registrationInput is echoed back on validation failure; passwords never are.
type registrationInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form services.RegistrationForm
	if !h.Limits.readForm(w, r, &form) {
		return
	}
	photo, done, err := openUpload(r, services.FieldPhoto)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid upload", nil)
		return
	}
	defer done()

	u, err := h.Users.Register(r.Context(), form, photo)
	if err != nil {
		httpx.WriteFormError(w, r, err, registrationInput{
			Username: form.Username, Email: form.Email, FirstName: form.FirstName, LastName: form.LastName,
		})
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type loginResp struct {
	services.Session
	Next string `json:"next"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form services.LoginForm
	if !h.Limits.readForm(w, r, &form) {
		return
	}
	sess, err := h.Users.Login(r.Context(), form)
	if err != nil {
		httpx.WriteFormError(w, r, err, map[string]string{"username": form.Username})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expires,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, loginResp{Session: sess, Next: safeNext(r.URL.Query().Get("next"))})
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return httpx.IndexPath
	}
	return next
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := middleware.FromCtx(r.Context()); ok {
		if err := h.Users.Logout(r.Context(), u.Claims); err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// profileResp adds the role capabilities the UI shows.
type profileResp struct {
	models.User
	FullName     string `json:"full_name"`
	CanAddBook   bool   `json:"can_add_book"`
	CanOrderBook bool   `json:"can_order_book"`
}

func newProfileResp(u models.User) profileResp {
	return profileResp{User: u, FullName: u.FullName(), CanAddBook: u.CanAddBook(), CanOrderBook: u.CanOrderBook()}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cur := middleware.CurrentUser(r.Context())
	if cur == nil {
		httpx.RedirectToLogin(w, r)
		return
	}
	u, err := h.Users.Profile(r.Context(), cur.ID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProfileResp(u))
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	cur := middleware.CurrentUser(r.Context())
	if cur == nil {
		httpx.RedirectToLogin(w, r)
		return
	}
	var form services.ProfileForm
	if !h.Limits.readForm(w, r, &form) {
		return
	}
	photo, done, err := openUpload(r, services.FieldPhoto)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid upload", nil)
		return
	}
	defer done()

	u, err := h.Users.UpdateProfile(r.Context(), *cur, form, photo)
	if err != nil {
		httpx.WriteFormError(w, r, err, form)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProfileResp(u))
}
