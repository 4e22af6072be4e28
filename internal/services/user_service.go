package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/auth"
	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/models"
	repo "github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/baharkarakas/shelfhub/internal/storage"
)

// SessionStore remembers revoked session ids.
type SessionStore interface {
	Revoke(id string, exp time.Time) error
	IsRevoked(id string) (bool, error)
}

type UserService struct {
	r        repo.Users
	v        *RegistrationValidator
	tm       *auth.TokenManager
	sessions SessionStore
	files    storage.Files
}

func NewUserService(r repo.Users, tm *auth.TokenManager, sessions SessionStore, files storage.Files) *UserService {
	return &UserService{r: r, v: NewRegistrationValidator(r), tm: tm, sessions: sessions, files: files}
}

// Session is the result of a successful login.
type Session struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires_at"`
	User    models.User `json:"user"`
}

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register validates the submission and creates a student account.
// Validation failures come back as validate.Errors; nothing is written then.
func (s *UserService) Register(ctx context.Context, form RegistrationForm, photo *Upload) (models.User, error) {
	f, errs, err := s.v.Validate(ctx, form)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.User{}, err
	}
	img, err := prepareImage(photo, storage.PhotoMaxSide, FieldPhoto, errs)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.User{}, err
	}
	if len(errs) > 0 {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return models.User{}, errs
	}

	hash, err := auth.HashPassword(f.Password1)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.User{}, err
	}
	u := models.User{
		Username:     f.Username,
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		PasswordHash: hash,
		Role:         models.RoleStudent,
	}
	if img != nil {
		if u.Photo, err = storeImage(ctx, s.files, storage.FolderPhotos, img); err != nil {
			metrics.Registrations.WithLabelValues("error").Inc()
			return models.User{}, err
		}
	}

	created, err := s.r.Create(ctx, u)
	if err != nil {
		if img != nil {
			_ = s.files.Delete(ctx, u.Photo)
		}
		if dup := duplicateAccountErrors(err); dup != nil {
			metrics.Registrations.WithLabelValues("invalid").Inc()
			return models.User{}, dup
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return models.User{}, mapRepoErr(err)
	}
	metrics.Registrations.WithLabelValues("ok").Inc()
	slog.Info("user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// duplicateAccountErrors turns a unique violation that slipped past the pre-write
// checks into the same field error the validator would have produced.
func duplicateAccountErrors(err error) validate.Errors {
	if !errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	errs := validate.Errors{}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username"):
		errs.Add(FieldUsername, validate.CodeDuplicateUsername, MsgDuplicateUsername)
	case strings.Contains(msg, "email"):
		errs.Add(FieldEmail, validate.CodeDuplicateEmail, MsgDuplicateEmail)
	default:
		return nil
	}
	return errs
}

func (s *UserService) Login(ctx context.Context, form LoginForm) (Session, error) {
	if errs := validate.Struct(form); len(errs) > 0 {
		return Session{}, errs
	}
	u, err := s.r.GetByUsername(ctx, strings.TrimSpace(form.Username))
	if errors.Is(err, repo.ErrNotFound) {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if auth.VerifyPassword(form.Password, u.PasswordHash) != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return Session{}, ErrInvalidCredentials
	}

	tok, claims, err := s.tm.Issue(u.ID, string(u.Role))
	if err != nil {
		return Session{}, err
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	slog.Info("user logged in", "user_id", u.ID)
	return Session{Token: tok, Expires: claims.Expiry(), User: u}, nil
}

// Logout revokes the session until its natural expiry.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if err := s.sessions.Revoke(claims.SessionID(), claims.Expiry()); err != nil {
		return err
	}
	slog.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves a session token to its user. Any failure is ErrUnauthorized
// except store errors.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.User, *auth.Claims, error) {
	claims, err := s.tm.Parse(token)
	if err != nil {
		return models.User{}, nil, ErrUnauthorized
	}
	revoked, err := s.sessions.IsRevoked(claims.SessionID())
	if err != nil {
		return models.User{}, nil, err
	}
	if revoked {
		return models.User{}, nil, ErrUnauthorized
	}
	u, err := s.r.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, nil, ErrUnauthorized
	}
	if err != nil {
		return models.User{}, nil, err
	}
	return u, claims, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	return u, mapRepoErr(err)
}

// UpdateProfile applies the same per-field rules as registration; uniqueness ignores u itself.
func (s *UserService) UpdateProfile(ctx context.Context, u models.User, form ProfileForm, photo *Upload) (models.User, error) {
	next, errs, err := s.v.ValidateProfile(ctx, u, form)
	if err != nil {
		return models.User{}, err
	}
	img, err := prepareImage(photo, storage.PhotoMaxSide, FieldPhoto, errs)
	if err != nil {
		return models.User{}, err
	}
	if len(errs) > 0 {
		return models.User{}, errs
	}

	oldPhoto := u.Photo
	if img != nil {
		if next.Photo, err = storeImage(ctx, s.files, storage.FolderPhotos, img); err != nil {
			return models.User{}, err
		}
	}
	updated, err := s.r.Update(ctx, next)
	if err != nil {
		if img != nil {
			_ = s.files.Delete(ctx, next.Photo)
		}
		if dup := duplicateAccountErrors(err); dup != nil {
			return models.User{}, dup
		}
		return models.User{}, mapRepoErr(err)
	}
	if img != nil && oldPhoto != models.DefaultPhoto {
		if err := s.files.Delete(ctx, oldPhoto); err != nil {
			slog.Warn("delete old photo", "user_id", u.ID, "err", err)
		}
	}
	return updated, nil
}
