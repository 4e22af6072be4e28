package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/models"
	repo "github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/baharkarakas/shelfhub/internal/storage"
)

type RequestService struct {
	r     repo.Requests
	files storage.Files
}

func NewRequestService(r repo.Requests, files storage.Files) *RequestService {
	return &RequestService{r: r, files: files}
}

// RequestForm is shared by order and send requests.
type RequestForm struct {
	BookName    string `json:"book_name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Author      string `json:"author" validate:"required,max=255"`
	URL         string `json:"url" validate:"omitempty,url"`
}

// Submit records a request for user. The user is attached here, never taken from the form.
func (s *RequestService) Submit(ctx context.Context, user *models.User, kind models.RequestKind, f RequestForm, file *Upload) (models.BookRequest, error) {
	if user == nil {
		return models.BookRequest{}, ErrUnauthorized
	}
	if !kind.Valid() {
		return models.BookRequest{}, ErrNotFound
	}
	f.BookName = strings.TrimSpace(f.BookName)
	f.Description = strings.TrimSpace(f.Description)
	f.Author = strings.TrimSpace(f.Author)
	f.URL = strings.TrimSpace(f.URL)
	if errs := validate.Struct(f); len(errs) > 0 {
		return models.BookRequest{}, errs
	}

	br := models.BookRequest{
		Kind:        kind,
		UserID:      user.ID,
		BookName:    f.BookName,
		Description: f.Description,
		Author:      f.Author,
		URL:         optional(f.URL),
	}
	if file != nil {
		key, _, err := storeUpload(ctx, s.files, storage.FolderRequests, file)
		if err != nil {
			return models.BookRequest{}, err
		}
		br.FilePath = &key
	}

	created, err := s.r.Create(ctx, br)
	if err != nil {
		if br.FilePath != nil {
			_ = s.files.Delete(ctx, *br.FilePath)
		}
		return models.BookRequest{}, mapRepoErr(err)
	}
	metrics.RequestsSubmitted.WithLabelValues(string(kind)).Inc()
	slog.Info("book request submitted", "kind", kind, "request_id", created.ID, "user_id", user.ID)
	return created, nil
}

// List returns every request of kind in submission order.
func (s *RequestService) List(ctx context.Context, kind models.RequestKind) ([]models.BookRequest, error) {
	if !kind.Valid() {
		return nil, ErrNotFound
	}
	return s.r.List(ctx, kind)
}

func (s *RequestService) Get(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	if !kind.Valid() {
		return models.BookRequest{}, ErrNotFound
	}
	br, err := s.r.Get(ctx, kind, id)
	return br, mapRepoErr(err)
}

func (s *RequestService) MarkReviewed(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	if !kind.Valid() {
		return models.BookRequest{}, ErrNotFound
	}
	br, err := s.r.MarkReviewed(ctx, kind, id)
	if err != nil {
		return models.BookRequest{}, mapRepoErr(err)
	}
	slog.Info("book request reviewed", "kind", kind, "request_id", id)
	return br, nil
}
