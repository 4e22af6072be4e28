package mocks

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/stretchr/testify/mock"
)

// Requests is a mock of repository.Requests.
type Requests struct {
	mock.Mock
}

func (m *Requests) Create(ctx context.Context, r models.BookRequest) (models.BookRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(models.BookRequest), args.Error(1)
}

func (m *Requests) Get(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(models.BookRequest), args.Error(1)
}

func (m *Requests) List(ctx context.Context, kind models.RequestKind) ([]models.BookRequest, error) {
	args := m.Called(ctx, kind)
	var out []models.BookRequest
	if v := args.Get(0); v != nil {
		out = v.([]models.BookRequest)
	}
	return out, args.Error(1)
}

func (m *Requests) MarkReviewed(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(models.BookRequest), args.Error(1)
}
