package mocks

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/catalog"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/stretchr/testify/mock"
)

// Books is a mock of repository.Books.
type Books struct {
	mock.Mock
}

func (m *Books) Create(ctx context.Context, b models.Book) (models.Book, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(models.Book), args.Error(1)
}

func (m *Books) Get(ctx context.Context, id int64) (models.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Book), args.Error(1)
}

func (m *Books) Detail(ctx context.Context, id int64) (models.BookDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.BookDetail), args.Error(1)
}

func (m *Books) Update(ctx context.Context, b models.Book) (models.Book, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(models.Book), args.Error(1)
}

func (m *Books) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Books) Count(ctx context.Context, f catalog.Filter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *Books) Search(ctx context.Context, f catalog.Filter, limit, offset int) ([]models.RankedBook, error) {
	args := m.Called(ctx, f, limit, offset)
	var out []models.RankedBook
	if v := args.Get(0); v != nil {
		out = v.([]models.RankedBook)
	}
	return out, args.Error(1)
}

func (m *Books) Recent(ctx context.Context, limit int) ([]models.Book, error) {
	args := m.Called(ctx, limit)
	var out []models.Book
	if v := args.Get(0); v != nil {
		out = v.([]models.Book)
	}
	return out, args.Error(1)
}

func (m *Books) FileKeysByCategory(ctx context.Context, categoryID int64) ([]string, error) {
	args := m.Called(ctx, categoryID)
	var out []string
	if v := args.Get(0); v != nil {
		out = v.([]string)
	}
	return out, args.Error(1)
}
