package mocks

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/stretchr/testify/mock"
)

// Categories is a mock of repository.Categories.
type Categories struct {
	mock.Mock
}

func (m *Categories) Create(ctx context.Context, name string) (models.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *Categories) Get(ctx context.Context, id int64) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *Categories) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	var out []models.Category
	if v := args.Get(0); v != nil {
		out = v.([]models.Category)
	}
	return out, args.Error(1)
}

func (m *Categories) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Categories) CreateSub(ctx context.Context, categoryID int64, name string) (models.SubCategory, error) {
	args := m.Called(ctx, categoryID, name)
	return args.Get(0).(models.SubCategory), args.Error(1)
}

func (m *Categories) GetSub(ctx context.Context, id int64) (models.SubCategory, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.SubCategory), args.Error(1)
}

func (m *Categories) ListSubs(ctx context.Context, categoryID int64) ([]models.SubCategory, error) {
	args := m.Called(ctx, categoryID)
	var out []models.SubCategory
	if v := args.Get(0); v != nil {
		out = v.([]models.SubCategory)
	}
	return out, args.Error(1)
}

func (m *Categories) DeleteSub(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
