package mocks

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/stretchr/testify/mock"
)

// Users is a mock of repository.Users.
type Users struct {
	mock.Mock
}

func (m *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *Users) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *Users) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *Users) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *Users) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *Users) Update(ctx context.Context, u models.User) (models.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(models.User), args.Error(1)
}