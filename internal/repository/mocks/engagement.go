package mocks

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/stretchr/testify/mock"
)

// Engagement is a mock of repository.Engagement.
type Engagement struct {
	mock.Mock
}

func (m *Engagement) RecordView(ctx context.Context, bookID int64, userID string) (models.ViewEvent, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Get(0).(models.ViewEvent), args.Error(1)
}

func (m *Engagement) RecordDownload(ctx context.Context, bookID int64, userID string) (models.DownloadEvent, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Get(0).(models.DownloadEvent), args.Error(1)
}