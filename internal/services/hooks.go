package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/models"
)

// BookCreatedHook runs synchronously after a book has been stored.
type BookCreatedHook func(ctx context.Context, b models.Book)

// LogBookCreated logs new books; books that come with a file are logged at info.
func LogBookCreated(_ context.Context, b models.Book) {
	if b.HasFile() {
		slog.Info("book with file added", "book_id", b.ID, "title", b.Title, "file", *b.FilePath)
		return
	}
	slog.Debug("book added", "book_id", b.ID, "title", b.Title)
}

func CountBookCreated(_ context.Context, _ models.Book) { metrics.BooksCreated.Inc() }

// DefaultBookHooks are the hooks wired in production.
func DefaultBookHooks() []BookCreatedHook {
	return []BookCreatedHook{LogBookCreated, CountBookCreated}
}
