package postgres

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type engagementRepo struct{ pool *pgxpool.Pool }

func NewEngagement(pool *pgxpool.Pool) repository.Engagement {
	return &engagementRepo{pool: pool}
}

func (r *engagementRepo) RecordView(ctx context.Context, bookID int64, userID string) (models.ViewEvent, error) {
	var v models.ViewEvent
	err := r.pool.QueryRow(ctx,
		`INSERT INTO book_views(book_id, user_id) VALUES($1,$2)
		 RETURNING id, book_id, user_id, viewed_at`,
		bookID, userID,
	).Scan(&v.ID, &v.BookID, &v.UserID, &v.ViewedAt)
	return v, mapErr(err)
}

// RecordDownload relies on book_downloads_book_user_key; no ON CONFLICT, a repeat is an error.
func (r *engagementRepo) RecordDownload(ctx context.Context, bookID int64, userID string) (models.DownloadEvent, error) {
	var d models.DownloadEvent
	err := r.pool.QueryRow(ctx,
		`INSERT INTO book_downloads(book_id, user_id) VALUES($1,$2)
		 RETURNING id, book_id, user_id, downloaded_at`,
		bookID, userID,
	).Scan(&d.ID, &d.BookID, &d.UserID, &d.DownloadedAt)
	return d, mapErr(err)
}