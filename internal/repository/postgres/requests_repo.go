package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type requestsRepo struct{ pool *pgxpool.Pool }

func NewRequests(pool *pgxpool.Pool) repository.Requests {
	return &requestsRepo{pool: pool}
}

const requestColumns = `id, user_id, book_name, description, author, file_path, url, reviewed, created_at`

func requestTable(kind models.RequestKind) (string, error) {
	switch kind {
	case models.KindOrder:
		return "order_requests", nil
	case models.KindSend:
		return "send_requests", nil
	}
	return "", fmt.Errorf("unknown request kind %q", kind)
}

func scanRequest(kind models.RequestKind, row pgx.Row) (models.BookRequest, error) {
	br := models.BookRequest{Kind: kind}
	err := row.Scan(&br.ID, &br.UserID, &br.BookName, &br.Description, &br.Author,
		&br.FilePath, &br.URL, &br.Reviewed, &br.CreatedAt)
	return br, mapErr(err)
}

func (r *requestsRepo) Create(ctx context.Context, br models.BookRequest) (models.BookRequest, error) {
	table, err := requestTable(br.Kind)
	if err != nil {
		return models.BookRequest{}, err
	}
	return scanRequest(br.Kind, r.pool.QueryRow(ctx,
		`INSERT INTO `+table+`(user_id, book_name, description, author, file_path, url)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+requestColumns,
		br.UserID, br.BookName, br.Description, br.Author, br.FilePath, br.URL,
	))
}

func (r *requestsRepo) Get(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	table, err := requestTable(kind)
	if err != nil {
		return models.BookRequest{}, err
	}
	return scanRequest(kind, r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM `+table+` WHERE id=$1`, id))
}

// List returns every request of the kind in submission order.
func (r *requestsRepo) List(ctx context.Context, kind models.RequestKind) ([]models.BookRequest, error) {
	table, err := requestTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+requestColumns+` FROM `+table+` ORDER BY created_at, id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.BookRequest{}
	for rows.Next() {
		br, err := scanRequest(kind, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func (r *requestsRepo) MarkReviewed(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error) {
	table, err := requestTable(kind)
	if err != nil {
		return models.BookRequest{}, err
	}
	return scanRequest(kind, r.pool.QueryRow(ctx,
		`UPDATE `+table+` SET reviewed=true WHERE id=$1 RETURNING `+requestColumns, id))
}
