package postgres

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

func NewCategories(pool *pgxpool.Pool) repository.Categories {
	return &categoriesRepo{pool: pool}
}

func (r *categoriesRepo) Create(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories(name) VALUES($1) RETURNING id, name`, name,
	).Scan(&c.ID, &c.Name)
	return c, mapErr(err)
}

func (r *categoriesRepo) Get(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id=$1`, id).Scan(&c.ID, &c.Name)
	return c, mapErr(err)
}

func (r *categoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the category; its subcategories and books go with it (ON DELETE CASCADE).
func (r *categoriesRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoriesRepo) CreateSub(ctx context.Context, categoryID int64, name string) (models.SubCategory, error) {
	var s models.SubCategory
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subcategories(category_id, name) VALUES($1,$2) RETURNING id, category_id, name`,
		categoryID, name,
	).Scan(&s.ID, &s.CategoryID, &s.Name)
	return s, mapErr(err)
}

func (r *categoriesRepo) GetSub(ctx context.Context, id int64) (models.SubCategory, error) {
	var s models.SubCategory
	err := r.pool.QueryRow(ctx,
		`SELECT id, category_id, name FROM subcategories WHERE id=$1`, id,
	).Scan(&s.ID, &s.CategoryID, &s.Name)
	return s, mapErr(err)
}

func (r *categoriesRepo) ListSubs(ctx context.Context, categoryID int64) ([]models.SubCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category_id, name FROM subcategories WHERE category_id=$1 ORDER BY name, id`, categoryID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.SubCategory{}
	for rows.Next() {
		var s models.SubCategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSub leaves dependent books in place with subcategory_id set to NULL.
func (r *categoriesRepo) DeleteSub(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subcategories WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
