package postgres

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/catalog"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var dialect = goqu.Dialect("postgres")

type booksRepo struct{ pool *pgxpool.Pool }

func NewBooks(pool *pgxpool.Pool) repository.Books {
	return &booksRepo{pool: pool}
}

var bookFields = []string{
	"id", "title", "description", "author", "year", "pages", "isbn", "url",
	"file_path", "size", "cover_path", "category_id", "subcategory_id", "created_at",
}

const bookColumns = `id, title, description, author, year, pages, isbn, url, file_path, size, cover_path, category_id, subcategory_id, created_at`

// view count is derived, never stored
var viewCount = goqu.L(`(SELECT COUNT(*) FROM book_views v WHERE v.book_id = b.id)`).As("views")

func qualified(alias string) []any {
	cols := make([]any, 0, len(bookFields))
	for _, f := range bookFields {
		cols = append(cols, goqu.I(alias+"."+f))
	}
	return cols
}

func bookDest(b *models.Book) []any {
	return []any{&b.ID, &b.Title, &b.Description, &b.Author, &b.Year, &b.Pages, &b.ISBN, &b.URL,
		&b.FilePath, &b.Size, &b.CoverPath, &b.CategoryID, &b.SubCategoryID, &b.CreatedAt}
}

func scanBook(row pgx.Row) (models.Book, error) {
	var b models.Book
	err := row.Scan(bookDest(&b)...)
	return b, mapErr(err)
}

// filterExpressions turns each present filter into one conjunctive predicate.
func filterExpressions(f catalog.Filter) []exp.Expression {
	var ex []exp.Expression
	if f.Title != "" {
		ex = append(ex, goqu.I("b.title").ILike(likePattern(f.Title)))
	}
	if f.Author != "" {
		ex = append(ex, goqu.I("b.author").ILike(likePattern(f.Author)))
	}
	if f.Year != nil {
		ex = append(ex, goqu.I("b.year").Eq(*f.Year))
	}
	if f.ISBN != "" {
		ex = append(ex, goqu.I("b.isbn").ILike(likePattern(f.ISBN)))
	}
	if f.CategoryID != nil {
		ex = append(ex, goqu.I("b.category_id").Eq(*f.CategoryID))
	}
	return ex
}

func filtered(ds *goqu.SelectDataset, f catalog.Filter) *goqu.SelectDataset {
	if ex := filterExpressions(f); len(ex) > 0 {
		ds = ds.Where(ex...)
	}
	return ds
}

func countQuery(f catalog.Filter) (string, []any, error) {
	ds := dialect.From(goqu.T("books").As("b")).Select(goqu.COUNT(goqu.Star()))
	return filtered(ds, f).Prepared(true).ToSQL()
}

func searchQuery(f catalog.Filter, limit, offset int) (string, []any, error) {
	ds := dialect.From(goqu.T("books").As("b")).
		Select(append(qualified("b"), viewCount)...)
	ds = filtered(ds, f).
		Order(goqu.C("views").Desc(), goqu.I("b.id").Asc()).
		Limit(uint(limit)).
		Offset(uint(offset))
	return ds.Prepared(true).ToSQL()
}

func (r *booksRepo) Count(ctx context.Context, f catalog.Filter) (int, error) {
	q, args, err := countQuery(f)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.pool.QueryRow(ctx, q, args...).Scan(&n)
	return n, mapErr(err)
}

func (r *booksRepo) Search(ctx context.Context, f catalog.Filter, limit, offset int) ([]models.RankedBook, error) {
	q, args, err := searchQuery(f, limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.RankedBook{}
	for rows.Next() {
		var rb models.RankedBook
		if err := rows.Scan(append(bookDest(&rb.Book), &rb.Views)...); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}

func (r *booksRepo) Recent(ctx context.Context, limit int) ([]models.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(bookDest(&b)...); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) Create(ctx context.Context, b models.Book) (models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`INSERT INTO books(title, description, author, year, pages, isbn, url, file_path, size, cover_path, category_id, subcategory_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING `+bookColumns,
		b.Title, b.Description, b.Author, b.Year, b.Pages, b.ISBN, b.URL,
		b.FilePath, b.Size, b.CoverPath, b.CategoryID, b.SubCategoryID,
	))
}

func (r *booksRepo) Get(ctx context.Context, id int64) (models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id=$1`, id))
}

func (r *booksRepo) Detail(ctx context.Context, id int64) (models.BookDetail, error) {
	var d models.BookDetail
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+`,
		        (SELECT COUNT(*) FROM book_views v WHERE v.book_id = books.id),
		        (SELECT COUNT(*) FROM book_downloads d WHERE d.book_id = books.id)
		   FROM books WHERE id=$1`, id,
	).Scan(append(bookDest(&d.Book), &d.Views, &d.Downloads)...)
	return d, mapErr(err)
}

func (r *booksRepo) Update(ctx context.Context, b models.Book) (models.Book, error) {
	return scanBook(r.pool.QueryRow(ctx,
		`UPDATE books
		    SET title=$2, description=$3, author=$4, year=$5, pages=$6, isbn=$7, url=$8,
		        file_path=$9, size=$10, cover_path=$11, category_id=$12, subcategory_id=$13
		  WHERE id=$1
		  RETURNING `+bookColumns,
		b.ID, b.Title, b.Description, b.Author, b.Year, b.Pages, b.ISBN, b.URL,
		b.FilePath, b.Size, b.CoverPath, b.CategoryID, b.SubCategoryID,
	))
}

func (r *booksRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *booksRepo) FileKeysByCategory(ctx context.Context, categoryID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT file_path, cover_path FROM books WHERE category_id=$1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var file, cover *string
		if err := rows.Scan(&file, &cover); err != nil {
			return nil, err
		}
		for _, k := range []*string{file, cover} {
			if k != nil && *k != "" {
				keys = append(keys, *k)
			}
		}
	}
	return keys, rows.Err()
}
