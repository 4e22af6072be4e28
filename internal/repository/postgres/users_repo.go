package postgres

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, photo, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Photo,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Photo == "" {
		u.Photo = models.DefaultPhoto
	}
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	return scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, first_name, last_name, photo, password_hash, role)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Photo, u.PasswordHash, u.Role,
	))
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, repository.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username)=lower($1)`, username))
}

func (r *usersRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username)=lower($1) AND id::text <> $2)`,
		username, excludeID,
	).Scan(&taken)
	return taken, err
}

func (r *usersRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email)=lower($1) AND id::text <> $2)`,
		email, excludeID,
	).Scan(&taken)
	return taken, err
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username=$2, email=$3, first_name=$4, last_name=$5, photo=$6, role=$7, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Photo, u.Role,
	))
}