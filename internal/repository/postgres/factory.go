package postgres

import (
	repo "github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users      repo.Users
	Categories repo.Categories
	Books      repo.Books
	Engagement repo.Engagement
	Requests   repo.Requests
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:      &usersRepo{pool},
		Categories: &categoriesRepo{pool},
		Books:      &booksRepo{pool},
		Engagement: &engagementRepo{pool},
		Requests:   &requestsRepo{pool},
	}
}
