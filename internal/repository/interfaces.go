package repository

import (
	"context"

	"github.com/baharkarakas/shelfhub/internal/catalog"
	"github.com/baharkarakas/shelfhub/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// UsernameTaken and EmailTaken compare case-insensitively and ignore excludeID.
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, u models.User) (models.User, error)
}

type Categories interface {
	Create(ctx context.Context, name string) (models.Category, error)
	Get(ctx context.Context, id int64) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error

	CreateSub(ctx context.Context, categoryID int64, name string) (models.SubCategory, error)
	GetSub(ctx context.Context, id int64) (models.SubCategory, error)
	ListSubs(ctx context.Context, categoryID int64) ([]models.SubCategory, error)
	DeleteSub(ctx context.Context, id int64) error
}

type Books interface {
	Create(ctx context.Context, b models.Book) (models.Book, error)
	Get(ctx context.Context, id int64) (models.Book, error)
	Detail(ctx context.Context, id int64) (models.BookDetail, error)
	Update(ctx context.Context, b models.Book) (models.Book, error)
	Delete(ctx context.Context, id int64) error

	// Count and Search apply the same filter; Search orders by view count desc, id asc.
	Count(ctx context.Context, f catalog.Filter) (int, error)
	Search(ctx context.Context, f catalog.Filter, limit, offset int) ([]models.RankedBook, error)
	Recent(ctx context.Context, limit int) ([]models.Book, error)
	// FileKeysByCategory lists the stored file and cover keys of the category's books.
	FileKeysByCategory(ctx context.Context, categoryID int64) ([]string, error)
}

type Engagement interface {
	RecordView(ctx context.Context, bookID int64, userID string) (models.ViewEvent, error)
	// RecordDownload fails with ErrDuplicate for a second (book, user) pair.
	RecordDownload(ctx context.Context, bookID int64, userID string) (models.DownloadEvent, error)
}

type Requests interface {
	Create(ctx context.Context, r models.BookRequest) (models.BookRequest, error)
	Get(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error)
	List(ctx context.Context, kind models.RequestKind) ([]models.BookRequest, error)
	MarkReviewed(ctx context.Context, kind models.RequestKind, id int64) (models.BookRequest, error)
}
