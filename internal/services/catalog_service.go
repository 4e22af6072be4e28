package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/catalog"
	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/models"
	repo "github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/baharkarakas/shelfhub/internal/storage"
)

const MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

type CatalogService struct {
	books      repo.Books
	categories repo.Categories
	engagement repo.Engagement
	files      storage.Files
	hooks      []BookCreatedHook
}

func NewCatalogService(books repo.Books, categories repo.Categories, engagement repo.Engagement, files storage.Files, hooks ...BookCreatedHook) *CatalogService {
	return &CatalogService{books: books, categories: categories, engagement: engagement, files: files, hooks: hooks}
}

// BookForm is the librarian's book submission.
type BookForm struct {
	Title         string `json:"title" validate:"required,max=100"`
	Description   string `json:"description" validate:"required"`
	Author        string `json:"author" validate:"required,max=100"`
	Year          *int   `json:"year" validate:"required,gte=0,lte=9999"`
	Pages         *int   `json:"pages" validate:"required,gte=1"`
	ISBN          string `json:"isbn" validate:"omitempty,max=17"`
	URL           string `json:"url" validate:"omitempty,url"`
	Size          *int64 `json:"size" validate:"omitempty,gte=0"`
	CategoryID    int64  `json:"category_id" validate:"required"`
	SubCategoryID *int64 `json:"sub_category_id"`

	// Invalid holds values the transport could not decode into their fields.
	Invalid validate.Errors `json:"-" validate:"-"`
}

type CategoryForm struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CategoryDetail struct {
	models.Category
	SubCategories []models.SubCategory `json:"subcategories"`
}

// Download is an open book file. The caller closes Body.
type Download struct {
	Book models.Book
	Name string
	Body io.ReadCloser
}

// List runs the catalog query: filter from q, rank by views, paginate, and
// attach the recent books, categories and the parameters without "page".
func (s *CatalogService) List(ctx context.Context, q url.Values, categoryID *int64) (catalog.Result, error) {
	if categoryID != nil {
		if _, err := s.categories.Get(ctx, *categoryID); err != nil {
			return catalog.Result{}, mapRepoErr(err)
		}
	}
	f := catalog.ParseFilter(q)
	f.CategoryID = categoryID

	total, err := s.books.Count(ctx, f)
	if err != nil {
		return catalog.Result{}, err
	}
	page := catalog.ResolvePage(q.Get(catalog.ParamPage), total)
	books, err := s.books.Search(ctx, f, page.Limit(), page.Offset())
	if err != nil {
		return catalog.Result{}, err
	}
	recent, err := s.books.Recent(ctx, catalog.RecentLimit)
	if err != nil {
		return catalog.Result{}, err
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return catalog.Result{
		Books:      books,
		Page:       page,
		Recent:     recent,
		Categories: cats,
		Params:     catalog.PreservedParams(q).Encode(),
	}, nil
}

// Detail returns the book and, for a signed-in viewer, records one more view.
// Views are never de-duplicated.
func (s *CatalogService) Detail(ctx context.Context, id int64, viewer *models.User) (models.BookDetail, error) {
	d, err := s.books.Detail(ctx, id)
	if err != nil {
		return models.BookDetail{}, mapRepoErr(err)
	}
	if viewer == nil {
		return d, nil
	}
	if _, err := s.engagement.RecordView(ctx, id, viewer.ID); err != nil {
		return models.BookDetail{}, mapRepoErr(err)
	}
	metrics.BookViews.Inc()
	d.Views++
	return d, nil
}

// Download opens the book's file for a signed-in user and records the first
// download of each (book, user) pair; later downloads are served without a new record.
func (s *CatalogService) Download(ctx context.Context, id int64, user *models.User) (Download, error) {
	if user == nil {
		return Download{}, ErrUnauthorized
	}
	b, err := s.books.Get(ctx, id)
	if err != nil {
		return Download{}, mapRepoErr(err)
	}
	if !b.HasFile() {
		return Download{}, ErrNotFound
	}
	body, err := s.files.Open(ctx, *b.FilePath)
	if errors.Is(err, storage.ErrNotExist) {
		return Download{}, ErrNotFound
	}
	if err != nil {
		return Download{}, err
	}

	_, err = s.engagement.RecordDownload(ctx, id, user.ID)
	switch {
	case err == nil:
		metrics.BookDownloads.Inc()
	case errors.Is(err, repo.ErrDuplicate):
		slog.Debug("repeat download", "book_id", id, "user_id", user.ID)
	default:
		body.Close()
		return Download{}, mapRepoErr(err)
	}
	return Download{Book: b, Name: downloadName(*b.FilePath), Body: body}, nil
}

// downloadName strips the date and uuid prefix that storage.NewKey adds.
func downloadName(key string) string {
	name := path.Base(key)
	if parts := strings.SplitN(name, "-", 7); len(parts) == 7 && len(parts[0]) == 8 {
		return parts[6]
	}
	return name
}

func (s *CatalogService) validateBook(ctx context.Context, f *BookForm) (validate.Errors, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Description = strings.TrimSpace(f.Description)
	f.ISBN = strings.TrimSpace(f.ISBN)
	f.URL = strings.TrimSpace(f.URL)

	errs := validate.Struct(*f)
	for field := range f.Invalid {
		delete(errs, field)
	}
	errs.Merge(f.Invalid)
	if f.CategoryID != 0 {
		if _, err := s.categories.Get(ctx, f.CategoryID); errors.Is(err, repo.ErrNotFound) {
			errs.Add("category_id", validate.CodeInvalid, MsgInvalidChoice)
		} else if err != nil {
			return nil, err
		}
	}
	if f.SubCategoryID != nil {
		sub, err := s.categories.GetSub(ctx, *f.SubCategoryID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			errs.Add("sub_category_id", validate.CodeInvalid, MsgInvalidChoice)
		case err != nil:
			return nil, err
		case sub.CategoryID != f.CategoryID:
			errs.Add("sub_category_id", validate.CodeInvalid, MsgInvalidChoice)
		}
	}
	return errs, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (f BookForm) apply(b models.Book) models.Book {
	b.Title = f.Title
	b.Description = f.Description
	b.Author = f.Author
	b.Year = *f.Year
	b.Pages = *f.Pages
	b.ISBN = optional(f.ISBN)
	b.URL = optional(f.URL)
	b.CategoryID = f.CategoryID
	b.SubCategoryID = f.SubCategoryID
	if f.Size != nil {
		b.Size = f.Size
	}
	return b
}

// storeBookFiles saves the optional book file and cover onto b.
func (s *CatalogService) storeBookFiles(ctx context.Context, b *models.Book, file *Upload, cover *preparedImage) ([]string, error) {
	var written []string
	if file != nil {
		key, n, err := storeUpload(ctx, s.files, storage.FolderBooks, file)
		if err != nil {
			return written, err
		}
		written = append(written, key)
		b.FilePath = &key
		if b.Size == nil {
			b.Size = &n
		}
	}
	if cover != nil {
		key, err := storeImage(ctx, s.files, storage.FolderCovers, cover)
		if err != nil {
			return written, err
		}
		written = append(written, key)
		b.CoverPath = &key
	}
	return written, nil
}

func (s *CatalogService) removeFiles(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.files.Delete(ctx, k); err != nil {
			slog.Warn("delete stored file", "key", k, "err", err)
		}
	}
}

// CreateBook validates and stores a book, then runs the post-create hooks.
func (s *CatalogService) CreateBook(ctx context.Context, f BookForm, file, cover *Upload) (models.Book, error) {
	errs, err := s.validateBook(ctx, &f)
	if err != nil {
		return models.Book{}, err
	}
	img, err := prepareImage(cover, storage.CoverMaxSide, "cover", errs)
	if err != nil {
		return models.Book{}, err
	}
	if len(errs) > 0 {
		return models.Book{}, errs
	}

	b := f.apply(models.Book{})
	written, err := s.storeBookFiles(ctx, &b, file, img)
	if err != nil {
		s.removeFiles(ctx, written...)
		return models.Book{}, err
	}
	created, err := s.books.Create(ctx, b)
	if err != nil {
		s.removeFiles(ctx, written...)
		return models.Book{}, mapRepoErr(err)
	}
	for _, h := range s.hooks {
		h(ctx, created)
	}
	return created, nil
}

// UpdateBook replaces the book's fields; a new file or cover replaces the stored one.
func (s *CatalogService) UpdateBook(ctx context.Context, id int64, f BookForm, file, cover *Upload) (models.Book, error) {
	cur, err := s.books.Get(ctx, id)
	if err != nil {
		return models.Book{}, mapRepoErr(err)
	}
	errs, err := s.validateBook(ctx, &f)
	if err != nil {
		return models.Book{}, err
	}
	img, err := prepareImage(cover, storage.CoverMaxSide, "cover", errs)
	if err != nil {
		return models.Book{}, err
	}
	if len(errs) > 0 {
		return models.Book{}, errs
	}

	b := f.apply(cur)
	if file != nil && f.Size == nil {
		b.Size = nil
	}
	written, err := s.storeBookFiles(ctx, &b, file, img)
	if err != nil {
		s.removeFiles(ctx, written...)
		return models.Book{}, err
	}
	updated, err := s.books.Update(ctx, b)
	if err != nil {
		s.removeFiles(ctx, written...)
		return models.Book{}, mapRepoErr(err)
	}
	if file != nil && cur.FilePath != nil {
		s.removeFiles(ctx, *cur.FilePath)
	}
	if img != nil && cur.CoverPath != nil {
		s.removeFiles(ctx, *cur.CoverPath)
	}
	return updated, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	b, err := s.books.Get(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	if b.FilePath != nil {
		s.removeFiles(ctx, *b.FilePath)
	}
	if b.CoverPath != nil {
		s.removeFiles(ctx, *b.CoverPath)
	}
	slog.Info("book deleted", "book_id", id)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) Category(ctx context.Context, id int64) (CategoryDetail, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return CategoryDetail{}, mapRepoErr(err)
	}
	subs, err := s.categories.ListSubs(ctx, id)
	if err != nil {
		return CategoryDetail{}, err
	}
	return CategoryDetail{Category: c, SubCategories: subs}, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, f CategoryForm) (models.Category, error) {
	f.Name = strings.TrimSpace(f.Name)
	if errs := validate.Struct(f); len(errs) > 0 {
		return models.Category{}, errs
	}
	c, err := s.categories.Create(ctx, f.Name)
	return c, mapRepoErr(err)
}

// DeleteCategory removes the category together with its subcategories and books,
// then the stored files of those books.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	keys, err := s.books.FileKeysByCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.removeFiles(ctx, keys...)
	slog.Info("category deleted", "category_id", id)
	return nil
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, categoryID int64, f CategoryForm) (models.SubCategory, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return models.SubCategory{}, mapRepoErr(err)
	}
	f.Name = strings.TrimSpace(f.Name)
	if errs := validate.Struct(f); len(errs) > 0 {
		return models.SubCategory{}, errs
	}
	sub, err := s.categories.CreateSub(ctx, categoryID, f.Name)
	return sub, mapRepoErr(err)
}

// DeleteSubCategory keeps the books that referenced it.
func (s *CatalogService) DeleteSubCategory(ctx context.Context, id int64) error {
	return mapRepoErr(s.categories.DeleteSub(ctx, id))
}
