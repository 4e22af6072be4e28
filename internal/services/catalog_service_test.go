package services_test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/catalog"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository"
	"github.com/baharkarakas/shelfhub/internal/repository/mocks"
	"github.com/baharkarakas/shelfhub/internal/services"
	"github.com/baharkarakas/shelfhub/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	books      *mocks.Books
	categories *mocks.Categories
	engagement *mocks.Engagement
	files      *storage.Disk
	svc        *services.CatalogService
	created    []models.Book
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		books:      new(mocks.Books),
		categories: new(mocks.Categories),
		engagement: new(mocks.Engagement),
		files:      newDisk(t),
	}
	hook := func(_ context.Context, b models.Book) { f.created = append(f.created, b) }
	f.svc = services.NewCatalogService(f.books, f.categories, f.engagement, f.files, hook)
	return f
}

func (f *catalogFixture) expectListing(total int, wantFilter catalog.Filter, limit, offset int) {
	f.books.On("Count", mock.Anything, wantFilter).Return(total, nil).Once()
	f.books.On("Search", mock.Anything, wantFilter, limit, offset).Return([]models.RankedBook{{Book: models.Book{ID: 1}}}, nil).Once()
	f.books.On("Recent", mock.Anything, catalog.RecentLimit).Return([]models.Book{{ID: 9}}, nil).Once()
	f.categories.On("List", mock.Anything).Return([]models.Category{{ID: 1, Name: "Fiction"}}, nil).Once()
}

func TestCatalogService_List_NonIntegerPageIsFirst(t *testing.T) {
	f := newCatalogFixture(t)
	f.expectListing(20, catalog.Filter{}, catalog.PageSize, 0)

	res, err := f.svc.List(context.Background(), url.Values{"page": {"abc"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Number)
	assert.Equal(t, 4, res.Page.NumPages)
	assert.Len(t, res.Recent, 1)
	assert.Len(t, res.Categories, 1)
	f.books.AssertExpectations(t)
}

func TestCatalogService_List_BeyondLastPageIsLast(t *testing.T) {
	f := newCatalogFixture(t)
	f.expectListing(20, catalog.Filter{}, catalog.PageSize, 18)

	res, err := f.svc.List(context.Background(), url.Values{"page": {"9999"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Page.Number)
	assert.False(t, res.Page.HasNext)
	assert.True(t, res.Page.HasPrevious)
	f.books.AssertExpectations(t)
}

func TestCatalogService_List_FiltersAndKeepsParams(t *testing.T) {
	f := newCatalogFixture(t)
	year := 1999
	want := catalog.Filter{Title: "dune", Year: &year}
	f.expectListing(1, want, catalog.PageSize, 0)

	q := url.Values{"title": {"dune"}, "year": {"1999"}, "page": {"2"}}
	res, err := f.svc.List(context.Background(), q, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Number)
	assert.Equal(t, "title=dune&year=1999", res.Params)
	f.books.AssertExpectations(t)
}

func TestCatalogService_List_Category(t *testing.T) {
	f := newCatalogFixture(t)
	cat := int64(5)
	f.categories.On("Get", mock.Anything, cat).Return(models.Category{ID: cat}, nil).Once()
	f.expectListing(0, catalog.Filter{CategoryID: &cat}, catalog.PageSize, 0)

	res, err := f.svc.List(context.Background(), url.Values{}, &cat)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.NumPages)

	missing := int64(6)
	f.categories.On("Get", mock.Anything, missing).Return(models.Category{}, repository.ErrNotFound).Once()
	_, err = f.svc.List(context.Background(), url.Values{}, &missing)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCatalogService_Detail_EveryViewCounts(t *testing.T) {
	f := newCatalogFixture(t)
	viewer := &models.User{ID: "u-1"}
	f.books.On("Detail", mock.Anything, int64(3)).Return(models.BookDetail{Book: models.Book{ID: 3}, Views: 4}, nil).Twice()
	f.engagement.On("RecordView", mock.Anything, int64(3), "u-1").Return(models.ViewEvent{}, nil).Twice()

	for i := 0; i < 2; i++ {
		d, err := f.svc.Detail(context.Background(), 3, viewer)
		require.NoError(t, err)
		assert.Equal(t, int64(5), d.Views)
	}
	f.engagement.AssertNumberOfCalls(t, "RecordView", 2)
}

func TestCatalogService_Detail_AnonymousAndMissing(t *testing.T) {
	f := newCatalogFixture(t)
	f.books.On("Detail", mock.Anything, int64(3)).Return(models.BookDetail{Book: models.Book{ID: 3}}, nil).Once()
	f.books.On("Detail", mock.Anything, int64(4)).Return(models.BookDetail{}, repository.ErrNotFound).Once()

	_, err := f.svc.Detail(context.Background(), 3, nil)
	require.NoError(t, err)
	f.engagement.AssertNotCalled(t, "RecordView", mock.Anything, mock.Anything, mock.Anything)

	_, err = f.svc.Detail(context.Background(), 4, &models.User{ID: "u-1"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func strPtr(s string) *string { return &s }

func TestCatalogService_Download(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	key := "books/20240101-123e4567-e89b-12d3-a456-426614174000-dune.pdf"
	_, err := f.files.Save(ctx, key, strings.NewReader("pdf"))
	require.NoError(t, err)

	user := &models.User{ID: "u-1"}
	f.books.On("Get", mock.Anything, int64(1)).Return(models.Book{ID: 1, FilePath: &key}, nil)
	f.engagement.On("RecordDownload", mock.Anything, int64(1), "u-1").Return(models.DownloadEvent{}, nil).Once()
	f.engagement.On("RecordDownload", mock.Anything, int64(1), "u-1").Return(models.DownloadEvent{}, repository.ErrDuplicate).Once()

	for i := 0; i < 2; i++ {
		dl, err := f.svc.Download(ctx, 1, user)
		require.NoError(t, err)
		body, err := io.ReadAll(dl.Body)
		require.NoError(t, err)
		require.NoError(t, dl.Body.Close())
		assert.Equal(t, "pdf", string(body))
		assert.Equal(t, "dune.pdf", dl.Name)
	}
	f.engagement.AssertExpectations(t)
}

func TestCatalogService_Download_Failures(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.svc.Download(ctx, 1, nil)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	user := &models.User{ID: "u-1"}
	f.books.On("Get", mock.Anything, int64(1)).Return(models.Book{ID: 1}, nil)
	_, err = f.svc.Download(ctx, 1, user)
	assert.ErrorIs(t, err, services.ErrNotFound)

	f.books.On("Get", mock.Anything, int64(2)).Return(models.Book{ID: 2, FilePath: strPtr("books/missing.pdf")}, nil)
	_, err = f.svc.Download(ctx, 2, user)
	assert.ErrorIs(t, err, services.ErrNotFound)

	f.books.On("Get", mock.Anything, int64(3)).Return(models.Book{}, repository.ErrNotFound)
	_, err = f.svc.Download(ctx, 3, user)
	assert.ErrorIs(t, err, services.ErrNotFound)

	f.engagement.AssertNotCalled(t, "RecordDownload", mock.Anything, mock.Anything, mock.Anything)
}

func intPtr(n int) *int { return &n }

func validBook() services.BookForm {
	return services.BookForm{
		Title: "Dune", Description: "Spice", Author: "Frank Herbert",
		Year: intPtr(1965), Pages: intPtr(412), CategoryID: 1,
	}
}

func TestCatalogService_CreateBook_RunsHooks(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	f.categories.On("Get", mock.Anything, int64(1)).Return(models.Category{ID: 1}, nil)
	f.books.On("Create", mock.Anything, mock.MatchedBy(func(b models.Book) bool {
		return b.Title == "Dune" && b.FilePath != nil && b.Size != nil && *b.Size == 3
	})).Return(models.Book{ID: 7, Title: "Dune"}, nil).Once()

	b, err := f.svc.CreateBook(ctx, validBook(), &services.Upload{Filename: "dune.pdf", Body: strings.NewReader("pdf")}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
	require.Len(t, f.created, 1)
	assert.Equal(t, int64(7), f.created[0].ID)
}

func TestCatalogService_CreateBook_Validation(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	f.categories.On("Get", mock.Anything, int64(1)).Return(models.Category{ID: 1}, nil)
	f.categories.On("GetSub", mock.Anything, int64(9)).Return(models.SubCategory{ID: 9, CategoryID: 2}, nil)

	form := validBook()
	form.Title = ""
	form.Pages = nil
	form.URL = "not a url"
	sub := int64(9)
	form.SubCategoryID = &sub

	_, err := f.svc.CreateBook(ctx, form, nil, &services.Upload{Filename: "c.jpg", Body: strings.NewReader("x")})
	errs, ok := validate.As(err)
	require.True(t, ok)
	assert.True(t, errs.Has("title"))
	assert.True(t, errs.Has("pages"))
	assert.True(t, errs.Has("url"))
	assert.Equal(t, services.MsgInvalidChoice, errs["sub_category_id"][0].Msg)
	assert.Equal(t, []string{validate.CodeInvalidImage}, errs.Codes("cover"))
	f.books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.created)
}

func TestCatalogService_CreateBook_UndecodableFieldsReportedOnce(t *testing.T) {
	f := newCatalogFixture(t)
	f.categories.On("Get", mock.Anything, int64(1)).Return(models.Category{ID: 1}, nil)

	form := validBook()
	form.Year = nil
	form.Title = ""
	form.Invalid = validate.Errors{}
	form.Invalid.Add("year", validate.CodeInvalid, validate.MsgWholeNumber)

	_, err := f.svc.CreateBook(context.Background(), form, nil, nil)
	errs, ok := validate.As(err)
	require.True(t, ok)
	require.Len(t, errs["year"], 1)
	assert.Equal(t, validate.MsgWholeNumber, errs["year"][0].Msg)
	assert.Equal(t, []string{validate.CodeRequired}, errs.Codes("title"))
	f.books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateBook_UnknownCategory(t *testing.T) {
	f := newCatalogFixture(t)
	f.categories.On("Get", mock.Anything, int64(1)).Return(models.Category{}, repository.ErrNotFound)

	_, err := f.svc.CreateBook(context.Background(), validBook(), nil, nil)
	errs, ok := validate.As(err)
	require.True(t, ok)
	assert.Equal(t, services.MsgInvalidChoice, errs["category_id"][0].Msg)
}

func TestCatalogService_Categories(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, services.CategoryForm{Name: "  "})
	_, ok := validate.As(err)
	assert.True(t, ok)

	f.categories.On("Create", mock.Anything, "Poetry").Return(models.Category{ID: 2, Name: "Poetry"}, nil).Once()
	c, err := f.svc.CreateCategory(ctx, services.CategoryForm{Name: " Poetry "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)

	f.categories.On("Get", mock.Anything, int64(2)).Return(c, nil)
	f.categories.On("ListSubs", mock.Anything, int64(2)).Return([]models.SubCategory{{ID: 1, CategoryID: 2, Name: "Odes"}}, nil)
	d, err := f.svc.Category(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, d.SubCategories, 1)

	f.categories.On("DeleteSub", mock.Anything, int64(5)).Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, f.svc.DeleteSubCategory(ctx, 5), services.ErrNotFound)

	f.books.On("FileKeysByCategory", mock.Anything, int64(2)).Return([]string{}, nil).Once()
	f.categories.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
	assert.NoError(t, f.svc.DeleteCategory(ctx, 2))
}

func TestCatalogService_DeleteBook_RemovesFiles(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	key := "books/a.pdf"
	_, err := f.files.Save(ctx, key, strings.NewReader("pdf"))
	require.NoError(t, err)

	f.books.On("Get", mock.Anything, int64(1)).Return(models.Book{ID: 1, FilePath: &key}, nil).Once()
	f.books.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	require.NoError(t, f.svc.DeleteBook(ctx, 1))

	assert.False(t, stored(t, f.files, key))

	f.books.On("Get", mock.Anything, int64(2)).Return(models.Book{}, repository.ErrNotFound).Once()
	assert.True(t, errors.Is(f.svc.DeleteBook(ctx, 2), services.ErrNotFound))
}

// stored reports whether key can still be opened.
func stored(t *testing.T, files storage.Files, key string) bool {
	t.Helper()
	rc, err := files.Open(context.Background(), key)
	if errors.Is(err, storage.ErrNotExist) {
		return false
	}
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	return true
}

func TestCatalogService_DeleteCategory_RemovesBookFiles(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	book, cover, other := "books/x.pdf", "covers/x.jpg", "books/other.pdf"
	for _, k := range []string{book, cover, other} {
		_, err := f.files.Save(ctx, k, strings.NewReader("data"))
		require.NoError(t, err)
	}

	f.books.On("FileKeysByCategory", mock.Anything, int64(1)).Return([]string{book, cover}, nil).Once()
	f.categories.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	require.NoError(t, f.svc.DeleteCategory(ctx, 1))

	assert.False(t, stored(t, f.files, book))
	assert.False(t, stored(t, f.files, cover))
	assert.True(t, stored(t, f.files, other))
}

func TestCatalogService_DeleteCategory_MissingKeepsFiles(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	key := "books/kept.pdf"
	_, err := f.files.Save(ctx, key, strings.NewReader("data"))
	require.NoError(t, err)

	f.books.On("FileKeysByCategory", mock.Anything, int64(9)).Return([]string{key}, nil).Once()
	f.categories.On("Delete", mock.Anything, int64(9)).Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, f.svc.DeleteCategory(ctx, 9), services.ErrNotFound)
	assert.True(t, stored(t, f.files, key))
}

func TestCatalogService_List_YearFilterReachesStore(t *testing.T) {
	f := newCatalogFixture(t)
	year := 1999
	want := catalog.Filter{Year: &year}
	f.expectListing(2, want, catalog.PageSize, 0)

	res, err := f.svc.List(context.Background(), url.Values{"year": {"1999"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.NumPages)
	f.books.AssertCalled(t, "Count", mock.Anything, want)
	f.books.AssertCalled(t, "Search", mock.Anything, want, catalog.PageSize, 0)
}
