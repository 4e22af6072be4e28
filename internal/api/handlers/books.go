package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/middleware"
	"github.com/baharkarakas/shelfhub/internal/services"
)

// Upload field names of the book form.
const (
	fieldBookFile = "file"
	fieldCover    = "cover"
)

type BooksHandler struct {
	Catalog *services.CatalogService
	Limits  Limits
}

func NewBooksHandler(cs *services.CatalogService, limits Limits) *BooksHandler {
	return &BooksHandler{Catalog: cs, Limits: limits}
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.Catalog.List(r.Context(), r.URL.Query(), nil)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *BooksHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Catalog.List(r.Context(), r.URL.Query(), &id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	d, err := h.Catalog.Detail(r.Context(), id, middleware.CurrentUser(r.Context()))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *BooksHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	dl, err := h.Catalog.Download(r.Context(), id, middleware.CurrentUser(r.Context()))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	defer dl.Body.Close()

	ctype := mime.TypeByExtension(path.Ext(dl.Name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Name}))
	if _, err := io.Copy(w, dl.Body); err != nil {
		slog.Warn("download interrupted", "book_id", id, "err", err)
	}
}

// bookUploads opens the optional file and cover of a book form.
func bookUploads(r *http.Request) (file, cover *services.Upload, done func(), err error) {
	file, doneFile, err := openUpload(r, fieldBookFile)
	if err != nil {
		return nil, nil, func() {}, err
	}
	cover, doneCover, err := openUpload(r, fieldCover)
	if err != nil {
		doneFile()
		return nil, nil, func() {}, err
	}
	return file, cover, func() { doneFile(); doneCover() }, nil
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form services.BookForm
	invalid, ok := h.Limits.decodeForm(w, r, &form)
	if !ok {
		return
	}
	form.Invalid = invalid
	file, cover, done, err := bookUploads(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid upload", nil)
		return
	}
	defer done()

	b, err := h.Catalog.CreateBook(r.Context(), form, file, cover)
	if err != nil {
		httpx.WriteFormError(w, r, err, form)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var form services.BookForm
	invalid, ok := h.Limits.decodeForm(w, r, &form)
	if !ok {
		return
	}
	form.Invalid = invalid
	file, cover, done, err := bookUploads(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid upload", nil)
		return
	}
	defer done()

	b, err := h.Catalog.UpdateBook(r.Context(), id, form, file, cover)
	if err != nil {
		httpx.WriteFormError(w, r, err, form)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteBook(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
