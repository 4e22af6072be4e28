package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/services"
)

// Limits applies to every handler that accepts a form.
type Limits struct {
	MaxUploadBytes int64
}

const formMemory = 8 << 20

// decodeForm caps the body and decodes it into dst, returning the values that did
// not fit their fields. An unreadable body is answered with 400.
func (l Limits) decodeForm(w http.ResponseWriter, r *http.Request, dst interface{}) (validate.Errors, bool) {
	if l.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, l.MaxUploadBytes)
	}
	errs, err := httpx.DecodeForm(r, dst, formMemory)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return nil, false
	}
	return errs, true
}

// readForm is decodeForm for forms whose services report no decode errors themselves.
func (l Limits) readForm(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	errs, ok := l.decodeForm(w, r, dst)
	if !ok {
		return false
	}
	if len(errs) > 0 {
		httpx.WriteFormError(w, r, errs, dst)
		return false
	}
	return true
}

// openUpload returns the named upload. The returned close func is never nil.
func openUpload(r *http.Request, name string) (*services.Upload, func(), error) {
	f, fh, err := httpx.FormFile(r, name)
	if err != nil || f == nil {
		return nil, func() {}, err
	}
	return &services.Upload{Filename: fh.Filename, Body: f}, func() { closeFile(f) }, nil
}

func closeFile(f multipart.File) { _ = f.Close() }

// idParam reads an integer route parameter; anything else answers 404.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return 0, false
	}
	return id, true
}
