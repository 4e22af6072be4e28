package httpx

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/json-iterator/go/extra"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	// multipart form values arrive as strings
	extra.RegisterFuzzyDecoders()
}

// Routes the error writers redirect to.
const (
	LoginPath = "/api/v1/auth/login"
	IndexPath = "/api/v1/books"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
	Input   interface{} `json:"input,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// RedirectToLogin sends the caller to the login route, remembering where they were going.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// WriteServiceError maps service and validation errors onto responses.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	WriteFormError(w, r, err, nil)
}

// WriteFormError is WriteServiceError that echoes the submitted form on validation failures.
func WriteFormError(w http.ResponseWriter, r *http.Request, err error, input interface{}) {
	if errs, ok := validate.As(err); ok {
		WriteJSON(w, http.StatusBadRequest, APIError{
			Error:   "validation failed",
			Code:    "validation_error",
			Details: errs,
			Input:   input,
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, services.ErrUnauthorized):
		RedirectToLogin(w, r)
	case errors.Is(err, services.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "forbidden", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	case errors.Is(err, services.ErrConstraint):
		WriteError(w, http.StatusConflict, "conflict", "conflicting change", nil)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

// DecodeForm fills dst from a JSON object body or from multipart/urlencoded form
// values, one field at a time. Empty form values are treated as absent. Field names
// follow dst's json tags. A value that does not fit its field is reported as a field
// error and the remaining fields are still decoded; err is only set for unreadable bodies.
func DecodeForm(r *http.Request, dst interface{}, maxMemory int64) (validate.Errors, error) {
	t := reflect.TypeOf(dst)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, errors.New("httpx: DecodeForm needs a pointer")
	}
	fields, err := readFields(r, maxMemory)
	if err != nil {
		return nil, err
	}
	errs := validate.Errors{}
	for name, raw := range fields {
		obj, err := json.Marshal(map[string]jsoniter.RawMessage{name: raw})
		if err != nil {
			return nil, err
		}
		// a failed decode may leave a zero value behind, so try it on a scratch copy first
		if err := json.Unmarshal(obj, reflect.New(t.Elem()).Interface()); err != nil {
			errs.Add(name, validate.CodeInvalid, invalidMessage(dst, name))
			continue
		}
		if err := json.Unmarshal(obj, dst); err != nil {
			return nil, err
		}
	}
	return errs, nil
}

func readFields(r *http.Request, maxMemory int64) (map[string]jsoniter.RawMessage, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, err
		}
		return formFields(r.MultipartForm.Value)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return formFields(r.PostForm)
	}
	fields := map[string]jsoniter.RawMessage{}
	if r.Body == nil {
		return fields, nil
	}
	err := json.NewDecoder(r.Body).Decode(&fields)
	if errors.Is(err, io.EOF) {
		return fields, nil
	}
	return fields, err
}

func formFields(values map[string][]string) (map[string]jsoniter.RawMessage, error) {
	out := make(map[string]jsoniter.RawMessage, len(values))
	for k, vs := range values {
		if len(vs) == 0 || vs[0] == "" {
			continue
		}
		b, err := json.Marshal(vs[0])
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return out, nil
}

// invalidMessage picks the message for a value that could not be decoded into
// the field tagged name.
func invalidMessage(dst interface{}, name string) string {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return validate.MsgInvalid
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if strings.SplitN(f.Tag.Get("json"), ",", 2)[0] != name {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return validate.MsgWholeNumber
		}
	}
	return validate.MsgInvalid
}

// FormFile returns the named upload of a multipart request, or nil when absent.
// The caller closes the returned file.
func FormFile(r *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	f, fh, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	return f, fh, err
}
