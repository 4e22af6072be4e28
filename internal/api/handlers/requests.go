package handlers

import (
	"net/http"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/middleware"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type RequestsHandler struct {
	Requests *services.RequestService
	Limits   Limits
}

func NewRequestsHandler(rs *services.RequestService, limits Limits) *RequestsHandler {
	return &RequestsHandler{Requests: rs, Limits: limits}
}

// Submit handles POST /requests/{order|send} for the given kind.
func (h *RequestsHandler) Submit(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form services.RequestForm
		if !h.Limits.readForm(w, r, &form) {
			return
		}
		file, done, err := openUpload(r, "file")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid upload", nil)
			return
		}
		defer done()

		br, err := h.Requests.Submit(r.Context(), middleware.CurrentUser(r.Context()), kind, form, file)
		if err != nil {
			httpx.WriteFormError(w, r, err, form)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, br)
	}
}

func (h *RequestsHandler) List(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.Requests.List(r.Context(), kind)
		if err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, list)
	}
}

func (h *RequestsHandler) Get(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		br, err := h.Requests.Get(r.Context(), kind, id)
		if err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, br)
	}
}

func (h *RequestsHandler) Review(kind models.RequestKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		br, err := h.Requests.MarkReviewed(r.Context(), kind, id)
		if err != nil {
			httpx.WriteServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, br)
	}
}
