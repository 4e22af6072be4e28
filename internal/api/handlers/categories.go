package handlers

import (
	"net/http"

	"github.com/baharkarakas/shelfhub/internal/api/httpx"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type CategoriesHandler struct {
	Catalog *services.CatalogService
	Limits  Limits
}

func NewCategoriesHandler(cs *services.CatalogService, limits Limits) *CategoriesHandler {
	return &CategoriesHandler{Catalog: cs, Limits: limits}
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cats)
}

func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.Catalog.Category(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form services.CategoryForm
	if !h.Limits.readForm(w, r, &form) {
		return
	}
	c, err := h.Catalog.CreateCategory(r.Context(), form)
	if err != nil {
		httpx.WriteFormError(w, r, err, form)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoriesHandler) CreateSub(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var form services.CategoryForm
	if !h.Limits.readForm(w, r, &form) {
		return
	}
	sub, err := h.Catalog.CreateSubCategory(r.Context(), id, form)
	if err != nil {
		httpx.WriteFormError(w, r, err, form)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sub)
}

func (h *CategoriesHandler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteSubCategory(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
