package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/domussolis/domus/internal/service"
	"github.com/domussolis/domus/internal/viewcache"
)

// CategoryHandler exposes the category CRUD API used by the admin area.
type CategoryHandler struct {
	categories *service.CategoryService
	views      *viewcache.Cache
	logger     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService, views *viewcache.Cache, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, views: views, logger: logger}
}

// HandleList returns one page of categories ordered by name.
//
// HTTP: GET /api/categorias?page=1&q=ciencia
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, query := pageQuery(r)
	categories, total := h.categories.ListPage(r.Context(), page, query)
	w.Header().Set(generationHeader, strconv.FormatUint(h.views.Generation(service.PathAdminCategories), 10))
	writeJSON(w, http.StatusOK, newPageResponse(categories, total, page))
}

// HandleListAll returns every category without pagination. The article form
// uses this to render its category picker.
//
// HTTP: GET /api/categorias/todas
func (h *CategoryHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.categories.ListAll(r.Context()))
}

// HandleCreate creates a category from a JSON body.
//
// HTTP: POST /api/categorias
// Body: {"nome":"...","descricao":"..."}
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid category JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	res := h.categories.Create(r.Context(), in)
	writeResult(w, res, http.StatusCreated)
}

// HandleUpdate replaces a category's name and description.
//
// HTTP: PUT /api/categorias/{id}
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in service.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid category JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	res := h.categories.Update(r.Context(), id, in)
	writeResult(w, res, http.StatusOK)
}

// HandleDelete removes a category. Articles referencing it lose the
// association but are otherwise untouched.
//
// HTTP: DELETE /api/categorias/{id}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	res := h.categories.Delete(r.Context(), id)
	writeResult(w, res, http.StatusOK)
}
