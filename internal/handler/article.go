package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/domussolis/domus/internal/auth"
	"github.com/domussolis/domus/internal/repository"
	"github.com/domussolis/domus/internal/service"
	"github.com/domussolis/domus/internal/viewcache"
)

// generationHeader carries the current view generation of a listing, so the
// admin frontend can tell whether a cached table is stale after a mutation.
const generationHeader = "X-View-Generation"

// ArticleHandler exposes the article CRUD API used by the admin area.
type ArticleHandler struct {
	articles *service.ArticleService
	views    *viewcache.Cache
	logger   *slog.Logger
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(articles *service.ArticleService, views *viewcache.Cache, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, views: views, logger: logger}
}

// pageResponse carries one page of a paginated listing. Total is the full
// match count, so clients can build pagination controls from a single call.
type pageResponse struct {
	Items      interface{} `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

func newPageResponse(items interface{}, total, page int) pageResponse {
	totalPages := (total + repository.PageSize - 1) / repository.PageSize
	return pageResponse{Items: items, Total: total, Page: page, TotalPages: totalPages}
}

// HandleList returns one page of articles, newest first.
//
// HTTP: GET /api/artigos?page=1&q=eclipse
func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, query := pageQuery(r)
	articles, total := h.articles.ListPage(r.Context(), page, query)
	w.Header().Set(generationHeader, strconv.FormatUint(h.views.Generation(service.PathAdminArticles), 10))
	writeJSON(w, http.StatusOK, newPageResponse(articles, total, page))
}

// HandleGet returns a single article by slug.
//
// HTTP: GET /api/artigos/{slug}
func (h *ArticleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandleCreate creates an article from a JSON body. The authenticated user
// becomes the article's author.
//
// HTTP: POST /api/artigos
// Body: {"titulo":"...","subtitulo":"...","conteudo":"...","categorias":"1,2"}
func (h *ArticleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid article JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	res := h.articles.Create(r.Context(), userID, in)
	writeResult(w, res, http.StatusCreated)
}

// HandleUpdate replaces an article's fields and category set.
//
// HTTP: PUT /api/artigos/{id}
func (h *ArticleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in service.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid article JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	res := h.articles.Update(r.Context(), id, in)
	writeResult(w, res, http.StatusOK)
}

// HandleDelete removes an article and its category associations.
//
// HTTP: DELETE /api/artigos/{id}
func (h *ArticleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	res := h.articles.Delete(r.Context(), id)
	writeResult(w, res, http.StatusOK)
}

// idParam parses the {id} path segment, responding with a 400 when it is
// missing or not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "ID inválido.",
		})
		return 0, false
	}
	return id, true
}

// writeResult maps a service result to a status code: okStatus on success,
// 422 when field validation failed, 500 otherwise.
func writeResult[T any](w http.ResponseWriter, res service.Result[T], okStatus int) {
	switch {
	case res.Success:
		writeJSON(w, okStatus, res)
	case len(res.Errors) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, res)
	default:
		writeJSON(w, http.StatusInternalServerError, res)
	}
}
