package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/domussolis/domus/internal/service"
	"github.com/domussolis/domus/internal/viewcache"
)

// UserHandler exposes the editor account API used by the admin area.
type UserHandler struct {
	users  *service.UserService
	views  *viewcache.Cache
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, views *viewcache.Cache, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, views: views, logger: logger}
}

// HandleList returns one page of editor accounts. Password hashes are never
// serialized.
//
// HTTP: GET /api/usuarios?page=1&q=maria
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, query := pageQuery(r)
	users, total := h.users.ListPage(r.Context(), page, query)
	w.Header().Set(generationHeader, strconv.FormatUint(h.views.Generation(service.PathAdminUsers), 10))
	writeJSON(w, http.StatusOK, newPageResponse(users, total, page))
}

// HandleCreate registers a new editor account.
//
// HTTP: POST /api/usuarios
// Body: {"nome":"...","email":"...","senha":"..."}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	res := h.users.Create(r.Context(), in)
	writeResult(w, res, http.StatusCreated)
}
