package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/domussolis/domus/internal/auth"
	"github.com/domussolis/domus/internal/service"
)

// AuthHandler manages editor login and session management.
//
//   - HandleLogin  → verify credentials, issue the session cookie
//   - HandleLogout → clear the session cookie
//   - HandleMe     → return the logged-in editor's profile
type AuthHandler struct {
	sessions *service.AuthService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

// loginRequest is the credentials body for HandleLogin.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// HandleLogin verifies an editor's credentials and sets the session cookie.
//
// HTTP: POST /auth/login
// Body: {"email":"...","senha":"..."}
//
// The session token lives in an HttpOnly cookie so page scripts cannot read
// it. Failed logins always get the same 401 regardless of whether the email
// exists.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Corpo da requisição inválido.",
		})
		return
	}

	result, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
//
// Logout is a state change, so it is a POST. The token stays technically
// valid until its expiry, but without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sessão encerrada."})
}

// HandleMe returns the authenticated editor's profile.
//
// HTTP: GET /api/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a session-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Sessão inválida ou expirada.",
		})
		return
	}

	user, err := h.sessions.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: user lookup failed", slog.Int64("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
