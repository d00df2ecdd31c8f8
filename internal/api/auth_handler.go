package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	users   service.UserService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:   users,
		cookies: cookies,
		logger:  logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	h.cookies.setSessionCookies(w, session.AccessToken, session.RefreshToken)
	logger.FromContextOrDefault(r.Context(), h.logger).Info("user logged in",
		slog.String("user_id", session.User.ID.String()))
	shared.RespondWithSuccess(w, r, http.StatusOK, "User logged in successfully", UserPayload{User: session.User})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clearSessionCookies(w)
	shared.RespondWithSuccess(w, r, http.StatusOK, "User logged out successfully", nil)
}

// RefreshToken handles GET /auth/refresh-token. The refresh token is read
// from its cookie and a new access token cookie is written.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(shared.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Refresh token not found. Please login")
		return
	}

	session, err := h.users.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	h.cookies.setAccessCookie(w, session.AccessToken)
	shared.RespondWithSuccess(w, r, http.StatusOK, "New access token generated successfully", nil)
}
