package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// Messages written by the session middleware.
const (
	MsgAccessTokenMissing = "Access token not found. Please login"
	MsgAccessTokenInvalid = "Invalid access token. Please login again"
	MsgAlreadyLoggedIn    = "User is already logged in"
	MsgAdminOnly          = "Forbidden. You must be an admin to access this resource"
)

// AuthMiddleware guards routes by the access token cookie.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// IsLoggedIn requires a valid access token cookie and adds the token's
// identity to the request context.
func (m *AuthMiddleware) IsLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(shared.AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgAccessTokenMissing)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), cookie.Value)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgAccessTokenInvalid, err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), claims.Identity)
		log := logger.FromContext(ctx).With(slog.String("user_id", claims.UserID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsLoggedOut rejects requests that already carry a valid access token.
// Missing or invalid tokens pass through.
func (m *AuthMiddleware) IsLoggedOut(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(shared.AccessTokenCookie); err == nil && cookie.Value != "" {
			_, err := m.jwtService.ValidateToken(r.Context(), cookie.Value)
			if err == nil {
				shared.RespondWithError(w, r, http.StatusBadRequest, MsgAlreadyLoggedIn)
				return
			}
			logger.FromContext(r.Context()).Debug("ignoring stale access token",
				slog.String("error", redact.Error(err)))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only admins through. It must run after IsLoggedIn.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgAccessTokenMissing)
			return
		}
		if !identity.IsAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, MsgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}
