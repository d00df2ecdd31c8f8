package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// actorFromRequest returns the authenticated caller. It writes a 401 and
// returns false when the identity is missing, which only happens when a
// route is mounted without the session middleware.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token not found. Please login")
		return service.Actor{}, false
	}
	return service.Actor{ID: identity.UserID, IsAdmin: identity.IsAdmin}, true
}

// decodeAndValidate reads the JSON body into req and applies its validate
// tags. On failure it writes the error response and returns false: malformed
// bodies get 400, rule violations 422.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnprocessableEntity, shared.ValidationMessage(err), err)
		return false
	}
	return true
}

// respondWithServiceError maps a service error to its status and safe message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
