package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// UserHandler handles account and admin user endpoints.
type UserHandler struct {
	users   service.UserService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(users service.UserService, cookies CookieConfig, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:   users,
		cookies: cookies,
		logger:  logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /users. The caller is left out of the listing.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	users, err := h.users.ListUsersWithTaskCounts(r.Context(), actor.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if len(users) == 0 {
		shared.RespondWithSuccess(w, r, http.StatusOK, "No user found...", []service.UserWithTaskCounts{})
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Users with task status counts were retrieved successfully", users)
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	msg := fmt.Sprintf(
		"A verification email has been sent to %s. Please check your email to complete the registration process.",
		req.Email)
	shared.RespondWithSuccess(w, r, http.StatusOK, msg, TokenPayload{Token: token})
}

// VerifyAccount handles POST /users/verify-account.
func (h *UserHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Activate(r.Context(), req.Token)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated,
		"Your account has been activated successfully. Please login",
		UserPayload{User: ActivatedUser{Name: user.Name, Email: user.Email}})
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User was returned successfully", UserPayload{User: user})
}

// DeleteUser handles DELETE /users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User and associated tasks were deleted successfully", nil)
}

// UpdateUser handles PUT /users/{id}. Users updating themselves get fresh
// session cookies carrying the new identity.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.users.UpdateUser(r.Context(), actor, chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if session.AccessToken != "" {
		h.cookies.clearSessionCookies(w)
		h.cookies.setSessionCookies(w, session.AccessToken, session.RefreshToken)
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User profile was updated successfully", session.User)
}

// UpdatePassword handles PUT /users/update-password/{id}.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req UpdatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.users.UpdatePassword(r.Context(), actor, chi.URLParam(r, "id"),
		req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Password was updated successfully", nil)
}

// ForgotPassword handles POST /users/forgot-password.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	msg := fmt.Sprintf(
		"A reset password link has been sent to %s. Please check your email to reset your password.",
		req.Email)
	shared.RespondWithSuccess(w, r, http.StatusOK, msg, struct{}{})
}

// ResetPassword handles PUT /users/reset-password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Password reset successfully", struct{}{})
}
