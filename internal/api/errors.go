package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

const msgUnexpected = "An unexpected error occurred"

// errorResponse is the status and client message for one sentinel error.
type errorResponse struct {
	err     error
	status  int
	message string
}

// knownErrors is checked in order; the first match wins.
var knownErrors = []errorResponse{
	// Authentication errors
	{auth.ErrExpiredToken, http.StatusUnauthorized, "Token has expired"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid Token"},
	{auth.ErrWrongTokenType, http.StatusUnauthorized, "Invalid Token"},
	{auth.ErrTokenNotYetValid, http.StatusUnauthorized, "Invalid Token"},
	{auth.ErrExpiredRefreshToken, http.StatusUnauthorized, "Refresh token has expired. Please login again"},
	{auth.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token. Please login again"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Email/password did not match"},

	// Authorization errors
	{service.ErrForbidden, http.StatusForbidden, "You are not allowed to access this resource"},
	{service.ErrAdminNotDeletable, http.StatusForbidden,
		"This user cannot be deleted. Assign admin rights to another user first."},

	// Task errors
	{service.ErrInvalidStatusFilter, http.StatusNotFound, "Invalid status"},
	{service.ErrInvalidTaskID, http.StatusBadRequest, "Invalid task ID"},
	{service.ErrInvalidEditTaskID, http.StatusNotFound, "Invalid task ID"},
	{service.ErrInvalidDeleteTaskID, http.StatusBadRequest, "Invalid task ID."},
	{service.ErrTaskNotFound, http.StatusNotFound, "Task does not exist with this id"},
	{service.ErrDeleteTaskNotFound, http.StatusNotFound, "Task not found."},
	{service.ErrSelfAssignment, http.StatusNotFound, "You are not allowed to create a task for yourself."},
	{service.ErrInvalidAssigneeID, http.StatusBadRequest, "Invalid user ID for createdToTask."},
	{service.ErrDuplicateTask, http.StatusConflict, "Same task already assigned for this user."},
	{service.ErrAssigneeNotFound, http.StatusNotFound, "User not found for createdToTask."},
	{service.ErrStatusNotEditable, http.StatusNotFound,
		"You cannot modify the status. It is assigned by default when the task is created."},
	{service.ErrTaskNotEditable, http.StatusNotFound,
		"Something went wrong. Couldn't update the task. Please try again."},
	{service.ErrStatusRequired, http.StatusNotFound, "Status field is required"},
	{service.ErrInvalidStatusValue, http.StatusBadRequest, "Invalid status value"},
	{service.ErrStatusTaskNotFound, http.StatusNotFound, "Task with this ID does not exist"},

	// Deadline errors
	{domain.ErrDeadlinePast, http.StatusBadRequest, "Deadline cannot be in the past"},
	{domain.ErrHourPast, http.StatusBadRequest, "Hour cannot be in the past"},
	{domain.ErrTimeNotUpcoming, http.StatusBadRequest, "Must be an upcoming time to set deadline"},
	{domain.ErrInvalidTime, http.StatusBadRequest, "Invalid time"},

	// Account errors
	{service.ErrEmailRegistered, http.StatusConflict, "Email is already registered. Please log in."},
	{service.ErrVerificationEmailFailed, http.StatusInternalServerError, "Failed to send verification email"},
	{service.ErrTokenNotFound, http.StatusNotFound, "Token not found"},
	{service.ErrUserAlreadyExists, http.StatusConflict, "User already exists. Please sign in"},
	{service.ErrUnknownEmail, http.StatusNotFound, "User does not exist with this email. Please register first"},
	{service.ErrInvalidUserID, http.StatusNotFound, "Invalid user ID"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrEmailNotEditable, http.StatusNotFound, "Email cannot be updated"},
	{service.ErrUpdateUserNotFound, http.StatusNotFound, "User with this ID does not exist"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "New Password and Confirm Password do not match"},
	{service.ErrWrongOldPassword, http.StatusBadRequest, "Old Password is incorrect"},
	{service.ErrResetEmailNotFound, http.StatusNotFound, "User not found with this email"},
	{service.ErrPasswordResetFailed, http.StatusBadRequest, "Password reset failed. Please try again"},
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var fieldErr *service.FieldNotAllowedError
	if errors.As(err, &fieldErr) {
		return http.StatusNotFound
	}
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			return known.status
		}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var fieldErr *service.FieldNotAllowedError
	if errors.As(err, &fieldErr) {
		return fmt.Sprintf("Updating %q is not allowed", fieldErr.Field)
	}
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			return known.message
		}
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}
	return msgUnexpected
}
