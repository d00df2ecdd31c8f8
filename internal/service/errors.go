package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the task and user services. Each one stands for
// a single client-visible outcome; the API layer owns the mapping from these
// errors to HTTP status codes and messages.
var (
	// ErrForbidden indicates the caller may not act on the target resource.
	ErrForbidden = errors.New("caller is not allowed to access this resource")

	// ErrInvalidStatusFilter indicates a task listing named an unknown status.
	ErrInvalidStatusFilter = errors.New("invalid status filter")

	// ErrInvalidTaskID indicates a malformed task id on lookup.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrInvalidEditTaskID indicates a malformed task id on a task or status edit.
	ErrInvalidEditTaskID = errors.New("invalid task id to edit")

	// ErrInvalidDeleteTaskID indicates a malformed task id on delete.
	ErrInvalidDeleteTaskID = errors.New("invalid task id to delete")

	// ErrTaskNotFound indicates a task lookup found nothing.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDeleteTaskNotFound indicates the task to delete does not exist.
	ErrDeleteTaskNotFound = errors.New("task to delete not found")

	// ErrSelfAssignment indicates a creator tried to assign a task to themselves.
	ErrSelfAssignment = errors.New("task cannot be assigned to its creator")

	// ErrInvalidAssigneeID indicates a malformed assignee id on task creation.
	ErrInvalidAssigneeID = errors.New("invalid assignee id")

	// ErrAssigneeNotFound indicates the assignee of a new task does not exist.
	ErrAssigneeNotFound = errors.New("assignee not found")

	// ErrDuplicateTask indicates the assignee already holds an active task with the same title.
	ErrDuplicateTask = errors.New("task already assigned to this user")

	// ErrStatusNotEditable indicates a task edit tried to change the status.
	ErrStatusNotEditable = errors.New("status cannot be changed by a task edit")

	// ErrTaskNotEditable indicates the task to edit is missing or FAILED.
	ErrTaskNotEditable = errors.New("task cannot be updated")

	// ErrStatusRequired indicates a status change without a status.
	ErrStatusRequired = errors.New("status is required")

	// ErrInvalidStatusValue indicates a status change to a value outside PENDING..COMPLETED.
	ErrInvalidStatusValue = errors.New("invalid status value")

	// ErrStatusTaskNotFound indicates the task of a status change is missing or FAILED.
	ErrStatusTaskNotFound = errors.New("task for status change not found")

	// ErrEmailRegistered indicates registration with an email that already has an account.
	ErrEmailRegistered = errors.New("email is already registered")

	// ErrVerificationEmailFailed indicates the activation email could not be sent.
	ErrVerificationEmailFailed = errors.New("failed to send verification email")

	// ErrTokenNotFound indicates an activation request without a token.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUserAlreadyExists indicates the account was created between registration and activation.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUnknownEmail indicates a login for an email without an account.
	ErrUnknownEmail = errors.New("no user with this email")

	// ErrInvalidCredentials indicates a login with the wrong password.
	ErrInvalidCredentials = errors.New("email and password do not match")

	// ErrInvalidUserID indicates a malformed user id.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrUserNotFound indicates a user lookup found nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrAdminNotDeletable indicates an attempt to delete an admin account.
	ErrAdminNotDeletable = errors.New("admin users cannot be deleted")

	// ErrEmailNotEditable indicates a profile update tried to change the email.
	ErrEmailNotEditable = errors.New("email cannot be updated")

	// ErrUpdateUserNotFound indicates the user to update does not exist.
	ErrUpdateUserNotFound = errors.New("user to update not found")

	// ErrPasswordMismatch indicates new and confirmation passwords differ.
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")

	// ErrWrongOldPassword indicates the current password did not verify.
	ErrWrongOldPassword = errors.New("old password is incorrect")

	// ErrResetEmailNotFound indicates a password reset request for an unknown email.
	ErrResetEmailNotFound = errors.New("no user with this email to reset")

	// ErrPasswordResetFailed indicates a valid reset token whose user no longer exists.
	ErrPasswordResetFailed = errors.New("password reset failed")
)

// FieldNotAllowedError reports a request key that the operation refuses to change.
type FieldNotAllowedError struct {
	Field string
}

// Error implements the error interface.
func (e *FieldNotAllowedError) Error() string {
	return fmt.Sprintf("updating %q is not allowed", e.Field)
}
