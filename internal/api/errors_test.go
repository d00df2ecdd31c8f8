package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, msgUnexpected},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Token has expired"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid Token"},
		{"self assignment", service.ErrSelfAssignment, http.StatusNotFound,
			"You are not allowed to create a task for yourself."},
		{"duplicate task", service.ErrDuplicateTask, http.StatusConflict,
			"Same task already assigned for this user."},
		{"email registered", service.ErrEmailRegistered, http.StatusConflict,
			"Email is already registered. Please log in."},
		{"admin delete", service.ErrAdminNotDeletable, http.StatusForbidden,
			"This user cannot be deleted. Assign admin rights to another user first."},
		{"wrapped deadline", fmt.Errorf("edit: %w", domain.ErrDeadlinePast), http.StatusBadRequest,
			"Deadline cannot be in the past"},
		{"not upcoming", domain.ErrTimeNotUpcoming, http.StatusBadRequest,
			"Must be an upcoming time to set deadline"},
		{"field not allowed", &service.FieldNotAllowedError{Field: "title"}, http.StatusNotFound,
			`Updating "title" is not allowed`},
		{"validation error", domain.NewValidationError("title", "Invalid title: too short", domain.ErrValidation),
			http.StatusUnprocessableEntity, "Invalid title: too short"},
		{"store error stays internal", fmt.Errorf("query: %w", store.ErrTransactionFailed),
			http.StatusInternalServerError, msgUnexpected},
		{"unknown", errors.New("pq: password=hunter2 connection refused"), http.StatusInternalServerError,
			msgUnexpected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.wantMsg, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestKnownErrorsHaveMessages(t *testing.T) {
	t.Parallel()

	for _, known := range knownErrors {
		assert.NotEmpty(t, known.message, "message for %v", known.err)
		assert.NotZero(t, known.status, "status for %v", known.err)
	}
}
