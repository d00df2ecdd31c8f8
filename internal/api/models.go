package api

import (
	"encoding/json"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=3,max=40"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// VerifyAccountRequest carries an emailed activation token.
type VerifyAccountRequest struct {
	Token string `json:"token"`
}

// UpdateUserRequest lists the profile fields a user may change. Email is only
// decoded to detect an attempt to change it.
type UpdateUserRequest struct {
	Name     *string         `json:"name"     validate:"omitempty,min=3,max=40"`
	Password *string         `json:"password" validate:"omitempty,min=6,max=72"`
	Email    json.RawMessage `json:"email"`
}

func (r UpdateUserRequest) toUpdate() service.UserUpdate {
	return service.UserUpdate{
		Name:      r.Name,
		Password:  r.Password,
		EmailSent: len(r.Email) > 0,
	}
}

// UpdatePasswordRequest defines the payload for the password change endpoint.
type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword"     validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ForgotPasswordRequest defines the payload for the forgot password endpoint.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for the password reset endpoint.
type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// ListTasksRequest filters the admin task listing. Both fields are optional.
type ListTasksRequest struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// UserTasksRequest selects the tasks assigned to one user.
type UserTasksRequest struct {
	ID     string `json:"id"     validate:"required"`
	Status string `json:"status"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	CreatedToTask string `json:"createdToTask" validate:"required"`
	Title         string `json:"title"         validate:"required"`
	Tag           string `json:"tag"`
	Description   string `json:"description"   validate:"required"`
	Deadline      string `json:"deadline"      validate:"required"`
	Hour          *int   `json:"hour"          validate:"required"`
	Minute        *int   `json:"minute"        validate:"required"`
}

func (r CreateTaskRequest) toInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		AssigneeID:  r.CreatedToTask,
		Title:       r.Title,
		Tag:         r.Tag,
		Description: r.Description,
		Deadline:    r.Deadline,
		Hour:        *r.Hour,
		Minute:      *r.Minute,
	}
}

// EditTaskRequest lists the task fields an admin may change. Status is only
// decoded to detect an attempt to change it.
type EditTaskRequest struct {
	Title       *string         `json:"title"`
	Tag         *string         `json:"tag"`
	Description *string         `json:"description"`
	Deadline    *string         `json:"deadline"`
	Hour        *int            `json:"hour"`
	Minute      *int            `json:"minute"`
	Status      json.RawMessage `json:"status"`
}

func (r EditTaskRequest) toUpdate() service.TaskUpdate {
	return service.TaskUpdate{
		Title:       r.Title,
		Tag:         r.Tag,
		Description: r.Description,
		Deadline:    r.Deadline,
		Hour:        r.Hour,
		Minute:      r.Minute,
		StatusSent:  len(r.Status) > 0,
	}
}

// EditStatusRequest carries a status change. The content fields are only
// decoded to reject them.
type EditStatusRequest struct {
	Status      *int            `json:"status"`
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Deadline    json.RawMessage `json:"deadline"`
	Tag         json.RawMessage `json:"tag"`
}

func (r EditStatusRequest) toUpdate() service.StatusUpdate {
	update := service.StatusUpdate{Status: r.Status}
	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"title", r.Title},
		{"description", r.Description},
		{"deadline", r.Deadline},
		{"tag", r.Tag},
	} {
		if len(f.raw) > 0 {
			update.Fields = append(update.Fields, f.name)
		}
	}
	return update
}

// TaskListPayload is the payload of the task listing endpoints.
type TaskListPayload struct {
	TotalTask int           `json:"totalTask"`
	AllTasks  []domain.Task `json:"allTasks"`
}

func newTaskListPayload(tasks []domain.Task) TaskListPayload {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return TaskListPayload{TotalTask: len(tasks), AllTasks: tasks}
}

// TaskPayload wraps a single task.
type TaskPayload struct {
	Task *domain.Task `json:"task"`
}

// UserPayload wraps a single user.
type UserPayload struct {
	User any `json:"user"`
}

// ActivatedUser is the public view of a freshly activated account.
type ActivatedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenPayload carries an activation token.
type TokenPayload struct {
	Token string `json:"token"`
}
