package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// CanAccess reports whether the actor may act on resources owned by userID.
func (a Actor) CanAccess(userID uuid.UUID) bool {
	return a.IsAdmin || a.ID == userID
}

// CreateTaskInput carries the fields of a new task. AssigneeID is kept raw so
// the service can tell a self-assignment from a malformed id.
type CreateTaskInput struct {
	AssigneeID  string
	Title       string
	Tag         string
	Description string
	Deadline    string
	Hour        int
	Minute      int
}

// TaskUpdate lists the fields an admin edit may change. Nil fields are left
// untouched. StatusSent records that the request tried to set the status.
type TaskUpdate struct {
	Title       *string
	Tag         *string
	Description *string
	Deadline    *string
	Hour        *int
	Minute      *int
	StatusSent  bool
}

func (u TaskUpdate) touchesSchedule() bool {
	return u.Deadline != nil || u.Hour != nil || u.Minute != nil
}

// StatusUpdate is a request to move a task to another status. Fields names
// every other key present in the request.
type StatusUpdate struct {
	Status *int
	Fields []string
}

// lockedStatusFields may never accompany a status change.
var lockedStatusFields = []string{"title", "description", "deadline", "tag"}

// TaskService provides task assignment and lifecycle operations.
type TaskService interface {
	// ListTasks returns every task matching the optional status name and the
	// optional assignee/creator name substring, newest first.
	ListTasks(ctx context.Context, status, name string) ([]domain.Task, error)

	// ListTasksForUser returns the tasks assigned to userID, optionally
	// narrowed to one status. The actor must be that user or an admin.
	ListTasksForUser(ctx context.Context, actor Actor, userID, status string) ([]domain.Task, error)

	// GetTask retrieves a task by id.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// CreateTask assigns a new PENDING task from creatorID to the input's assignee.
	CreateTask(ctx context.Context, creatorID uuid.UUID, in CreateTaskInput) (*domain.Task, error)

	// DeleteTask removes a task in any status.
	DeleteTask(ctx context.Context, id string) error

	// EditTask changes the content or schedule of a non-failed task.
	EditTask(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)

	// EditTaskStatus moves a non-failed task to PENDING, INPROGRESS or
	// COMPLETED. The actor must be the assignee or an admin.
	EditTaskStatus(ctx context.Context, actor Actor, id string, update StatusUpdate) (*domain.Task, error)
}

// TaskOption customizes a task service.
type TaskOption func(*taskServiceImpl)

// WithClock replaces the wall clock used for deadline checks.
func WithClock(now func() time.Time) TaskOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewTaskService creates a TaskService. Deadlines are interpreted in loc.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	loc *time.Location,
	logger *slog.Logger,
	opts ...TaskOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		loc:    loc,
		now:    time.Now,
		logger: logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, status, name string) ([]domain.Task, error) {
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	filter.Name = strings.TrimSpace(name)

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForUser implements TaskService.ListTasksForUser
func (s *taskServiceImpl) ListTasksForUser(
	ctx context.Context,
	actor Actor,
	userID, status string,
) ([]domain.Task, error) {
	assigneeID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if !actor.CanAccess(assigneeID) {
		return nil, ErrForbidden
	}

	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	filter.AssigneeID = &assigneeID

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks for user",
			slog.Any("error", err),
			slog.String("user_id", assigneeID.String()))
		return nil, fmt.Errorf("failed to list tasks for user: %w", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidTaskID
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	creatorID uuid.UUID,
	in CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rawAssignee := strings.TrimSpace(in.AssigneeID)
	if strings.EqualFold(rawAssignee, creatorID.String()) {
		return nil, ErrSelfAssignment
	}
	assigneeID, err := uuid.Parse(rawAssignee)
	if err != nil {
		return nil, ErrInvalidAssigneeID
	}
	if assigneeID == creatorID {
		return nil, ErrSelfAssignment
	}

	title := strings.TrimSpace(in.Title)
	exists, err := s.tasks.ExistsActiveTitle(ctx, assigneeID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate task: %w", err)
	}
	if exists {
		return nil, ErrDuplicateTask
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to load assignee: %w", err)
	}

	task, err := domain.NewTask(
		creatorID, assigneeID,
		assignee.Email, title, in.Tag, in.Description, in.Deadline,
		in.Hour, in.Minute,
	)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		switch {
		case errors.Is(err, store.ErrTaskTitleExists):
			return nil, ErrDuplicateTask
		case errors.Is(err, store.ErrUserNotFound):
			return nil, ErrAssigneeNotFound
		}
		log.Error("failed to create task", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.CreatedTo.Name = assignee.Name
	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assignee_id", assigneeID.String()))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidDeleteTaskID
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrDeleteTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// EditTask implements TaskService.EditTask
func (s *taskServiceImpl) EditTask(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidEditTaskID
	}
	if update.StatusSent {
		return nil, ErrStatusNotEditable
	}
	if update.Deadline != nil && update.Hour != nil && update.Minute != nil {
		if err := domain.ValidateClock(*update.Hour, *update.Minute); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotEditable
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task.Status == domain.TaskStatusFailed {
		return nil, ErrTaskNotEditable
	}

	if err := applyTaskUpdate(task, update); err != nil {
		return nil, err
	}
	if update.touchesSchedule() {
		if err := domain.CheckUpcoming(task.Deadline, task.Hour, task.Minute, s.now().In(s.loc)); err != nil {
			return nil, err
		}
		task.ReminderSent = false
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		switch {
		case store.IsNotFoundError(err):
			return nil, ErrTaskNotEditable
		case errors.Is(err, store.ErrTaskTitleExists):
			return nil, ErrDuplicateTask
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.Any("error", err),
			slog.String("task_id", taskID.String()))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func applyTaskUpdate(task *domain.Task, update TaskUpdate) error {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := domain.ValidateTaskTitle(title); err != nil {
			return err
		}
		task.Title = title
	}
	if update.Tag != nil {
		tag := strings.TrimSpace(*update.Tag)
		if err := domain.ValidateTaskTag(tag); err != nil {
			return err
		}
		task.Tag = tag
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return domain.NewValidationError("description", "Description is required", domain.ErrEmptyDescription)
		}
		task.Description = description
	}
	if update.Deadline != nil {
		task.Deadline = *update.Deadline
	}
	if update.Hour != nil {
		task.Hour = *update.Hour
	}
	if update.Minute != nil {
		task.Minute = *update.Minute
	}
	return nil
}

// EditTaskStatus implements TaskService.EditTaskStatus
func (s *taskServiceImpl) EditTaskStatus(
	ctx context.Context,
	actor Actor,
	id string,
	update StatusUpdate,
) (*domain.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidEditTaskID
	}
	for _, locked := range lockedStatusFields {
		for _, field := range update.Fields {
			if field == locked {
				return nil, &FieldNotAllowedError{Field: field}
			}
		}
	}
	if update.Status == nil {
		return nil, ErrStatusRequired
	}
	status := domain.TaskStatus(*update.Status)
	if !status.IsAssignable() {
		return nil, ErrInvalidStatusValue
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrStatusTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task.Status == domain.TaskStatusFailed {
		return nil, ErrStatusTaskNotFound
	}
	if !actor.CanAccess(task.CreatedTo.ID) {
		return nil, ErrForbidden
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrStatusTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task status changed",
		slog.String("task_id", taskID.String()),
		slog.String("status", status.String()))
	return task, nil
}

// statusFilter turns an optional status name into a task filter.
func statusFilter(name string) (store.TaskFilter, error) {
	var filter store.TaskFilter
	name = strings.TrimSpace(name)
	if name == "" {
		return filter, nil
	}
	status, err := domain.ParseTaskStatus(name)
	if err != nil {
		return filter, ErrInvalidStatusFilter
	}
	filter.Status = &status
	return filter, nil
}
