package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskFilter narrows a task listing. Nil and empty fields match everything.
type TaskFilter struct {
	Status     *domain.TaskStatus
	AssigneeID *uuid.UUID
	// Name is a case-insensitive substring matched against the assignee's
	// or the creator's name.
	Name string
}

// StatusCount is the number of tasks in one status.
type StatusCount struct {
	Status domain.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// ReminderWindow selects tasks by their raw hour and minute fields: the hour
// must equal Hour and the minute must lie in [FromMinute, ToMinute]. The
// deadline date is not part of the match.
type ReminderWindow struct {
	Hour       int
	FromMinute int
	ToMinute   int
}

// OverdueCutoff is the wall-clock instant, in the scheduler's zone, before
// which an active task counts as overdue.
type OverdueCutoff struct {
	Date   string // YYYY-MM-DD
	Hour   int
	Minute int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrTaskTitleExists when the assignee already has an active task
	// with that title.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with creator and assignee names populated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ExistsActiveTitle reports whether assigneeID holds a non-failed task titled title.
	ExistsActiveTitle(ctx context.Context, assigneeID uuid.UUID, title string) (bool, error)

	// List returns tasks matching filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)

	// Update writes the mutable fields of a non-failed task.
	// Returns ErrTaskNotFound if the task is missing or FAILED.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task in any status.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByAssignee removes every task assigned to userID and returns the count.
	DeleteByAssignee(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountByStatus aggregates tasks per status for each of the given assignees.
	// Assignees without tasks are absent from the result.
	CountByStatus(ctx context.Context, assigneeIDs []uuid.UUID) (map[uuid.UUID][]StatusCount, error)

	// FindDueForReminder returns active tasks inside window whose reminder has
	// not been sent.
	FindDueForReminder(ctx context.Context, window ReminderWindow) ([]domain.Task, error)

	// MarkReminderSent sets reminderSent on a task.
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	// MarkOverdueFailed moves every active task due before cutoff to FAILED
	// in a single statement and returns the moved IDs.
	MarkOverdueFailed(ctx context.Context, cutoff OverdueCutoff) ([]uuid.UUID, error)

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sqlx.Tx) TaskStore
}

// Stores groups the stores that share one transaction.
type Stores struct {
	Users UserStore
	Tasks TaskStore
}

// Transactor runs fn with stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
