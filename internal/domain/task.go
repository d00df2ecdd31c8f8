package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus int

// Task statuses, in the order they are stored.
const (
	TaskStatusPending TaskStatus = iota
	TaskStatusInProgress
	TaskStatusCompleted
	TaskStatusFailed
)

// DeadlineLayout is the date format of Task.Deadline.
const DeadlineLayout = "2006-01-02"

// Task field bounds, in characters.
const (
	TaskTitleMinLength = 3
	TaskTitleMaxLength = 50
	TaskTagMinLength   = 3
	TaskTagMaxLength   = 30
)

// Task validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrInvalidTaskTitle = errors.New("invalid task title")
	ErrInvalidTaskTag   = errors.New("invalid task tag")
	ErrEmptyDescription = errors.New("task description cannot be empty")
	ErrEmptyCreator     = errors.New("task creator cannot be empty")
	ErrEmptyAssignee    = errors.New("task assignee cannot be empty")
	ErrSameCreator      = errors.New("task creator and assignee must differ")
)

var statusNames = [...]string{"PENDING", "INPROGRESS", "COMPLETED", "FAILED"}

// String returns the upper-case status name.
func (s TaskStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("TaskStatus(%d)", int(s))
	}
	return statusNames[s]
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	return s >= TaskStatusPending && s <= TaskStatusFailed
}

// IsActive reports whether the task can still be reminded about or swept.
func (s TaskStatus) IsActive() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

// IsAssignable reports whether a user may set s directly. FAILED is only
// ever set by the overdue sweep.
func (s TaskStatus) IsAssignable() bool {
	return s >= TaskStatusPending && s <= TaskStatusCompleted
}

// ParseTaskStatus maps a status name such as "INPROGRESS" to its value.
func ParseTaskStatus(name string) (TaskStatus, error) {
	for i, n := range statusNames {
		if n == name {
			return TaskStatus(i), nil
		}
	}
	return 0, ErrInvalidStatus
}

// UserRef is a populated reference to a user, as rendered on a task.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// Task is a unit of work assigned by one user to another.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Title        string     `json:"title"`
	Tag          string     `json:"tag"`
	Description  string     `json:"description"`
	Deadline     string     `json:"deadline"`
	Hour         int        `json:"hour"`
	Minute       int        `json:"minute"`
	Status       TaskStatus `json:"status"`
	CreatedBy    UserRef    `json:"createdByTask"`
	CreatedTo    UserRef    `json:"createdToTask"`
	ReminderSent bool       `json:"reminderSent"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewTask creates a PENDING task from creator to assignee. assigneeEmail is
// copied onto the task so reminders need no user lookup.
func NewTask(
	creatorID, assigneeID uuid.UUID,
	assigneeEmail, title, tag, description, deadline string,
	hour, minute int,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Email:       NormalizeEmail(assigneeEmail),
		Title:       strings.TrimSpace(title),
		Tag:         strings.TrimSpace(tag),
		Description: strings.TrimSpace(description),
		Deadline:    deadline,
		Hour:        hour,
		Minute:      minute,
		Status:      TaskStatusPending,
		CreatedBy:   UserRef{ID: creatorID},
		CreatedTo:   UserRef{ID: assigneeID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.CreatedBy.ID == uuid.Nil {
		return ErrEmptyCreator
	}
	if t.CreatedTo.ID == uuid.Nil {
		return ErrEmptyAssignee
	}
	if t.CreatedBy.ID == t.CreatedTo.ID {
		return ErrSameCreator
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateTaskTag(t.Tag); err != nil {
		return err
	}
	if t.Description == "" {
		return NewValidationError("description", "Description is required", ErrEmptyDescription)
	}
	if _, err := ParseDeadline(t.Deadline); err != nil {
		return err
	}
	if err := ValidateClock(t.Hour, t.Minute); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateTaskTitle checks the trimmed title length.
func ValidateTaskTitle(title string) error {
	n := len([]rune(title))
	switch {
	case n < TaskTitleMinLength:
		return NewValidationError("title", "Invalid title: too short", ErrInvalidTaskTitle)
	case n > TaskTitleMaxLength:
		return NewValidationError("title", "Invalid title: too long", ErrInvalidTaskTitle)
	}
	return nil
}

// ValidateTaskTag checks an optional tag. Empty is allowed.
func ValidateTaskTag(tag string) error {
	n := len([]rune(tag))
	if n == 0 {
		return nil
	}
	switch {
	case n < TaskTagMinLength:
		return NewValidationError("tag", "Invalid tag: too short", ErrInvalidTaskTag)
	case n > TaskTagMaxLength:
		return NewValidationError("tag", "Invalid tag: too long", ErrInvalidTaskTag)
	}
	return nil
}

// ParseDeadline parses a YYYY-MM-DD deadline as a UTC midnight.
func ParseDeadline(deadline string) (time.Time, error) {
	day, err := time.Parse(DeadlineLayout, deadline)
	if err != nil {
		return time.Time{}, NewValidationError("deadline", "Invalid deadline format", ErrInvalidDeadline)
	}
	return day, nil
}

// ValidateClock checks an hour 0-23 and minute 0-59 pair.
func ValidateClock(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidTime
	}
	return nil
}

// CheckUpcoming verifies that a deadline lies ahead of now. Only the calendar
// date of now is compared against deadline; the hour and minute rules apply
// only when the deadline is today. now should already be in the zone the
// deadline is expressed in.
func CheckUpcoming(deadline string, hour, minute int, now time.Time) error {
	day, err := ParseDeadline(deadline)
	if err != nil {
		return err
	}
	if err := ValidateClock(hour, minute); err != nil {
		return err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(today):
		return ErrDeadlinePast
	case day.After(today):
		return nil
	}

	switch {
	case hour < now.Hour():
		return ErrHourPast
	case hour == now.Hour() && minute <= now.Minute():
		return ErrTimeNotUpcoming
	}
	return nil
}
