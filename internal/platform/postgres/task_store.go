package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

var taskColumns = []string{
	"t.id", "t.email", "t.title", "t.tag", "t.description", "t.deadline", "t.hour", "t.minute",
	"t.status", "t.created_by", "cb.name AS created_by_name", "t.created_to", "ct.name AS created_to_name",
	"t.reminder_sent", "t.created_at", "t.updated_at",
}

type taskRow struct {
	ID            uuid.UUID `db:"id"`
	Email         string    `db:"email"`
	Title         string    `db:"title"`
	Tag           string    `db:"tag"`
	Description   string    `db:"description"`
	Deadline      string    `db:"deadline"`
	Hour          int       `db:"hour"`
	Minute        int       `db:"minute"`
	Status        int       `db:"status"`
	CreatedBy     uuid.UUID `db:"created_by"`
	CreatedByName string    `db:"created_by_name"`
	CreatedTo     uuid.UUID `db:"created_to"`
	CreatedToName string    `db:"created_to_name"`
	ReminderSent  bool      `db:"reminder_sent"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:           r.ID,
		Email:        r.Email,
		Title:        r.Title,
		Tag:          r.Tag,
		Description:  r.Description,
		Deadline:     r.Deadline,
		Hour:         r.Hour,
		Minute:       r.Minute,
		Status:       domain.TaskStatus(r.Status),
		CreatedBy:    domain.UserRef{ID: r.CreatedBy, Name: r.CreatedByName},
		CreatedTo:    domain.UserRef{ID: r.CreatedTo, Name: r.CreatedToName},
		ReminderSent: r.ReminderSent,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type statusCountRow struct {
	AssigneeID uuid.UUID `db:"created_to"`
	Status     int       `db:"status"`
	Count      int       `db:"count"`
}

// activeStatuses are the statuses the reminder and the sweep act on.
var activeStatuses = []int{int(domain.TaskStatusPending), int(domain.TaskStatusInProgress)}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sqlx.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

func selectTasks() squirrel.SelectBuilder {
	return psql.Select(taskColumns...).
		From("tasks t").
		Join("users cb ON cb.id = t.created_by").
		Join("users ct ON ct.id = t.created_to")
}

func (s *PostgresTaskStore) selectRows(ctx context.Context, q squirrel.SelectBuilder, op string) ([]domain.Task, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "task query failed", slog.String("operation", op), slog.Any("error", err))
		return nil, MapError(err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toDomain())
	}
	return tasks, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, email, title, tag, description, deadline, hour, minute, status,
		                    created_by, created_to, reminder_sent, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		task.ID, task.Email, task.Title, task.Tag, task.Description, task.Deadline, task.Hour, task.Minute,
		int(task.Status), task.CreatedBy.ID, task.CreatedTo.ID, task.ReminderSent, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			s.logger.ErrorContext(ctx, "failed to create task", slog.String("task_id", task.ID.String()), slog.Any("error", err))
		}
		return mapped
	}

	s.logger.DebugContext(ctx, "task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assignee_id", task.CreatedTo.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query, args, err := selectTasks().Where(squirrel.Eq{"t.id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task query: %w", err)
	}

	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get task", slog.String("task_id", id.String()), slog.Any("error", err))
		return nil, MapError(err)
	}

	task := row.toDomain()
	return &task, nil
}

// ExistsActiveTitle implements store.TaskStore.ExistsActiveTitle
func (s *PostgresTaskStore) ExistsActiveTitle(ctx context.Context, assigneeID uuid.UUID, title string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE created_to = $1 AND title = $2 AND status <> $3)`,
		assigneeID, title, int(domain.TaskStatusFailed),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check task title", slog.Any("error", err))
		return false, MapError(err)
	}
	return exists, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	q := selectTasks()
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"t.status": int(*filter.Status)})
	}
	if filter.AssigneeID != nil {
		q = q.Where(squirrel.Eq{"t.created_to": filter.AssigneeID.String()})
	}
	if filter.Name != "" {
		pattern := containsPattern(filter.Name)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"ct.name": pattern},
			squirrel.ILike{"cb.name": pattern},
		})
	}
	return s.selectRows(ctx, q.OrderBy("t.created_at DESC"), "list")
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query, args, err := psql.Update("tasks").
		Set("title", task.Title).
		Set("tag", task.Tag).
		Set("description", task.Description).
		Set("deadline", task.Deadline).
		Set("hour", task.Hour).
		Set("minute", task.Minute).
		Set("status", int(task.Status)).
		Set("reminder_sent", task.ReminderSent).
		Set("updated_at", task.UpdatedAt).
		Where(squirrel.Eq{"id": task.ID.String()}).
		Where(squirrel.NotEq{"status": int(domain.TaskStatusFailed)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build task update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			s.logger.ErrorContext(ctx, "failed to update task", slog.String("task_id", task.ID.String()), slog.Any("error", err))
		}
		return mapped
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete task", slog.String("task_id", id.String()), slog.Any("error", err))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteByAssignee implements store.TaskStore.DeleteByAssignee
func (s *PostgresTaskStore) DeleteByAssignee(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE created_to = $1`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete tasks of user", slog.String("user_id", userID.String()), slog.Any("error", err))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(
	ctx context.Context,
	assigneeIDs []uuid.UUID,
) (map[uuid.UUID][]store.StatusCount, error) {
	counts := make(map[uuid.UUID][]store.StatusCount, len(assigneeIDs))
	if len(assigneeIDs) == 0 {
		return counts, nil
	}

	ids := make([]string, len(assigneeIDs))
	for i, id := range assigneeIDs {
		ids[i] = id.String()
	}

	query, args, err := psql.Select("created_to", "status", "COUNT(*) AS count").
		From("tasks").
		Where(squirrel.Eq{"created_to": ids}).
		GroupBy("created_to", "status").
		OrderBy("created_to", "status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var rows []statusCountRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to count tasks by status", slog.Any("error", err))
		return nil, MapError(err)
	}

	for _, r := range rows {
		counts[r.AssigneeID] = append(counts[r.AssigneeID], store.StatusCount{
			Status: domain.TaskStatus(r.Status),
			Count:  r.Count,
		})
	}
	return counts, nil
}

// FindDueForReminder implements store.TaskStore.FindDueForReminder
func (s *PostgresTaskStore) FindDueForReminder(ctx context.Context, window store.ReminderWindow) ([]domain.Task, error) {
	q := selectTasks().
		Where(squirrel.Eq{"t.hour": window.Hour}).
		Where("t.minute BETWEEN ? AND ?", window.FromMinute, window.ToMinute).
		Where(squirrel.Eq{"t.status": activeStatuses}).
		Where(squirrel.Eq{"t.reminder_sent": false}).
		OrderBy("t.minute", "t.created_at")
	return s.selectRows(ctx, q, "reminder")
}

// MarkReminderSent implements store.TaskStore.MarkReminderSent
func (s *PostgresTaskStore) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mark reminder sent", slog.String("task_id", id.String()), slog.Any("error", err))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// MarkOverdueFailed implements store.TaskStore.MarkOverdueFailed. Deadlines
// are YYYY-MM-DD text, so string comparison orders them by date.
func (s *PostgresTaskStore) MarkOverdueFailed(ctx context.Context, cutoff store.OverdueCutoff) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.SelectContext(ctx, &ids,
		`UPDATE tasks SET status = 3, updated_at = NOW()
		 WHERE status IN (0, 1)
		   AND (deadline < $1
		        OR (deadline = $1 AND (hour < $2 OR (hour = $2 AND minute < $3))))
		 RETURNING id`,
		cutoff.Date, cutoff.Hour, cutoff.Minute,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mark overdue tasks", slog.Any("error", err))
		return nil, MapError(err)
	}
	return ids, nil
}
