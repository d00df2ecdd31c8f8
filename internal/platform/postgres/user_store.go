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

const userColumns = "id, name, email, password, is_admin, created_at, updated_at"

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		HashedPassword: r.Password,
		IsAdmin:        r.IsAdmin,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password, is_admin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, user.HashedPassword, user.IsAdmin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			s.logger.ErrorContext(ctx, "failed to create user", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		}
		return mapped
	}

	s.logger.DebugContext(ctx, "user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get user by id", slog.String("user_id", id.String()), slog.Any("error", err))
		return nil, MapError(err)
	}
	return row.toDomain(), nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get user by email", slog.Any("error", err))
		return nil, MapError(err)
	}
	return row.toDomain(), nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = $1, password = $2, is_admin = $3, updated_at = $4 WHERE id = $5`,
		user.Name, user.HashedPassword, user.IsAdmin, user.UpdatedAt, user.ID,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update user", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// UpdatePasswordByEmail implements store.UserStore.UpdatePasswordByEmail
func (s *PostgresUserStore) UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE lower(email) = lower($2)`,
		hashedPassword, email,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user", slog.String("user_id", id.String()), slog.Any("error", err))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ListExcept implements store.UserStore.ListExcept
func (s *PostgresUserStore) ListExcept(ctx context.Context, id uuid.UUID) ([]domain.User, error) {
	query, args, err := psql.Select(userColumns).
		From("users").
		Where(squirrel.NotEq{"id": id.String()}).
		OrderBy("name", "created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user list query: %w", err)
	}

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		return nil, MapError(err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, *r.toDomain())
	}
	return users, nil
}
