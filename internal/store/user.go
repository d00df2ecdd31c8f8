package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email, compared case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes the name, password hash and admin flag of an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePasswordByEmail replaces the password hash of the user owning email.
	// Returns ErrUserNotFound when no user matches.
	UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) error

	// Delete removes a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListExcept returns every user other than id, ordered by name.
	ListExcept(ctx context.Context, id uuid.UUID) ([]domain.User, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sqlx.Tx) UserStore
}
