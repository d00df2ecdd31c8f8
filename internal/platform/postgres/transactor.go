package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Transactor implements store.Transactor on a sqlx pool.
type Transactor struct {
	db    *sqlx.DB
	users *PostgresUserStore
	tasks *PostgresTaskStore
}

// NewTransactor creates a Transactor. If logger is nil, a default logger will be used.
func NewTransactor(db *sqlx.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transactor{
		db:    db,
		users: NewPostgresUserStore(db, logger),
		tasks: NewPostgresTaskStore(db, logger),
	}
}

var _ store.Transactor = (*Transactor)(nil)

// RunInTx implements store.Transactor.
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, store.Stores{
			Users: t.users.WithTx(tx),
			Tasks: t.tasks.WithTx(tx),
		})
	})
}
