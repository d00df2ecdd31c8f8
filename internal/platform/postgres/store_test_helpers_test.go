package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "email", "title", "tag", "description", "deadline", "hour", "minute", "status",
	"created_by", "created_by_name", "created_to", "created_to_name", "reminder_sent", "created_at", "updated_at",
}

var userRowColumns = []string{"id", "name", "email", "password", "is_admin", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

type taskFixture struct {
	id, creator, assignee uuid.UUID
	title                 string
	status                int
	now                   time.Time
}

func newTaskFixture(title string, status int) taskFixture {
	return taskFixture{
		id:       uuid.New(),
		creator:  uuid.New(),
		assignee: uuid.New(),
		title:    title,
		status:   status,
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (f taskFixture) addTo(rows *sqlmock.Rows) *sqlmock.Rows {
	return rows.AddRow(
		f.id.String(), "bob@example.com", f.title, "ops", "details", "2025-03-12", 14, 30, f.status,
		f.creator.String(), "Admin", f.assignee.String(), "Bob", false, f.now, f.now,
	)
}
