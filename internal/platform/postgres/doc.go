// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. Rows are scanned with sqlx; dynamic filters are
// built with squirrel. The schema lives in the embedded goose migrations.
package postgres
