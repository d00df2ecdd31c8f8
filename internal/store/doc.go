// Package store defines the persistence contracts for users and tasks.
// Services depend on these interfaces; the postgres package provides the
// implementations. Store methods translate driver failures into the
// sentinel errors declared here so callers never inspect SQL errors.
package store
