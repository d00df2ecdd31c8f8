// Package service holds the task board's use cases. TaskService covers task
// assignment, editing and status changes; UserService covers registration,
// sessions, profile and password management, and the admin user listing.
//
// Services depend only on the interfaces in internal/store and
// internal/service/auth. They report expected failures as the sentinel errors
// in errors.go, which the API layer maps to HTTP responses.
package service
