// Package logger provides structured logging functionality for the application.
//
// It configures a log/slog JSON logger with a configurable level and carries
// request-scoped loggers through context.Context.
package logger
