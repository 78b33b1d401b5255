// Package logger provides structured logging for the application using the
// standard library log/slog package: JSON output at the configured level,
// and request-scoped loggers carried in context.Context.
package logger
