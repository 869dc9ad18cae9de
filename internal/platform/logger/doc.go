// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries request- or worker-scoped loggers
// through context.Context so stores and processors log with the caller's fields.
package logger
