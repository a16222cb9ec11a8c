// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// JSON logging with configurable log levels, context plumbing for
// operation-scoped loggers, and redaction of sensitive payload data.
package logger
