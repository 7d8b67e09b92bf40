package deluge

import (
	"context"
	"log/slog"
)

// LogDebug logs a debug-level message with the context logger.
//
// Checks if debug level is enabled before building the log message
// (optimization). The drivers use this for their lifecycle events.
//
// Example:
//
//	deluge.LogDebug(ctx, "work returned", "worker", id, "items", n)
func LogDebug(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.DebugContext(ctx, msg, args...)
}

// LogWarn logs a warning-level message with the context logger.
func LogWarn(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	logger.WarnContext(ctx, msg, args...)
}

// LogError logs an error-level message with the context logger.
//
// If err is not nil, it is added to the log with key "error".
func LogError(ctx context.Context, msg string, err error, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelError) {
		return
	}
	if err != nil {
		args = append(args, "error", err)
	}
	logger.ErrorContext(ctx, msg, args...)
}
