package deluge

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "deluge.logger"

// WithLogger stores a slog.Logger in the context.
//
// The logger is used by the terminal drivers for their debug events
// (intake sizes, worker lifecycle, short-circuits). If no logger is set,
// slog.Default() is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	ctx = deluge.WithLogger(ctx, logger)
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger retrieves the slog.Logger from context.
//
// Returns slog.Default() if no logger is found in context.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
