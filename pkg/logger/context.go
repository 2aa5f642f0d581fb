package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var requestLoggerKey contextKey

// With stores a request-scoped logger enriched with fields (trace id,
// handler name) back into the context.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, requestLoggerKey, l)
}

// From returns the request-scoped logger, falling back to the process-wide
// one when the context carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
