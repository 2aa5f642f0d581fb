package internal

import (
	"context"
	"time"
)

type ctxKey string

// ContextActorKey holds the authenticated actor for the current request.
const ContextActorKey ctxKey = "actor"

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
