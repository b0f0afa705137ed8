package pipeline

import (
	"context"
	"fmt"

	errx "github.com/carllama/server/internal/core/error"
	logx "github.com/carllama/server/pkg/logger"
)

const defaultMaxAttempts = 5

// withRetry runs fn until it yields a usable result, up to attempts times
// with no backoff. Collaborators signal an unusable result (malformed or
// empty model output) through an error; exhaustion surfaces as
// errx.ErrCollaboratorExhausted so the orchestrator can fall back instead of
// looping forever on a misbehaving collaborator.
func withRetry[T any](ctx context.Context, component string, attempts int, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%s aborted: %w", component, err)
		}
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logx.Warn().
			Str("component", component).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Err(err).
			Msg("Collaborator returned unusable output, retrying")
	}
	return zero, errx.Exhausted(component, attempts, lastErr)
}
