package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyodin/dollkongbot/internal/contextutil"
)

// DefaultTimeout bounds a single collaborator call.
const DefaultTimeout = 30 * time.Second

// ErrTimeout matches every TimeoutError.
var ErrTimeout = errors.New("collaborator timed out")

// TimeoutError is returned when a collaborator call timed out on both attempts.
type TimeoutError struct {
	Op       string
	Timeout  time.Duration
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %d attempts of %s: %v", e.Op, e.Attempts, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTimeout) true.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// CallWithTimeout runs fn under a per-attempt deadline and retries once if that
// deadline, and not the caller's, expired. Caller cancellation is returned as is.
func CallWithTimeout[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	const attempts = 2
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		v, err := fn(attemptCtx)
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if !timedOut && !errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}

		lastErr = err
		logger.WarnContext(ctx, "collaborator call timed out", "op", op, "attempt", attempt, "timeout", timeout)
	}

	return zero, &TimeoutError{Op: op, Timeout: timeout, Attempts: attempts, Err: lastErr}
}
