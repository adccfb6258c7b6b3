package card

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// backoffPolicy bounds retries of compensating calls. Authorize and capture
// are never retried here; a failed attempt is reported and the customer
// decides whether to try again.
type backoffPolicy struct {
	baseDelay  time.Duration
	maxRetries int
}

func retry[T any](ctx context.Context, p backoffPolicy, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	attempts := max(p.maxRetries, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if bankErr, ok := IsBankError(err); ok {
		return bankErr.IsRetryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Exponential delay with up to 10% jitter.
func (p backoffPolicy) backoff(attempt int) time.Duration {
	base := p.baseDelay * time.Duration(1<<attempt)
	if base <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(base)/10 + 1))
	return base + jitter
}
