package usecase

import (
	"context"
	"math/rand"
	"time"

	"interview-core/internal/domain/entity"
	"interview-core/internal/logger"
)

// RetryExecutor runs a single provider call with bounded retries and
// exponential backoff.
type RetryExecutor struct {
	log *logger.Logger

	// jitter returns the random offset added to a backoff. Tests replace it.
	jitter func(backoff time.Duration) time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetryExecutor(log *logger.Logger) *RetryExecutor {
	return &RetryExecutor{
		log:    log,
		jitter: proportionalJitter,
		sleep:  sleepContext,
	}
}

// proportionalJitter adds up to 20% of the backoff.
func proportionalJitter(backoff time.Duration) time.Duration {
	return time.Duration(rand.Float64() * 0.2 * float64(backoff))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Backoff is the delay before retry number attempt+1: base * 2^attempt plus jitter.
func (x *RetryExecutor) Backoff(base time.Duration, attempt int) time.Duration {
	backoff := base * time.Duration(int64(1)<<attempt)
	return backoff + x.jitter(backoff)
}

// Execute calls fn at most spec.MaxRetries+1 times. Each attempt gets its own
// spec.Timeout. A fatal failure or a cancelled parent context ends the loop
// early.
func Execute[R any](ctx context.Context, x *RetryExecutor, spec entity.ProviderSpec, fn func(context.Context) (R, error)) entity.AttemptOutcome[R] {
	var (
		zero    R
		lastErr error
	)
	for attempt := 0; attempt <= spec.MaxRetries; attempt++ {
		payload, err := callOnce(ctx, spec.Timeout, fn)
		if err == nil {
			return entity.AttemptOutcome[R]{Kind: entity.OutcomeSuccess, Payload: payload, Attempts: attempt + 1}
		}
		lastErr = err

		if entity.IsFatal(err) {
			x.log.Warn("provider call failed permanently",
				"provider", spec.Name, "attempt", attempt+1, "error", err)
			return entity.AttemptOutcome[R]{Kind: entity.OutcomeFatal, Payload: zero, Cause: err, Attempts: attempt + 1}
		}
		if attempt == spec.MaxRetries {
			break
		}

		wait := x.Backoff(spec.BaseDelay, attempt)
		x.log.Warn("provider call failed, retrying",
			"provider", spec.Name, "attempt", attempt+1, "max_attempts", spec.MaxRetries+1,
			"backoff", wait, "error", err)
		if err := x.sleep(ctx, wait); err != nil {
			return entity.AttemptOutcome[R]{Kind: entity.OutcomeRetryable, Cause: err, Attempts: attempt + 1}
		}
	}
	return entity.AttemptOutcome[R]{Kind: entity.OutcomeRetryable, Payload: zero, Cause: lastErr, Attempts: spec.MaxRetries + 1}
}

func callOnce[R any](ctx context.Context, timeout time.Duration, fn func(context.Context) (R, error)) (R, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
