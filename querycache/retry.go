package querycache

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures retry behavior for a fetch. The zero value runs
// the fetch exactly once; retry is opt-in per query.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Values below 2 disable retry.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the maximum delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds randomness to delays to prevent thundering herd.
	Jitter bool

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool
}

func (rc RetryConfig) withDefaults() RetryConfig {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = 1
	}
	if rc.InitialDelay <= 0 {
		rc.InitialDelay = 100 * time.Millisecond
	}
	if rc.MaxDelay <= 0 {
		rc.MaxDelay = 30 * time.Second
	}
	if rc.Multiplier <= 0 {
		rc.Multiplier = 2.0
	}
	if rc.RetryIf == nil {
		rc.RetryIf = func(err error) bool { return err != nil }
	}
	return rc
}

// run executes op until it succeeds, the attempts are exhausted, RetryIf
// declines, or the context ends.
func (rc RetryConfig) run(ctx context.Context, op func(context.Context) error) error {
	rc = rc.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !rc.RetryIf(err) {
			return err
		}
		if attempt == rc.MaxAttempts {
			break
		}

		delay := rc.delayFor(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// delayFor computes the delay before the retry following the given attempt.
func (rc RetryConfig) delayFor(attempt int) time.Duration {
	var delay time.Duration
	switch rc.Strategy {
	case BackoffLinear:
		delay = time.Duration(attempt) * rc.InitialDelay
	case BackoffConstant:
		delay = rc.InitialDelay
	default:
		delay = time.Duration(float64(rc.InitialDelay) * math.Pow(rc.Multiplier, float64(attempt-1)))
	}

	if delay > rc.MaxDelay {
		delay = rc.MaxDelay
	}
	if rc.Jitter && delay > 1 {
		half := delay / 2
		delay = half + time.Duration(rand.Int63n(int64(half)+1))
	}
	return delay
}
