package querycache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestRetryConfig_ZeroValueRunsOnce verifies the zero config disables retry.
func TestRetryConfig_ZeroValueRunsOnce(t *testing.T) {
	calls := 0
	err := RetryConfig{}.run(context.Background(), func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// TestRetryConfig_RetriesUntilSuccess verifies bounded retry.
func TestRetryConfig_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	cfg := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Microsecond,
		Strategy:     BackoffConstant,
	}

	err := cfg.run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

// TestRetryConfig_ExhaustsAttempts verifies the last error is returned.
func TestRetryConfig_ExhaustsAttempts(t *testing.T) {
	want := errors.New("persistent")
	calls := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Microsecond}

	err := cfg.run(context.Background(), func(context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

// TestRetryConfig_RetryIf verifies non-retryable errors stop immediately.
func TestRetryConfig_RetryIf(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	cfg := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Microsecond,
		RetryIf:      func(err error) bool { return !errors.Is(err, fatal) },
	}

	err := cfg.run(context.Background(), func(context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("err = %v, want %v", err, fatal)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// TestRetryConfig_ContextCancel verifies cancellation interrupts the backoff wait.
func TestRetryConfig_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 10, InitialDelay: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- cfg.run(ctx, func(context.Context) error {
			return errors.New("transient")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

// TestRetryConfig_DelayBounds verifies delays are clamped to MaxDelay.
func TestRetryConfig_DelayBounds(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     2 * time.Second,
		Multiplier:   10,
	}.withDefaults()

	for attempt := 1; attempt < 10; attempt++ {
		if d := cfg.delayFor(attempt); d > 2*time.Second {
			t.Errorf("delayFor(%d) = %v, exceeds MaxDelay", attempt, d)
		}
	}
}

// TestRetryConfig_LinearBackoff verifies linear delay growth.
func TestRetryConfig_LinearBackoff(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     time.Minute,
		Strategy:     BackoffLinear,
	}.withDefaults()

	if d := cfg.delayFor(3); d != 30*time.Millisecond {
		t.Errorf("delayFor(3) = %v, want 30ms", d)
	}
}
