package adaptive

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr struct {
	code int
}

func (e *statusErr) Error() string   { return fmt.Sprintf("http %d", e.code) }
func (e *statusErr) StatusCode() int { return e.code }

func TestLimiterBackoffAndBounds(t *testing.T) {
	lim := NewLimiter(8, 1, 16)

	lim.Backoff()
	if got := lim.Limit(); got != 4 {
		t.Errorf("limit after backoff = %.1f, want 4", got)
	}

	for i := 0; i < 10; i++ {
		lim.Backoff()
	}
	if got := lim.Limit(); got != 1 {
		t.Errorf("limit floor = %.1f, want 1", got)
	}
}

func TestLimiterSuccessHeldBackAfterError(t *testing.T) {
	lim := NewLimiter(4, 1, 16)
	lim.Backoff()
	before := lim.Limit()

	// A success right after an error must not raise the rate.
	lim.Success()
	if got := lim.Limit(); got != before {
		t.Errorf("limit raised too soon after error: %.1f, want %.1f", got, before)
	}
}

func TestRetrySucceedsAfterTransientErrors(t *testing.T) {
	ctx := context.Background()
	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}

	calls := 0
	err := Retry(ctx, nil, cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnFatal(t *testing.T) {
	ctx := context.Background()
	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, Multiplier: 2}

	calls := 0
	err := Retry(ctx, nil, cfg, func() error {
		calls++
		return &Fatal{Err: errors.New("bad token")}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	err := Retry(ctx, nil, cfg, func() error {
		calls++
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestShouldBackoff(t *testing.T) {
	if shouldBackoff(errors.New("plain")) {
		t.Error("plain error must not trigger backoff")
	}
	if !shouldBackoff(&statusErr{429}) {
		t.Error("429 must trigger backoff")
	}
	if !shouldBackoff(&statusErr{503}) {
		t.Error("503 must trigger backoff")
	}
	if shouldBackoff(&statusErr{404}) {
		t.Error("404 must not trigger backoff")
	}
}
