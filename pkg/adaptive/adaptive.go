// Package adaptive provides a self-adjusting rate limiter and a retry
// helper with exponential backoff, for clients of APIs that answer
// overload with 429s.
//
//	lim := adaptive.NewLimiter(5, 1, 20)
//	err := adaptive.Retry(ctx, lim, adaptive.DefaultRetryConfig(), func() error {
//	    return doRequest()
//	})
package adaptive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with automatic adjustment: the rate creeps
// up while requests succeed and halves when the server pushes back.
type Limiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	min, max  rate.Limit
	lastError time.Time
}

// NewLimiter creates a Limiter starting at initial requests per second,
// bounded by [min, max].
func NewLimiter(initial, min, max rate.Limit) *Limiter {
	if min < 1 {
		min = 1
	}
	if initial < min {
		initial = min
	}
	return &Limiter{
		limiter: rate.NewLimiter(initial, maxInt(1, int(initial))),
		min:     min,
		max:     max,
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.limiter.Wait(ctx)
}

// Success nudges the rate up, but only once the limiter has been
// error-free for a while.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastError) > 10*time.Second {
		l.setLimit(l.limiter.Limit() + 1)
	}
}

// Backoff halves the rate in response to a server push-back.
func (l *Limiter) Backoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastError = time.Now()
	l.setLimit(l.limiter.Limit() / 2)
}

// Limit returns the current requests per second.
func (l *Limiter) Limit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.limiter.Limit())
}

func (l *Limiter) setLimit(next rate.Limit) {
	if next > l.max {
		next = l.max
	}
	if next < l.min {
		next = l.min
	}
	if next != l.limiter.Limit() {
		l.limiter.SetLimit(next)
		l.limiter.SetBurst(maxInt(1, int(next)))
	}
}

// Fatal wraps an error that must stop retrying immediately.
type Fatal struct {
	Err error
}

func (f *Fatal) Error() string { return f.Err.Error() }
func (f *Fatal) Unwrap() error { return f.Err }

// StatusCoder is implemented by errors carrying an HTTP status code.
// discordgo's RESTError qualifies via a small wrapper at the call site.
type StatusCoder interface {
	error
	StatusCode() int
}

// RetryConfig controls the backoff schedule.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
	OnRetry      func(attempt int, err error)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  8,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     15 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retry runs fn under the limiter with exponential backoff. It stops on
// success, on a Fatal error, when ctx is done, or when attempts run out.
func Retry(ctx context.Context, lim *Limiter, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}

		var fatal *Fatal
		if errors.As(err, &fatal) {
			return err
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		if shouldBackoff(err) && lim != nil {
			lim.Backoff()
			log.Printf("[WARN] Request pushed back (attempt %d), limit now %.2f rps", attempt, lim.Limit())
		}

		next := delay
		if cfg.Jitter {
			next = withJitter(delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded", cfg.MaxAttempts)
}

// shouldBackoff reports whether err looks like server overload: a 429 or 5xx.
func shouldBackoff(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	code := sc.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// withJitter adds up to 25% random slack to a delay.
func withJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)+1))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
