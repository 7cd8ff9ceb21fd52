// Package retry provides a reusable retry policy for calls against the
// NBA stats provider. Each attempt is preceded by a jittered delay so
// sequential fetch loops never hit the provider in bursts.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy describes how an operation is retried: attempt budget, base delay,
// backoff multiplier and the upper bound of the random jitter added to every
// delay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  int
	JitterBound time.Duration

	// Sleep is swappable for tests; nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy mirrors the provider-facing defaults: 3 attempts,
// 2s base delay, doubling backoff, up to 1s of jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2,
		JitterBound: time.Second,
	}
}

// Permanent wraps an error to mark it as not retryable. Do returns the
// wrapped error immediately without consuming further attempts.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// NonRetryable marks err as permanent for Do.
func NonRetryable(err error) error {
	return &Permanent{Err: err}
}

// Do runs op until it succeeds, returns a permanent error, or the policy's
// attempt budget is exhausted. Before every attempt (including the first) it
// sleeps the base delay plus jitter; after a transient failure it backs
// off exponentially: base * multiplier^attempt + jitter.
func (p Policy) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := p.sleep(ctx, p.preDelay()); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *Permanent
		if errors.As(lastErr, &perm) {
			return perm.Err
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		backoff := p.backoff(attempt)
		log.Warn().
			Str("operation", name).
			Int("attempt", attempt+1).
			Int("max_attempts", p.MaxAttempts).
			Dur("backoff", backoff).
			Err(lastErr).
			Msg("Attempt failed, retrying after backoff")

		if err := p.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return &ExhaustedError{Operation: name, Attempts: p.MaxAttempts, Err: lastErr}
}

// ExhaustedError reports that every attempt allowed by the policy failed.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *ExhaustedError) Error() string {
	return "retries exhausted for " + e.Operation + ": " + e.Err.Error()
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// preDelay is the pause applied before every attempt: the base delay plus
// jitter, so sequential fetch loops never fire faster than the base rate.
func (p Policy) preDelay() time.Duration {
	return p.BaseDelay + p.jitter()
}

// backoff computes base * multiplier^attempt + jitter. Delays are
// non-decreasing across attempts for any jitter bound <= base delay.
func (p Policy) backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 2
	}
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= time.Duration(mult)
	}
	return d + p.jitter()
}

func (p Policy) jitter() time.Duration {
	if p.JitterBound <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(p.JitterBound)))
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
