// Package retry provides a bounded retry combinator with exponential backoff
// on top of github.com/cenkalti/backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy controls how an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// BaseDelay is the wait after the first failure.
	BaseDelay time.Duration
	// Multiplier scales the delay after every failed attempt.
	Multiplier float64
	// Retryable decides whether an error is worth another attempt.
	// nil retries every error.
	Retryable func(error) bool
	// OnRetry is called before each wait. Optional.
	OnRetry func(attempt int, err error, wait time.Duration)
	// Sleep waits for d or until ctx is done. nil uses a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy is 3 attempts starting at 1s and doubling.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		BaseDelay:  time.Second,
		Multiplier: 2,
	}
}

// ErrExhausted wraps the last error once all attempts are spent.
var ErrExhausted = errors.New("retry attempts exhausted")

// maxWait caps a single delay; the policies in use never get near it.
const maxWait = time.Hour

// Do runs op until it succeeds, returns a non-retryable error, the context
// is cancelled, or the policy runs out of attempts.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if attempts == 1 {
		// WithMaxRetries treats 0 as unlimited
		return op(ctx)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		lastErr  error
		stopped  bool
		attempt  int
		sleepErr error
	)
	operation := func() (T, error) {
		attempt++
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			stopped = true
			return result, backoff.Permanent(err)
		}
		return result, err
	}
	notify := func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
	}

	var timer backoff.Timer
	if p.Sleep != nil {
		timer = &sleepTimer{ctx: runCtx, sleep: p.Sleep, onErr: func(err error) {
			sleepErr = err
			cancel()
		}}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newExponential(p), uint64(attempts-1)), runCtx)
	result, err := backoff.RetryNotifyWithTimerAndData(operation, b, notify, timer)
	switch {
	case err == nil:
		return result, nil
	case stopped:
		return result, err
	case sleepErr != nil:
		return result, fmt.Errorf("retry interrupted after attempt %d: %w", attempt, errors.Join(sleepErr, lastErr))
	case ctx.Err() != nil:
		return result, fmt.Errorf("retry interrupted after attempt %d: %w", attempt, errors.Join(ctx.Err(), lastErr))
	}
	return result, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, lastErr)
}

func newExponential(p Policy) *backoff.ExponentialBackOff {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = maxWait
	b.MaxElapsedTime = 0
	return b
}

// sleepTimer drives backoff's wait through Policy.Sleep so callers can
// replace real waiting.
type sleepTimer struct {
	ctx   context.Context
	sleep func(ctx context.Context, d time.Duration) error
	onErr func(error)
	c     chan time.Time
}

func (t *sleepTimer) Start(d time.Duration) {
	t.c = make(chan time.Time, 1)
	if err := t.sleep(t.ctx, d); err != nil {
		t.onErr(err)
		return
	}
	t.c <- time.Now()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time { return t.c }
