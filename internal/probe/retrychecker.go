// internal/probe/retrychecker.go
package probe

import (
	"context"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// MaxBackoff caps the delay between two attempts.
const MaxBackoff = 30 * time.Second

// RetryChecker checks a target with up to MaxRetries+1 attempts. Any answer
// from the server ends the loop; only transport errors are retried.
type RetryChecker struct {
	Inner      Prober
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func NewRetryChecker(inner Prober, timeout time.Duration, maxRetries int, backoff time.Duration) *RetryChecker {
	return &RetryChecker{
		Inner:      inner,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		Backoff:    backoff,
	}
}

// Check runs the retry loop for t. ctx is polled before every attempt; an
// attempt already in flight is never interrupted by ctx and ends on its own
// timeout.
func (r *RetryChecker) Check(ctx context.Context, t domain.Target) domain.CheckResult {
	timeout, maxRetries := r.policy(t.Policy)

	var (
		attempts int
		status   int
		lastErr  error
		outcome  error
	)
	start := time.Now()
	for attempts <= maxRetries {
		if ctx.Err() != nil {
			outcome = &domain.CanceledError{Attempts: attempts, Err: lastErr}
			break
		}
		attempts++
		code, err := r.Inner.Probe(context.WithoutCancel(ctx), t.URL, timeout)
		if err == nil {
			status = code
			break
		}
		lastErr = err
		if attempts > maxRetries {
			outcome = &domain.TransportError{Attempts: attempts, Err: err}
			break
		}
		r.wait(ctx)
	}
	elapsed := time.Since(start)

	return domain.CheckResult{
		URL:        t.URL,
		StatusCode: status,
		Err:        outcome,
		Attempts:   attempts,
		Elapsed:    elapsed,
		Timestamp:  time.Now().UTC(),
	}
}

func (r *RetryChecker) policy(p domain.Policy) (time.Duration, int) {
	timeout := r.Timeout
	if p.Timeout > 0 {
		timeout = p.Timeout
	}
	maxRetries := r.MaxRetries
	if p.MaxRetries != nil && *p.MaxRetries >= 0 {
		maxRetries = *p.MaxRetries
	}
	return timeout, maxRetries
}

// wait sleeps for the backoff or until ctx is done.
func (r *RetryChecker) wait(ctx context.Context) {
	d := min(r.Backoff, MaxBackoff)
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
