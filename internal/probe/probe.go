package probe

import (
	"context"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Prober performs a single request attempt against target.
//
// A returned status code means the server answered, whatever the code. An
// error means no response was obtained (connection, DNS or timeout failure)
// and the attempt may be retried.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) (int, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, target string, timeout time.Duration) (int, error)

func (f ProberFunc) Probe(ctx context.Context, target string, timeout time.Duration) (int, error) {
	return f(ctx, target, timeout)
}

// Checker performs a complete check of a target, retries included.
type Checker interface {
	Check(ctx context.Context, t domain.Target) domain.CheckResult
}
