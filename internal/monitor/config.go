package monitor

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

// Config holds the settings shared read-only by every worker of a run.
type Config struct {
	Workers      int           // concurrent workers
	Timeout      time.Duration // per-attempt HTTP timeout
	MaxRetries   int           // attempts after the first failure
	RetryBackoff time.Duration // delay between attempts, 0 disables
}

// Validate returns a *domain.ConfigError listing every violated constraint.
func (c Config) Validate() error {
	var err error
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be > 0, got %s", c.Timeout))
	}
	if c.MaxRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries))
	}
	if c.RetryBackoff < 0 || c.RetryBackoff > probe.MaxBackoff {
		err = multierr.Append(err, fmt.Errorf("retry_backoff must be within [0, %s], got %s", probe.MaxBackoff, c.RetryBackoff))
	}
	if err != nil {
		return &domain.ConfigError{Err: err}
	}
	return nil
}

// IsConfigError reports whether err is (or wraps) a *domain.ConfigError.
func IsConfigError(err error) bool {
	var ce *domain.ConfigError
	return errors.As(err, &ce)
}
