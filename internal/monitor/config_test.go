package monitor

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func TestConfig_ValidateOK(t *testing.T) {
	cfg := Config{Workers: 4, Timeout: 5 * time.Second, MaxRetries: 0, RetryBackoff: 100 * time.Millisecond}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_ValidateReportsEveryViolation(t *testing.T) {
	cfg := Config{Workers: 0, Timeout: 0, MaxRetries: -1, RetryBackoff: time.Hour}
	err := cfg.Validate()
	if !IsConfigError(err) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if n := len(multierr.Errors(errorsUnwrap(err))); n != 4 {
		t.Fatalf("want 4 violations, got %d: %v", n, err)
	}
	for _, field := range []string{"workers", "timeout", "max_retries", "retry_backoff"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("message %q does not mention %s", err, field)
		}
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	m, err := New(Config{Workers: 1}, newScripted(nil), nil)
	if m != nil || !IsConfigError(err) {
		t.Fatalf("want nil monitor and ConfigError, got %v %v", m, err)
	}
}

func errorsUnwrap(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return err
}
