// cmd/preflight/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	// Normalize and sanity-check lists (no spaces around commas).
	for _, name := range []string{"ADMIN_API_KEYS", "PUBLIC_API_KEYS", "ALLOWED_ORIGINS"} {
		if strings.Contains(os.Getenv(name), " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	cfg := config.FromEnv()

	if len(cfg.AdminAPIKeys) == 0 {
		fail("ADMIN_API_KEYS is empty (GET /api/config is open to everyone).")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; only admin keys can run checks.")
	}

	if err := cfg.Monitor().Validate(); err != nil {
		for _, e := range multierr.Errors(errors.Unwrap(err)) {
			warn(e.Error())
		}
		fail("run defaults are invalid (WORKERS, TIMEOUT_SECONDS, MAX_RETRIES, RETRY_BACKOFF_MS).")
	}
	ok(fmt.Sprintf("run defaults: %d workers, timeout %s, max retries %d, retry backoff %s",
		cfg.Workers, cfg.Timeout, cfg.MaxRetries, cfg.RetryBackoff))

	ok("ADDR=" + cfg.Addr)

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; every origin is allowed by CORS.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.PublicRPM == 0 {
		warn("PUBLIC_RPM=0 disables rate limiting on /api.")
	}

	ok("preflight passed")
}
