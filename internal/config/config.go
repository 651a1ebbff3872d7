package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/sitecheck/internal/monitor"
)

type Config struct {
	Addr     string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string // logs directory
	LogLevel string // debug | info | warn | error

	// Check run defaults
	Workers      int
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// API surface
	PublicAPIKeys     []string
	AdminAPIKeys      []string
	AllowedOrigins    []string
	PublicRPM         int
	PublicBurst       int
	MaxURLsPerRequest int
	MaxRetriesLimit   int // upper bound for max_retries in a request
	MaxTimeoutSeconds int // upper bound for timeout_seconds in a request
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Addr:     addr,
		LogDir:   logDir,
		LogLevel: logLevel,

		Workers:      intEnv("WORKERS", 4, 1),
		Timeout:      time.Duration(intEnv("TIMEOUT_SECONDS", 5, 1)) * time.Second,
		MaxRetries:   intEnv("MAX_RETRIES", 2, 0),
		RetryBackoff: time.Duration(intEnv("RETRY_BACKOFF_MS", 0, 0)) * time.Millisecond,

		PublicAPIKeys:     listEnv("PUBLIC_API_KEYS"),
		AdminAPIKeys:      listEnv("ADMIN_API_KEYS"),
		AllowedOrigins:    listEnv("ALLOWED_ORIGINS"),
		PublicRPM:         intEnv("PUBLIC_RPM", 120, 0),
		PublicBurst:       intEnv("PUBLIC_BURST", 60, 1),
		MaxURLsPerRequest: intEnv("MAX_URLS_PER_REQUEST", 500, 1),
		MaxRetriesLimit:   intEnv("MAX_RETRIES_LIMIT", 10, 0),
		MaxTimeoutSeconds: intEnv("MAX_TIMEOUT_SECONDS", 60, 1),
	}
}

// Monitor returns the run defaults as a monitor configuration.
func (c Config) Monitor() monitor.Config {
	return monitor.Config{
		Workers:      c.Workers,
		Timeout:      c.Timeout,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
	}
}

// intEnv parses key as an int; missing or invalid values (below floor) fall
// back to def.
func intEnv(key string, def, floor int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < floor {
		return def
	}
	return n
}

// listEnv splits a comma-separated value, dropping empty items.
func listEnv(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
