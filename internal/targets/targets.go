// Package targets loads the list of URLs to check, and optional run
// settings, from target files.
//
// Two formats are understood. YAML files (.yaml, .yml):
//
//	workers: 4
//	timeout: 5s
//	max_retries: 2
//	retry_backoff: 250ms
//	targets:
//	  - https://example.com
//	  - url: https://slow.example.com
//	    timeout: 10s
//	    max_retries: 3
//
// Any other file is a plain list with one URL per line; blank lines and lines
// starting with # are ignored.
package targets

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/monitor"
)

// File is the parsed content of one or more target files.
type File struct {
	// Workers is the number of concurrent workers. Zero leaves the caller's
	// default in place.
	Workers int `yaml:"workers"`

	// Timeout bounds a single HTTP attempt. Accepts duration strings like
	// "5s" or "750ms".
	Timeout Duration `yaml:"timeout"`

	// MaxRetries is the number of attempts after the first failure. A pointer
	// so that an explicit 0 can override a non-zero default.
	MaxRetries *int `yaml:"max_retries"`

	// RetryBackoff is the delay between attempts.
	RetryBackoff Duration `yaml:"retry_backoff"`

	// Targets lists the URLs to check, in order.
	Targets []Entry `yaml:"targets"`
}

// Entry is one URL with its optional per-target policy.
//
// In YAML an entry is either a bare URL string or a mapping with url,
// timeout and max_retries keys.
type Entry struct {
	URL        string   `yaml:"url"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries *int     `yaml:"max_retries"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Entry.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.URL)
	case yaml.MappingNode:
		// temporary type to avoid infinite recursion
		type raw Entry
		var r raw
		if err := node.Decode(&r); err != nil {
			return err
		}
		*e = Entry(r)
		return nil
	default:
		return fmt.Errorf("line %d: target must be a URL string or a mapping", node.Line)
	}
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Apply overlays the settings present in f on base.
func (f *File) Apply(base monitor.Config) monitor.Config {
	if f.Workers != 0 {
		base.Workers = f.Workers
	}
	if f.Timeout != 0 {
		base.Timeout = f.Timeout.Duration()
	}
	if f.MaxRetries != nil {
		base.MaxRetries = *f.MaxRetries
	}
	if f.RetryBackoff != 0 {
		base.RetryBackoff = f.RetryBackoff.Duration()
	}
	return base
}

// DomainTargets converts the entries into check targets.
func (f *File) DomainTargets() []domain.Target {
	out := make([]domain.Target, 0, len(f.Targets))
	for _, e := range f.Targets {
		out = append(out, domain.Target{
			URL: e.URL,
			Policy: domain.Policy{
				Timeout:    e.Timeout.Duration(),
				MaxRetries: e.MaxRetries,
			},
		})
	}
	return out
}

// merge appends other's targets to f; settings present in other win.
func (f *File) merge(other *File) {
	if other.Workers != 0 {
		f.Workers = other.Workers
	}
	if other.Timeout != 0 {
		f.Timeout = other.Timeout
	}
	if other.MaxRetries != nil {
		f.MaxRetries = other.MaxRetries
	}
	if other.RetryBackoff != 0 {
		f.RetryBackoff = other.RetryBackoff
	}
	f.Targets = append(f.Targets, other.Targets...)
}

// ValidateURL accepts absolute http and https URLs with a host. The URL is
// not normalized.
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.New("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}
