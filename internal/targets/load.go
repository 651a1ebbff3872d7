package targets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Parse parses YAML target file content and validates every entry.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseList reads a plain URL list, one URL per line.
func ParseList(r io.Reader) (*File, error) {
	var f File
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f.Targets = append(f.Targets, Entry{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads one target file, choosing the format from its extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = Parse(data)
	default:
		f, err = ParseList(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadAll expands each pattern (doublestar syntax, e.g. "targets/**/*.yaml"),
// loads every matched file in lexical order and merges them: targets are
// concatenated, and settings from later files override earlier ones. All
// problems across all files are reported together.
func LoadAll(patterns []string) (*File, error) {
	var (
		paths []string
		errs  error
	)
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("pattern %q: %w", p, err))
			continue
		}
		if len(matches) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("no files match %q", p))
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	merged := &File{}
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		merged.merge(f)
	}
	if errs != nil {
		return nil, errs
	}
	return merged, nil
}

func (f *File) validate() error {
	var errs error
	if f.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("workers must be >= 0, got %d", f.Workers))
	}
	if f.MaxRetries != nil && *f.MaxRetries < 0 {
		errs = multierr.Append(errs, fmt.Errorf("max_retries must be >= 0, got %d", *f.MaxRetries))
	}
	for i, e := range f.Targets {
		if err := ValidateURL(e.URL); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("targets[%d]: %w", i, err))
		}
		if e.Timeout < 0 {
			errs = multierr.Append(errs, fmt.Errorf("targets[%d]: timeout must be >= 0", i))
		}
		if e.MaxRetries != nil && *e.MaxRetries < 0 {
			errs = multierr.Append(errs, fmt.Errorf("targets[%d]: max_retries must be >= 0", i))
		}
	}
	return errs
}
