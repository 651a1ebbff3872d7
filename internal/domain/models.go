package domain

import "time"

// Policy overrides the run-wide check settings for one target.
// Zero fields inherit the run configuration.
type Policy struct {
	Timeout    time.Duration `json:"timeout,omitempty"`
	MaxRetries *int          `json:"max_retries,omitempty"`
}

type Target struct {
	URL    string `json:"url"`
	Policy Policy `json:"policy,omitempty"`
}

// TargetsFromURLs wraps plain URLs in targets with the default policy.
func TargetsFromURLs(urls []string) []Target {
	out := make([]Target, 0, len(urls))
	for _, u := range urls {
		out = append(out, Target{URL: u})
	}
	return out
}

// URLs returns the URL of every target, in order.
func URLs(ts []Target) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.URL)
	}
	return out
}
