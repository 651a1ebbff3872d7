package domain

import (
	"fmt"
	"time"
)

// CheckResult is the outcome of checking one URL.
//
// Exactly one of StatusCode and Err is meaningful: a nil Err means the URL
// answered with StatusCode (any code, 404 included); a non-nil Err means no
// response was obtained.
type CheckResult struct {
	URL        string
	StatusCode int
	Err        error
	Attempts   int
	Elapsed    time.Duration
	Timestamp  time.Time
}

func (r CheckResult) OK() bool { return r.Err == nil }

// String renders the result as a single report line.
func (r CheckResult) String() string {
	ts := r.Timestamp.UTC().Format(time.RFC3339Nano)
	if r.Err != nil {
		return fmt.Sprintf("Website: %s, Error: %s, Response Time: %s, Timestamp: %s",
			r.URL, r.Err, r.Elapsed, ts)
	}
	return fmt.Sprintf("Website: %s, Status Code: %d, Response Time: %s, Timestamp: %s",
		r.URL, r.StatusCode, r.Elapsed, ts)
}
