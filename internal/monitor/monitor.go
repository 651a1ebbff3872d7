// Package monitor runs availability checks over a list of targets with a
// fixed pool of workers and streams every result back to a single consumer.
package monitor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

type Monitor struct {
	cfg     Config
	checker probe.Checker
	log     *zap.Logger
}

// New validates cfg and builds a Monitor whose checks go through p with the
// retry budget of cfg. It fails with a *domain.ConfigError before anything runs.
func New(cfg Config, p probe.Prober, log *zap.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWithChecker(cfg, probe.NewRetryChecker(p, cfg.Timeout, cfg.MaxRetries, cfg.RetryBackoff), log)
}

// NewWithChecker is like New but uses c for every check. Only cfg.Workers
// drives the pool; the retry settings belong to c.
func NewWithChecker(cfg Config, c probe.Checker, log *zap.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{cfg: cfg, checker: c, log: log}, nil
}

func (m *Monitor) Config() Config { return m.cfg }

// Stream checks every target and calls emit once per result, in arrival
// order, from the calling goroutine. It returns after every worker has
// exited. If ctx is canceled before every target is checked, the unchecked
// ones are reported with a *domain.CanceledError and ctx.Err() is returned.
func (m *Monitor) Stream(ctx context.Context, targets []domain.Target, emit func(domain.CheckResult)) error {
	start := time.Now()
	m.log.Info("monitor_run_started",
		zap.Int("targets", len(targets)),
		zap.Int("workers", m.cfg.Workers),
		zap.Duration("timeout", m.cfg.Timeout),
		zap.Int("max_retries", m.cfg.MaxRetries),
	)

	agg := newAggregator(len(targets))
	m.spawn(ctx, targets, agg)

	var ok, failed, canceled int
	for r := range agg.Results() {
		var ce *domain.CanceledError
		if errors.As(r.Err, &ce) {
			canceled++
		}
		if r.OK() {
			ok++
		} else {
			failed++
		}
		m.log.Debug("check_completed",
			zap.String("url", r.URL),
			zap.Bool("ok", r.OK()),
			zap.Int("status", r.StatusCode),
			zap.Int("attempts", r.Attempts),
			zap.Duration("elapsed", r.Elapsed),
			zap.String("error_kind", domain.ErrorKind(r.Err)),
			zap.Error(r.Err),
		)
		if emit != nil {
			emit(r)
		}
	}

	m.log.Info("monitor_run_finished",
		zap.Int("total", ok+failed),
		zap.Int("ok", ok),
		zap.Int("failed", failed),
		zap.Int("canceled", canceled),
		zap.Duration("elapsed", time.Since(start)),
	)
	if canceled > 0 {
		return ctx.Err()
	}
	return nil
}

// Run is Stream collecting the results into a slice.
func (m *Monitor) Run(ctx context.Context, targets []domain.Target) ([]domain.CheckResult, error) {
	results := make([]domain.CheckResult, 0, len(targets))
	err := m.Stream(ctx, targets, func(r domain.CheckResult) {
		results = append(results, r)
	})
	return results, err
}

// Run checks urls once with cfg and returns every result in arrival order.
func Run(ctx context.Context, urls []string, cfg Config, p probe.Prober, log *zap.Logger) ([]domain.CheckResult, error) {
	m, err := New(cfg, p, log)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, domain.TargetsFromURLs(urls))
}
