package monitor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

// span is the half-open index range [lo, hi) of the targets owned by one worker.
type span struct{ lo, hi int }

// partition splits n items into k contiguous spans whose sizes differ by at
// most one; the first n%k spans carry the extra item. With k > n the trailing
// spans are empty.
func partition(n, k int) []span {
	spans := make([]span, k)
	size, extra := n/k, n%k
	lo := 0
	for i := range spans {
		hi := lo + size
		if i < extra {
			hi++
		}
		spans[i] = span{lo: lo, hi: hi}
		lo = hi
	}
	return spans
}

type worker struct {
	id      int
	checker probe.Checker
	log     *zap.Logger
	out     chan<- domain.CheckResult
}

// run checks chunk in order and sends every result as soon as it exists.
// A panic turns the current and all remaining targets into abort results.
func (w *worker) run(ctx context.Context, chunk []domain.Target) {
	done := 0
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		correlationID := uuid.NewString()
		w.log.Error("worker_aborted",
			zap.Int("worker", w.id),
			zap.String("correlation_id", correlationID),
			zap.String("url", chunk[done].URL),
			zap.Int("unchecked", len(chunk)-done),
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.ByteString("stack", debug.Stack()),
		)
		abort := &domain.WorkerAbortError{CorrelationID: correlationID}
		now := time.Now().UTC()
		for _, t := range chunk[done:] {
			w.out <- domain.CheckResult{URL: t.URL, Err: abort, Timestamp: now}
		}
	}()

	for _, t := range chunk {
		var res domain.CheckResult
		if ctx.Err() != nil {
			res = domain.CheckResult{URL: t.URL, Err: &domain.CanceledError{}, Timestamp: time.Now().UTC()}
		} else {
			res = w.checker.Check(ctx, t)
		}
		w.out <- res
		done++
	}
}

// spawn starts one goroutine per non-empty span of targets and arranges for
// the aggregator to close once they have all returned. Workers beyond the
// number of targets would get an empty span, so they are never started.
func (m *Monitor) spawn(ctx context.Context, targets []domain.Target, agg *aggregator) {
	var spans []span
	if k := min(m.cfg.Workers, len(targets)); k > 0 {
		spans = partition(len(targets), k)
	}
	agg.register(len(spans))
	for i, s := range spans {
		w := &worker{id: i, checker: m.checker, log: m.log, out: agg.intake()}
		chunk := targets[s.lo:s.hi]
		go func() {
			defer agg.producerDone()
			w.run(ctx, chunk)
		}()
	}
	agg.closeWhenDone()
}
