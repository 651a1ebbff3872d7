package monitor

import (
	"sync"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// aggregator is the fan-in point between workers and the single consumer.
// The results channel is closed once every registered producer is done.
type aggregator struct {
	results chan domain.CheckResult
	wg      sync.WaitGroup
	once    sync.Once
}

// newAggregator sizes the buffer to the number of expected results, so a
// producer never blocks on a slow consumer.
func newAggregator(expected int) *aggregator {
	return &aggregator{results: make(chan domain.CheckResult, expected)}
}

func (a *aggregator) register(n int) { a.wg.Add(n) }

func (a *aggregator) intake() chan<- domain.CheckResult { return a.results }

func (a *aggregator) producerDone() { a.wg.Done() }

// closeWhenDone closes the stream after the last producer finishes. It must
// be called after all producers are registered.
func (a *aggregator) closeWhenDone() {
	go func() {
		a.wg.Wait()
		a.once.Do(func() { close(a.results) })
	}()
}

// Results is drained by the consumer until it is closed.
func (a *aggregator) Results() <-chan domain.CheckResult { return a.results }
