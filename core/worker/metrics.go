package worker

import "github.com/lustrousgorilla/cachex/core/metrics"

// WorkerMetrics defines the instrumentation hooks of the dispatch core.
// All methods are thread-safe.
type WorkerMetrics interface {
	// Message handling
	MessageDuration(mode Mode, name string) metrics.Timer
	MessageProcessed(mode Mode, name string, success bool)
	MessagePanic(mode Mode, name string)

	// Dispatch misses
	Unhandled(mode Mode, name string)

	// Mailbox
	MailboxDepth(workerID string, depth int)
}

// nopWorkerMetrics is a no-op implementation of WorkerMetrics.
type nopWorkerMetrics struct{}

func (nopWorkerMetrics) MessageDuration(Mode, string) metrics.Timer { return metrics.NopTimer() }
func (nopWorkerMetrics) MessageProcessed(Mode, string, bool)        {}
func (nopWorkerMetrics) MessagePanic(Mode, string)                  {}

func (nopWorkerMetrics) Unhandled(Mode, string) {}

func (nopWorkerMetrics) MailboxDepth(string, int) {}

// NopWorkerMetrics returns a no-op WorkerMetrics implementation.
func NopWorkerMetrics() WorkerMetrics { return nopWorkerMetrics{} }
