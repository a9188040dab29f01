package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lustrousgorilla/cachex/core/metrics"
	"github.com/lustrousgorilla/cachex/core/worker"
)

// workerMetrics implements worker.WorkerMetrics using Prometheus.
type workerMetrics struct {
	messageDuration *prometheus.HistogramVec
	messagesTotal   *prometheus.CounterVec
	panicsTotal     *prometheus.CounterVec
	unhandledTotal  *prometheus.CounterVec
	mailboxDepth    *prometheus.GaugeVec
}

// NewWorkerMetrics creates a new Prometheus implementation of
// worker.WorkerMetrics registered with reg.
func NewWorkerMetrics(reg prometheus.Registerer) worker.WorkerMetrics {
	m := &workerMetrics{
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cachex_worker_message_duration_seconds",
			Help:    "Handler execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"mode", "name"}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachex_worker_messages_total",
			Help: "Total number of messages processed",
		}, []string{"mode", "name", "success"}),

		panicsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachex_worker_panics_total",
			Help: "Total number of handler panics",
		}, []string{"mode", "name"}),

		unhandledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachex_worker_unhandled_total",
			Help: "Total number of messages with no matching handler",
		}, []string{"mode", "name"}),

		mailboxDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cachex_worker_mailbox_depth",
			Help: "Current mailbox queue depth",
		}, []string{"worker_id"}),
	}

	reg.MustRegister(
		m.messageDuration,
		m.messagesTotal,
		m.panicsTotal,
		m.unhandledTotal,
		m.mailboxDepth,
	)

	return m
}

func (m *workerMetrics) MessageDuration(mode worker.Mode, name string) metrics.Timer {
	return newTimer(m.messageDuration.WithLabelValues(string(mode), name))
}

func (m *workerMetrics) MessageProcessed(mode worker.Mode, name string, success bool) {
	m.messagesTotal.WithLabelValues(string(mode), name, boolToStr(success)).Inc()
}

func (m *workerMetrics) MessagePanic(mode worker.Mode, name string) {
	m.panicsTotal.WithLabelValues(string(mode), name).Inc()
}

func (m *workerMetrics) Unhandled(mode worker.Mode, name string) {
	m.unhandledTotal.WithLabelValues(string(mode), name).Inc()
}

func (m *workerMetrics) MailboxDepth(workerID string, depth int) {
	m.mailboxDepth.WithLabelValues(workerID).Set(float64(depth))
}

var _ worker.WorkerMetrics = (*workerMetrics)(nil)
