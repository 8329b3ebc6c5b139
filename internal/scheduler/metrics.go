package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors that report sweep activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sweepDuration    prometheus.Histogram
	triggered        prometheus.Counter
	delivered        *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	pending          prometheus.Gauge
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Registration errors panic, mirroring promauto.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "reminders",
			Name:      "sweep_duration_seconds",
			Help:      "Time spent in one reminder sweep including notifier calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		triggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "reminders",
			Name:      "triggered_total",
			Help:      "Total number of reminders fired by the sweep.",
		}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "reminders",
			Name:      "deliveries_total",
			Help:      "Successful notifier deliveries by sink.",
		}, []string{"sink"}),
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "reminders",
			Name:      "delivery_failures_total",
			Help:      "Failed notifier deliveries by sink and reason.",
		}, []string{"sink", "reason"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "assistant",
			Subsystem: "reminders",
			Name:      "pending",
			Help:      "Reminders waiting for their target time.",
		}),
	}

	reg.MustRegister(m.sweepDuration, m.triggered, m.delivered, m.deliveryFailures, m.pending)
	return m
}

// ObserveSweep records the duration of one tick.
func (m *Metrics) ObserveSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(d.Seconds())
}

// IncTriggered counts one fired reminder.
func (m *Metrics) IncTriggered() {
	if m == nil {
		return
	}
	m.triggered.Inc()
}

// IncDelivered counts a successful delivery to sink.
func (m *Metrics) IncDelivered(sink string) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(sink).Inc()
}

// IncDeliveryFailure counts a failed delivery to sink.
func (m *Metrics) IncDeliveryFailure(sink, reason string) {
	if m == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(sink, reason).Inc()
}

// SetPending updates the pending gauge.
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
