package observability

import (
	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wx_reporter"

// Metrics holds the Prometheus counters, histograms, and gauges for the reporter.
type Metrics struct {
	TelegramsReceived prometheus.Counter
	TelegramsAccepted prometheus.Counter
	TelegramsRejected *prometheus.CounterVec // labels: reason
	ReadErrors        prometheus.Counter
	PipelineRunning   prometheus.Gauge

	ProcessingDuration  prometheus.Histogram
	LastObservationTime prometheus.Gauge

	// Delivery metrics.
	Deliveries       *prometheus.CounterVec   // labels: sink
	DeliveryErrors   *prometheus.CounterVec   // labels: sink
	DeliveryDuration *prometheus.HistogramVec // labels: sink
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		TelegramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegrams_received_total",
			Help:      help("Total telegram lines read from the serial port."),
		}),
		TelegramsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegrams_accepted_total",
			Help:      help("Total telegrams that passed validation."),
		}),
		TelegramsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegrams_rejected_total",
			Help:      help("Telegrams discarded, by rejection reason."),
		}, []string{"reason"}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      help("Total serial read failures."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 when the receive loop is active, 0 when shut down."),
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      help("Time from telegram receipt to the end of delivery."),
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LastObservationTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_observation_timestamp_seconds",
			Help:      help("Unix time of the last accepted observation."),
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      help("Successful observation deliveries by sink."),
		}, []string{"sink"}),
		DeliveryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_errors_total",
			Help:      help("Failed observation deliveries by sink."),
		}, []string{"sink"}),
		DeliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      help("Observation delivery duration by sink."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"sink"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	// Pre-create every reason so dashboards see zeroes instead of gaps.
	for _, r := range domain.Reasons() {
		m.TelegramsRejected.WithLabelValues(r.String())
	}

	prometheus.MustRegister(
		m.TelegramsReceived,
		m.TelegramsAccepted,
		m.TelegramsRejected,
		m.ReadErrors,
		m.PipelineRunning,
		m.ProcessingDuration,
		m.LastObservationTime,
		m.Deliveries,
		m.DeliveryErrors,
		m.DeliveryDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
