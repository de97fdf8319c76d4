package metrics

import (
	"maps"

	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics ("engage" by default).
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics ("engine" by default).
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithRequestBuckets sets the millisecond buckets of the HTTP request and
// error latency histograms.
func WithRequestBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.requestBuckets = buckets
		}
	}
}

// WithDeliveryBuckets sets the millisecond buckets of the notification
// delivery latency histogram. Delivery is in-process, so the defaults start
// well below a millisecond.
func WithDeliveryBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.deliveryBuckets = buckets
		}
	}
}

// WithConstLabel adds a constant label, such as the deployment or venue,
// to every metric.
func WithConstLabel(name, value string) Option {
	return func(m *Manager) {
		if name == "" {
			return
		}
		labels := maps.Clone(m.constLabels)
		if labels == nil {
			labels = prometheus.Labels{}
		}
		labels[name] = value
		m.constLabels = labels
	}
}

// WithMetricPrefix sets a custom prefix for metric names.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
