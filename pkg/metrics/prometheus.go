// Package metrics provides Prometheus metrics for the engagement service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default histogram buckets, in milliseconds.
var (
	defaultRequestBuckets  = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults
	defaultDeliveryBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 50, 250}   //nolint:gochecknoglobals // read-only defaults
)

// Manager manages all Prometheus metrics for the engagement service.
type Manager struct {
	namespace       string
	subsystem       string
	requestBuckets  []float64
	deliveryBuckets []float64
	constLabels     prometheus.Labels
	metricPrefix    string
	registry        prometheus.Registerer

	// Engagement
	pointsAwarded    prometheus.Counter
	pointAwards      prometheus.Counter
	tierPromotions   *prometheus.CounterVec
	completions      *prometheus.CounterVec
	challengeClaims  *prometheus.CounterVec
	eventSwitches    prometheus.Counter
	activeSessions   prometheus.Gauge
	engagementErrors *prometheus.CounterVec

	// Leads and draws
	leadsCaptured *prometheus.CounterVec
	leadUpdates   prometheus.Counter
	leadsTotal    prometheus.Gauge
	draws         *prometheus.CounterVec

	// Notification delivery
	notificationsEnqueued  *prometheus.CounterVec
	notificationsDropped   *prometheus.CounterVec
	notificationsDelivered *prometheus.CounterVec
	deliveryErrors         *prometheus.CounterVec
	deliveryLatency        prometheus.Histogram
	queueSize              *prometheus.GaugeVec
	queueCapacity          *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "engage",
		subsystem:       "engine",
		requestBuckets:  defaultRequestBuckets,
		deliveryBuckets: defaultDeliveryBuckets,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.constLabels, Buckets: m.requestBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.pointsAwarded = m.counter("points_awarded_total", "Total points awarded across all users")
	m.pointAwards = m.counter("point_awards_total", "Number of successful point awards")
	m.tierPromotions = m.counterVec("tier_promotions_total", "Tier promotions by destination tier", "tier")
	m.completions = m.counterVec("completions_total", "Completion attempts by ledger category and result", "category", "result")
	m.challengeClaims = m.counterVec("challenge_claims_total", "Challenge claim attempts by result", "result")
	m.eventSwitches = m.counter("event_switches_total", "Number of event switches")
	m.activeSessions = m.gauge("active_sessions", "Signed-in sessions currently held by the service")
	m.engagementErrors = m.counterVec("engagement_errors_total", "Rejected engagement mutations by reason", "reason")

	m.leadsCaptured = m.counterVec("leads_captured_total", "Lead captures by result (created or updated)", "result")
	m.leadUpdates = m.counter("lead_updates_total", "Lead field updates")
	m.leadsTotal = m.gauge("leads_total", "Leads held across all sponsor sessions")
	m.draws = m.counterVec("draws_total", "Draw attempts by result", "result")

	m.notificationsEnqueued = m.counterVec("notifications_enqueued_total", "Notifications accepted for delivery by sink", "sink")
	m.notificationsDropped = m.counterVec("notifications_dropped_total", "Notifications dropped because a sink queue was full or closed", "sink")
	m.notificationsDelivered = m.counterVec("notifications_delivered_total", "Notifications delivered by sink and kind", "sink", "kind")
	m.deliveryErrors = m.counterVec("notification_delivery_errors_total", "Notification delivery failures by sink", "sink")
	m.deliveryLatency = m.histogram("notification_delivery_latency_milliseconds", "Time from emission to delivery in milliseconds", m.deliveryBuckets)
	m.queueSize = m.gaugeVec("notification_queue_size", "Pending notifications per sink queue", "sink")
	m.queueCapacity = m.gaugeVec("notification_queue_capacity", "Capacity of each sink queue", "sink")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of failed operations in milliseconds", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordPointsAwarded counts one award of amount points.
func RecordPointsAwarded(amount int) {
	globalManager.pointAwards.Inc()
	globalManager.pointsAwarded.Add(float64(amount))
}

// RecordTierPromotion counts a promotion into tier.
func RecordTierPromotion(tier string) {
	globalManager.tierPromotions.WithLabelValues(tier).Inc()
}

// RecordCompletion counts a completion attempt; result is "awarded" or "duplicate".
func RecordCompletion(category, result string) {
	globalManager.completions.WithLabelValues(category, result).Inc()
}

// RecordChallengeClaim counts a claim attempt; result is "awarded", "not_reached" or "already_claimed".
func RecordChallengeClaim(result string) {
	globalManager.challengeClaims.WithLabelValues(result).Inc()
}

// RecordEventSwitch counts an event switch.
func RecordEventSwitch() {
	globalManager.eventSwitches.Inc()
}

// UpdateActiveSessions sets the number of open sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordEngagementError counts a rejected mutation.
func RecordEngagementError(reason string) {
	globalManager.engagementErrors.WithLabelValues(reason).Inc()
}

// RecordLeadCaptured counts a capture; result is "created" or "updated".
func RecordLeadCaptured(result string) {
	globalManager.leadsCaptured.WithLabelValues(result).Inc()
}

// RecordLeadUpdate counts a lead field update.
func RecordLeadUpdate() {
	globalManager.leadUpdates.Inc()
}

// UpdateLeadsTotal sets the number of leads held by the service.
func UpdateLeadsTotal(count int) {
	globalManager.leadsTotal.Set(float64(count))
}

// RecordDraw counts a draw attempt; result is "won", "empty_pool" or "invalid_phase".
func RecordDraw(result string) {
	globalManager.draws.WithLabelValues(result).Inc()
}

// RecordNotificationEnqueued counts a notification accepted by sink's queue.
func RecordNotificationEnqueued(sink string) {
	globalManager.notificationsEnqueued.WithLabelValues(sink).Inc()
}

// RecordNotificationDropped counts a notification sink's queue refused.
func RecordNotificationDropped(sink string) {
	globalManager.notificationsDropped.WithLabelValues(sink).Inc()
}

// RecordNotificationDelivered counts a delivered notification.
func RecordNotificationDelivered(sink, kind string) {
	globalManager.notificationsDelivered.WithLabelValues(sink, kind).Inc()
}

// RecordDeliveryError counts a failed delivery.
func RecordDeliveryError(sink string) {
	globalManager.deliveryErrors.WithLabelValues(sink).Inc()
}

// RecordDeliveryLatency observes emission-to-delivery latency.
func RecordDeliveryLatency(latencyMs float64) {
	globalManager.deliveryLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the pending count of sink's queue.
func UpdateQueueSize(sink string, size int) {
	globalManager.queueSize.WithLabelValues(sink).Set(float64(size))
}

// UpdateQueueCapacity sets the capacity of sink's queue.
func UpdateQueueCapacity(sink string, capacity int) {
	globalManager.queueCapacity.WithLabelValues(sink).Set(float64(capacity))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom metrics registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
