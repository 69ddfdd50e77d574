package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Mailbox metrics
	WritesTotal   *prometheus.CounterVec
	ReadsTotal    *prometheus.CounterVec
	MessageBytes  prometheus.Histogram
	HandlesOpen   prometheus.Gauge
	EntriesStored prometheus.Gauge

	// Watcher metrics
	WatchersActive  prometheus.Gauge
	EventsDelivered prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	// A dedicated registry keeps construction re-entrant (tests build
	// more than one collector per process).
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		startTime: time.Now(),
		registry:  registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailslot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailslot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailslot_writes_total",
				Help: "Total number of store writes by outcome",
			},
			[]string{"outcome"},
		),
		ReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailslot_reads_total",
				Help: "Total number of store reads by outcome",
			},
			[]string{"outcome"},
		),
		MessageBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mailslot_message_bytes",
				Help:    "Size of stored messages in bytes",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
			},
		),
		HandlesOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailslot_handles_open",
				Help: "Number of open device handles",
			},
		),
		EntriesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailslot_entries_stored",
				Help: "Number of (slot, channel) entries in the store",
			},
		),

		WatchersActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailslot_watchers_active",
				Help: "Number of active watch connections",
			},
		),
		EventsDelivered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mailslot_watch_events_total",
				Help: "Total number of write events sent to watchers",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailslot_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Handler exposes the collector in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWrite records a store write and, on success, the message size
func (m *Metrics) RecordWrite(outcome string, bytes int) {
	m.WritesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.MessageBytes.Observe(float64(bytes))
	}
}

// RecordRead records a store read
func (m *Metrics) RecordRead(outcome string) {
	m.ReadsTotal.WithLabelValues(outcome).Inc()
}

// SetHandlesOpen sets the open handle gauge
func (m *Metrics) SetHandlesOpen(count int) {
	m.HandlesOpen.Set(float64(count))
}

// SetEntriesStored sets the stored entry gauge
func (m *Metrics) SetEntriesStored(count int) {
	m.EntriesStored.Set(float64(count))
}

// IncWatchers increments the watcher gauge
func (m *Metrics) IncWatchers() {
	m.WatchersActive.Inc()
}

// DecWatchers decrements the watcher gauge
func (m *Metrics) DecWatchers() {
	m.WatchersActive.Dec()
}

// IncEventsDelivered counts one event pushed to a watcher
func (m *Metrics) IncEventsDelivered() {
	m.EventsDelivered.Inc()
}
