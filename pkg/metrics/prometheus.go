// Package metrics provides Prometheus metrics for the EventPlayback engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Capture metrics
	eventsCaptured  *prometheus.CounterVec
	eventsCoalesced prometheus.Counter
	eventsDropped   prometheus.Counter
	recordings      prometheus.Counter
	recordingActive prometheus.Gauge

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge

	// Playback metrics
	playbacks       prometheus.Counter
	playbackPasses  prometheus.Counter
	actionsFired    *prometheus.CounterVec
	actionLatency   prometheus.Histogram
	synthesisErrors prometheus.Counter
	playbackActive  prometheus.Gauge

	// Store metrics
	macroSaves  prometheus.Counter
	macroLoads  prometheus.Counter
	storeErrors *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "eventplayback",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsCaptured = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_captured_total",
			Help:      "Total number of input events recorded, by kind",
		},
		[]string{"kind"},
	)

	m.eventsCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_coalesced_total",
		Help:      "Total number of mouse-move notifications dropped by coalescing",
	})

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Total number of notifications dropped because the capture queue was full",
	})

	m.recordings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recordings_total",
		Help:      "Total number of recording sessions started",
	})

	m.recordingActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recording_active",
		Help:      "Whether a recording session is currently active (0 or 1)",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capture_queue_size",
		Help:      "Current number of notifications waiting in the capture queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capture_queue_capacity",
		Help:      "Configured capacity of the capture queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capture_queue_utilization_ratio",
		Help:      "Capture queue utilization (size / capacity)",
	})

	m.playbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playbacks_total",
		Help:      "Total number of playback sessions started",
	})

	m.playbackPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_passes_total",
		Help:      "Total number of completed playback passes",
	})

	m.actionsFired = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "actions_fired_total",
			Help:      "Total number of synthesized input actions, by kind",
		},
		[]string{"kind"},
	)

	m.actionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "action_lag_milliseconds",
		Help:      "How far behind its target instant each action fired, in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.synthesisErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "synthesis_errors_total",
		Help:      "Total number of failed input synthesis attempts",
	})

	m.playbackActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "playback_active",
		Help:      "Whether a playback session is currently active (0 or 1)",
	})

	m.macroSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "macro_saves_total",
		Help:      "Total number of macros saved to disk",
	})

	m.macroLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "macro_loads_total",
		Help:      "Total number of macros loaded from disk",
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of macro store failures, by operation",
		},
		[]string{"operation"},
	)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers on the global manager.

// RecordEventCaptured increments the captured-event counter for a kind.
func RecordEventCaptured(kind string) { globalManager.eventsCaptured.WithLabelValues(kind).Inc() }

// RecordEventCoalesced increments the coalesced mouse-move counter.
func RecordEventCoalesced() { globalManager.eventsCoalesced.Inc() }

// RecordEventDropped increments the dropped-notification counter.
func RecordEventDropped() { globalManager.eventsDropped.Inc() }

// RecordRecordingStarted increments the recording session counter.
func RecordRecordingStarted() { globalManager.recordings.Inc() }

// UpdateRecordingActive sets the recording-active gauge.
func UpdateRecordingActive(active bool) {
	globalManager.recordingActive.Set(boolToGauge(active))
}

// UpdateQueueSize sets the capture queue size gauge.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the capture queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the capture queue utilization gauge.
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }

// RecordPlaybackStarted increments the playback session counter.
func RecordPlaybackStarted() { globalManager.playbacks.Inc() }

// RecordPlaybackPass increments the completed-pass counter.
func RecordPlaybackPass() { globalManager.playbackPasses.Inc() }

// RecordActionFired increments the synthesized-action counter for a kind.
func RecordActionFired(kind string) { globalManager.actionsFired.WithLabelValues(kind).Inc() }

// RecordActionLag observes how late an action fired, in milliseconds.
func RecordActionLag(ms float64) { globalManager.actionLatency.Observe(ms) }

// RecordSynthesisError increments the synthesis failure counter.
func RecordSynthesisError() { globalManager.synthesisErrors.Inc() }

// UpdatePlaybackActive sets the playback-active gauge.
func UpdatePlaybackActive(active bool) {
	globalManager.playbackActive.Set(boolToGauge(active))
}

// RecordMacroSaved increments the macro save counter.
func RecordMacroSaved() { globalManager.macroSaves.Inc() }

// RecordMacroLoaded increments the macro load counter.
func RecordMacroLoaded() { globalManager.macroLoads.Inc() }

// RecordStoreError increments the store failure counter for an operation.
func RecordStoreError(operation string) {
	globalManager.storeErrors.WithLabelValues(operation).Inc()
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
