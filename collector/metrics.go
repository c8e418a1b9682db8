package collector

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks pipeline counters. Prometheus counters feed the /metrics
// endpoint; the mirrored plain fields feed the /health JSON snapshot.
type Metrics struct {
	mu             sync.RWMutex
	startTime      time.Time
	notifications  int64
	matches        int64
	entriesWritten int64
	decodeFailures int64
	appendFailures int64
	reconnects     int64
	lastError      error
	lastErrorTime  time.Time

	registry *prometheus.Registry

	notificationsTotal  prometheus.Counter
	matchesTotal        prometheus.Counter
	entriesWrittenTotal prometheus.Counter
	decodeFailuresTotal prometheus.Counter
	appendFailuresTotal prometheus.Counter
	reconnectsTotal     prometheus.Counter
}

// NewMetrics creates a metrics instance with its own Prometheus registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		startTime: time.Now(),
		registry:  registry,

		notificationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_notifications_total",
			Help: "Total log notifications received from the feed",
		}),
		matchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_matches_total",
			Help: "Total recognized DEX program invocations",
		}),
		entriesWrittenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_entries_written_total",
			Help: "Total entries appended to the output store",
		}),
		decodeFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_decode_failures_total",
			Help: "Total program data lines that failed base64 decoding",
		}),
		appendFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_append_failures_total",
			Help: "Total entries that could not be appended to the store",
		}),
		reconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexlogs_reconnects_total",
			Help: "Total websocket reconnect attempts",
		}),
	}

	registry.MustRegister(
		m.notificationsTotal,
		m.matchesTotal,
		m.entriesWrittenTotal,
		m.decodeFailuresTotal,
		m.appendFailuresTotal,
		m.reconnectsTotal,
	)
	registry.MustRegister(prometheus.NewGoCollector())

	return m
}

// RecordNotification increments the notification counter.
func (m *Metrics) RecordNotification() {
	m.mu.Lock()
	m.notifications++
	m.mu.Unlock()
	m.notificationsTotal.Inc()
}

// RecordMatch increments the recognized-program counter.
func (m *Metrics) RecordMatch() {
	m.mu.Lock()
	m.matches++
	m.mu.Unlock()
	m.matchesTotal.Inc()
}

// RecordEntryWritten increments the persisted-entry counter.
func (m *Metrics) RecordEntryWritten() {
	m.mu.Lock()
	m.entriesWritten++
	m.mu.Unlock()
	m.entriesWrittenTotal.Inc()
}

// RecordDecodeFailure increments the payload decode failure counter.
func (m *Metrics) RecordDecodeFailure() {
	m.mu.Lock()
	m.decodeFailures++
	m.mu.Unlock()
	m.decodeFailuresTotal.Inc()
}

// RecordAppendFailure increments the store append failure counter.
func (m *Metrics) RecordAppendFailure(err error) {
	m.mu.Lock()
	m.appendFailures++
	m.lastError = err
	m.lastErrorTime = time.Now()
	m.mu.Unlock()
	m.appendFailuresTotal.Inc()
}

// RecordReconnect records a dropped connection and the error that caused it.
func (m *Metrics) RecordReconnect(err error) {
	m.mu.Lock()
	m.reconnects++
	m.lastError = err
	m.lastErrorTime = time.Now()
	m.mu.Unlock()
	m.reconnectsTotal.Inc()
}

// Stats is a point-in-time snapshot of the pipeline counters.
type Stats struct {
	Uptime         string `json:"uptime"`
	Notifications  int64  `json:"notifications"`
	Matches        int64  `json:"matches"`
	EntriesWritten int64  `json:"entries_written"`
	DecodeFailures int64  `json:"decode_failures"`
	AppendFailures int64  `json:"append_failures"`
	Reconnects     int64  `json:"reconnects"`
	LastError      string `json:"last_error,omitempty"`
	LastErrorTime  string `json:"last_error_time,omitempty"`
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{
		Uptime:         time.Since(m.startTime).String(),
		Notifications:  m.notifications,
		Matches:        m.matches,
		EntriesWritten: m.entriesWritten,
		DecodeFailures: m.decodeFailures,
		AppendFailures: m.appendFailures,
		Reconnects:     m.reconnects,
	}
	if m.lastError != nil {
		stats.LastError = m.lastError.Error()
		stats.LastErrorTime = m.lastErrorTime.Format(time.RFC3339)
	}
	return stats
}

// Handler returns the monitoring HTTP handler serving /metrics (Prometheus)
// and /health (JSON snapshot).
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := m.Snapshot()

		status := "healthy"
		m.mu.RLock()
		if m.lastError != nil && time.Since(m.lastErrorTime) < 5*time.Minute {
			status = "degraded"
		}
		m.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"stats":  stats,
		})
	})
	return mux
}
