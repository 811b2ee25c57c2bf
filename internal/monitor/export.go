package monitor

import (
	"encoding/json"
	"time"

	"github.com/motorline/gateway/internal/core/domain"
)

// Export is the offline-inspection payload produced by ExportJSON.
type Export struct {
	Errors     []domain.ErrorReport      `json:"errors"`
	Sessions   []domain.Session          `json:"sessions"`
	Metrics    domain.PerformanceMetrics `json:"metrics"`
	ExportedAt time.Time                 `json:"exported_at"`
}

// ExportJSON serializes the monitor's full state for offline inspection.
func (m *Monitor) ExportJSON() ([]byte, error) {
	m.mu.Lock()
	export := Export{
		Errors:     make([]domain.ErrorReport, 0, len(m.errors)),
		Sessions:   make([]domain.Session, 0, len(m.sessions)),
		Metrics:    m.metricsLocked(),
		ExportedAt: m.now(),
	}
	for _, r := range m.errors {
		export.Errors = append(export.Errors, *r)
	}
	for _, s := range m.sessions {
		export.Sessions = append(export.Sessions, *s)
	}
	m.mu.Unlock()

	return json.MarshalIndent(export, "", "  ")
}

// Dashboard is the read-only surface a UI layer needs for live error counts.
type Dashboard struct {
	monitor *Monitor
}

// NewDashboard exposes the monitor's summary, metrics and subscription
// interface behind a narrow read-only view.
func (m *Monitor) NewDashboard() *Dashboard {
	return &Dashboard{monitor: m}
}

// Summary returns the current error summary.
func (d *Dashboard) Summary() domain.ErrorSummary {
	return d.monitor.GetErrorSummary()
}

// Metrics returns the current performance metrics.
func (d *Dashboard) Metrics() domain.PerformanceMetrics {
	return d.monitor.GetPerformanceMetrics()
}

// Subscribe registers for live updates; the returned function unsubscribes.
func (d *Dashboard) Subscribe(fn Subscriber) func() {
	return d.monitor.Subscribe(fn)
}
