// Package monitor records classified failures and session activity for the
// gateway, and exposes summaries for dashboards.
package monitor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/motorline/gateway/internal/core/domain"
)

// recentWindow is the trailing window used for the rolling error rate.
const recentWindow = 24 * time.Hour

// Snapshot is handed to subscribers after every recorded error.
type Snapshot struct {
	Summary   domain.ErrorSummary       `json:"summary"`
	Metrics   domain.PerformanceMetrics `json:"metrics"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Subscriber receives a snapshot after each recorded error.
type Subscriber func(Snapshot)

type subscription struct {
	id int
	fn Subscriber
}

// Monitor is the process-wide telemetry sink. It owns the error and session
// lists; all mutation goes through its methods, serialized by a mutex.
type Monitor struct {
	mu       sync.Mutex
	log      *slog.Logger
	now      func() time.Time
	errors   []*domain.ErrorReport
	sessions []*domain.Session
	current  *domain.Session

	pageLoadTime      time.Duration
	resourceLoadTimes map[string]time.Duration
	apiResponseTimes  map[string]time.Duration
	errorRate         float64

	subs   []subscription
	nextID int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the monitor's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Monitor) { m.log = log }
}

// WithClock overrides the monitor's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a Monitor. Construct one per process and inject it; the monitor
// holds no hidden global state.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		log:               slog.Default(),
		now:               time.Now,
		resourceLoadTimes: make(map[string]time.Duration),
		apiResponseTimes:  make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartSession begins a new session and makes it current. A previous current
// session stays in history with its end time unset unless explicitly ended.
func (m *Monitor) StartSession() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &domain.Session{
		ID:        uuid.New().String(),
		StartTime: m.now(),
	}
	m.sessions = append(m.sessions, s)
	m.current = s
	SessionsStarted.Inc()
	return s
}

// EndSession closes the current session. Further errors and page views are
// recorded globally but no longer associated with it.
func (m *Monitor) EndSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.current.EndTime = m.now()
	m.current = nil
}

// ReportError records a failure. The report's id, timestamp and resolved flag
// are assigned here; the caller fills kind, message, severity and metadata.
// Subscribers are notified synchronously after the report is stored.
func (m *Monitor) ReportError(report domain.ErrorReport) string {
	m.mu.Lock()

	report.ID = uuid.New().String()
	report.Timestamp = m.now()
	report.Resolved = false
	if report.Kind == "" {
		report.Kind = domain.KindUnknown
	}
	if report.Severity == "" {
		report.Severity = domain.SeverityHigh
	}
	if m.current != nil && !m.current.Ended() {
		report.SessionID = m.current.ID
		if report.UserID == "" {
			report.UserID = m.current.UserID
		}
		m.current.ErrorIDs = append(m.current.ErrorIDs, report.ID)
	}
	m.errors = append(m.errors, &report)
	m.recomputeErrorRate()

	ErrorsTotal.WithLabelValues(string(report.Kind), string(report.Severity)).Inc()

	snap := m.snapshotLocked()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// Notify outside the lock so callbacks may call back into the monitor,
	// including unsubscribing themselves.
	for _, s := range subs {
		s.fn(snap)
	}
	return report.ID
}

// ResolveError marks the report with the given id resolved. Reports whether a
// matching report was found.
func (m *Monitor) ResolveError(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.errors {
		if r.ID == id {
			r.Resolved = true
			return true
		}
	}
	return false
}

// ClearErrors empties the global error list and the current session's error
// references, and resets the rolling error rate.
func (m *Monitor) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = nil
	if m.current != nil {
		m.current.ErrorIDs = nil
	}
	m.recomputeErrorRate()
}

// TrackPageView appends a path to the current session's page-view trail.
func (m *Monitor) TrackPageView(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Ended() {
		return
	}
	m.current.PageViews = append(m.current.PageViews, path)
}

// RecordAPIResponse stores the latest duration observed for an endpoint.
func (m *Monitor) RecordAPIResponse(url string, duration time.Duration, status int) {
	m.mu.Lock()
	m.apiResponseTimes[url] = duration
	m.mu.Unlock()

	APIRequestDuration.WithLabelValues(url).Observe(duration.Seconds())
}

// RecordPageLoad stores the page load duration.
func (m *Monitor) RecordPageLoad(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageLoadTime = duration
}

// RecordResourceLoad stores the latest load duration for a named resource.
func (m *Monitor) RecordResourceLoad(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resourceLoadTimes[name] = duration
}

// SetUser attributes the current session and all unattributed prior reports
// to the given user. Already-attributed reports are left untouched: the first
// writer wins.
func (m *Monitor) SetUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.UserID == "" {
		m.current.UserID = userID
	}
	for _, r := range m.errors {
		if r.UserID == "" {
			r.UserID = userID
		}
	}
}

// GetErrorSummary returns a projection over the recorded errors. It has no
// side effects.
func (m *Monitor) GetErrorSummary() domain.ErrorSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaryLocked()
}

// GetPerformanceMetrics returns the current performance counters.
func (m *Monitor) GetPerformanceMetrics() domain.PerformanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metricsLocked()
}

// Subscribe registers a callback invoked after every recorded error. The
// returned function removes the subscription and is safe to call from within
// the callback itself.
func (m *Monitor) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// recomputeErrorRate recalculates the rolling rate: errors within the
// trailing window divided by the session count. Errors are appended in time
// order, so the scan walks back from the tail only as far as the window.
func (m *Monitor) recomputeErrorRate() {
	cutoff := m.now().Add(-recentWindow)
	recent := 0
	for i := len(m.errors) - 1; i >= 0; i-- {
		if m.errors[i].Timestamp.Before(cutoff) {
			break
		}
		recent++
	}
	sessions := len(m.sessions)
	if sessions < 1 {
		sessions = 1
	}
	m.errorRate = float64(recent) / float64(sessions)
}

func (m *Monitor) summaryLocked() domain.ErrorSummary {
	summary := domain.ErrorSummary{
		TotalErrors:      len(m.errors),
		ErrorsByKind:     make(map[domain.ErrorKind]int),
		ErrorsBySeverity: make(map[domain.Severity]int),
		ErrorRate:        m.errorRate,
	}
	cutoff := m.now().Add(-recentWindow)
	for _, r := range m.errors {
		summary.ErrorsByKind[r.Kind]++
		summary.ErrorsBySeverity[r.Severity]++
		if !r.Timestamp.Before(cutoff) {
			summary.RecentErrors++
		}
	}
	return summary
}

func (m *Monitor) metricsLocked() domain.PerformanceMetrics {
	resources := make(map[string]time.Duration, len(m.resourceLoadTimes))
	for k, v := range m.resourceLoadTimes {
		resources[k] = v
	}
	apis := make(map[string]time.Duration, len(m.apiResponseTimes))
	for k, v := range m.apiResponseTimes {
		apis[k] = v
	}
	return domain.PerformanceMetrics{
		PageLoadTime:      m.pageLoadTime,
		ResourceLoadTimes: resources,
		APIResponseTimes:  apis,
		ErrorRate:         m.errorRate,
		UserSessions:      len(m.sessions),
	}
}

func (m *Monitor) snapshotLocked() Snapshot {
	return Snapshot{
		Summary:   m.summaryLocked(),
		Metrics:   m.metricsLocked(),
		Timestamp: m.now(),
	}
}
