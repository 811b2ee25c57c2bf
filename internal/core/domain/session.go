package domain

import "time"

// Session represents one monitored browsing session: an append-only trail of
// page views plus references to the errors reported while it was current.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	PageViews []string  `json:"page_views"`
	ErrorIDs  []string  `json:"error_ids"`
}

// Ended reports whether the session has been explicitly closed.
func (s *Session) Ended() bool {
	return !s.EndTime.IsZero()
}

// PerformanceMetrics holds the monitor's lightweight performance counters.
type PerformanceMetrics struct {
	PageLoadTime      time.Duration            `json:"page_load_time"`
	ResourceLoadTimes map[string]time.Duration `json:"resource_load_times"`
	APIResponseTimes  map[string]time.Duration `json:"api_response_times"`
	ErrorRate         float64                  `json:"error_rate"`
	UserSessions      int                      `json:"user_sessions"`
}
