package domain

import "time"

// ErrorKind identifies the broad category a classified failure belongs to.
type ErrorKind string

const (
	KindStore   ErrorKind = "store"   // backing document-store errors
	KindNetwork ErrorKind = "network" // fetch/transport failures
	KindImage   ErrorKind = "image"   // image resource load failures
	KindRuntime ErrorKind = "runtime" // recovered panics and other host errors
	KindUnknown ErrorKind = "unknown"
)

// Severity ranks how serious a classified failure is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ErrorReport is one recorded failure. Reports are owned by the monitor;
// sessions hold non-owning references to the same report ids.
type ErrorReport struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      ErrorKind      `json:"type"`
	Message   string         `json:"message"`
	Stack     string         `json:"stack,omitempty"`
	Severity  Severity       `json:"severity"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Resolved  bool           `json:"resolved"`
}

// ErrorSummary is a read-only projection over the monitor's recorded errors.
type ErrorSummary struct {
	TotalErrors      int               `json:"total_errors"`
	ErrorsByKind     map[ErrorKind]int `json:"errors_by_type"`
	ErrorsBySeverity map[Severity]int  `json:"errors_by_severity"`
	RecentErrors     int               `json:"recent_errors"`
	ErrorRate        float64           `json:"error_rate"`
}
