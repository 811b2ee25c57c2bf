package domain

import "time"

// RetryPolicy configures the retry executor. Delay for attempt n (1-indexed)
// is RetryDelay * n: linearly increasing, bounded by MaxRetries extra
// attempts beyond the first.
type RetryPolicy struct {
	MaxRetries      int
	RetryDelay      time.Duration
	FallbackEnabled bool
}

// DefaultRetryPolicy provides sensible defaults.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	RetryDelay:      1 * time.Second,
	FallbackEnabled: true,
}

// OperationContext describes one logical operation invocation. It is built by
// the caller immediately before handing work to the executor and is read-only
// for the classifier and the monitor.
type OperationContext struct {
	OperationName string
	UserID        string
	Metadata      map[string]any
	Timestamp     time.Time
}

// NewOperationContext creates a context for a named operation.
func NewOperationContext(name string) OperationContext {
	return OperationContext{
		OperationName: name,
		Timestamp:     time.Now(),
	}
}
