package retry

// Outcome distinguishes a genuine success from a degraded one.
type Outcome int

const (
	// OutcomeOK means the wrapped operation itself succeeded.
	OutcomeOK Outcome = iota
	// OutcomeRecovered means the operation failed but substitute data was
	// returned in its place.
	OutcomeRecovered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Result is the outcome of one executed operation.
type Result struct {
	Value    any
	Outcome  Outcome
	Attempts int
}

// Recovered reports whether the value is fallback data rather than the
// operation's own result.
func (r Result) Recovered() bool {
	return r.Outcome == OutcomeRecovered
}

// UserFacingError is the only error shape Execute surfaces for classified
// failures: a short localized message, never the raw internal error.
type UserFacingError struct {
	Code    string // normalized taxonomy code, empty if unmapped
	Message string
}

func (e *UserFacingError) Error() string {
	return e.Message
}
