// Package retry wraps asynchronous operations with the gateway's resilience
// policy: classify failures, retry with linearly increasing backoff, degrade
// to fallback data, or surface a user-facing error.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/monitor"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

// Operation is one retryable unit of work. Operations must be idempotent
// enough to run more than once; wrap non-idempotent work only if at-least-once
// semantics are acceptable.
type Operation func(ctx context.Context) (any, error)

// Reporter is the telemetry sink for classified failures. Satisfied by
// *monitor.Monitor.
type Reporter interface {
	ReportError(report domain.ErrorReport) string
}

// Fallbacks resolves substitute data when an operation cannot succeed.
// Satisfied by *fallback.Provider.
type Fallbacks interface {
	Lookup(ctx context.Context, operation string) (any, bool)
	ForEntry(ctx context.Context, entry taxonomy.Entry, operation string) any
}

// Executor runs operations under a retry policy. It is stateless across
// invocations and safe for concurrent use.
type Executor struct {
	policy    domain.RetryPolicy
	fallbacks Fallbacks
	reporter  Reporter
	log       *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithSleeper overrides the backoff sleep, used by tests to observe delays
// without waiting them out.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// NewExecutor creates an Executor. fallbacks may be nil to disable data
// substitution regardless of policy.
func NewExecutor(policy domain.RetryPolicy, fallbacks Fallbacks, reporter Reporter, opts ...Option) *Executor {
	e := &Executor{
		policy:    policy,
		fallbacks: fallbacks,
		reporter:  reporter,
		log:       slog.Default(),
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs op under the executor's policy. The operation is invoked at
// most MaxRetries+1 times. Every failed attempt is classified and reported
// exactly once. When the budget is exhausted, or the failure is not
// retryable, the executor consults the fallback provider; if substitute data
// exists the call resolves as recovered. Otherwise it fails with a
// *UserFacingError carrying only the taxonomy's user message.
//
// Cancelling ctx aborts a pending backoff sleep and returns ctx.Err()
// immediately.
func (e *Executor) Execute(ctx context.Context, opCtx domain.OperationContext, op Operation) (Result, error) {
	remaining := e.policy.MaxRetries
	attempts := 0

	for {
		attempts++
		value, err := op(ctx)
		if err == nil {
			return Result{Value: value, Outcome: OutcomeOK, Attempts: attempts}, nil
		}

		cls := taxonomy.Categorize(err)
		e.report(opCtx, cls, err, attempts)

		if cls.Retryable && remaining > 0 {
			// Linear backoff: delay grows with the attempt number.
			step := e.policy.MaxRetries - remaining + 1
			delay := e.policy.RetryDelay * time.Duration(step)
			remaining--

			monitor.RetriesTotal.WithLabelValues(opCtx.OperationName).Inc()
			e.log.Debug("Retrying operation",
				"operation", opCtx.OperationName,
				"attempt", attempts,
				"delay", delay,
				"error", err,
			)
			if err := e.sleep(ctx, delay); err != nil {
				return Result{}, err
			}
			continue
		}

		return e.resolve(ctx, opCtx, cls, attempts)
	}
}

// resolve ends a failed invocation: fallback data if any, user-facing error
// otherwise.
func (e *Executor) resolve(ctx context.Context, opCtx domain.OperationContext, cls taxonomy.Classification, attempts int) (Result, error) {
	if e.policy.FallbackEnabled && e.fallbacks != nil {
		var data any
		if cls.Entry != nil {
			data = e.fallbacks.ForEntry(ctx, *cls.Entry, opCtx.OperationName)
		} else if d, ok := e.fallbacks.Lookup(ctx, opCtx.OperationName); ok {
			data = d
		}
		if data != nil {
			monitor.FallbacksTotal.WithLabelValues(opCtx.OperationName).Inc()
			e.log.Info("Operation recovered with fallback data",
				"operation", opCtx.OperationName,
				"attempts", attempts,
			)
			return Result{Value: data, Outcome: OutcomeRecovered, Attempts: attempts}, nil
		}
	}

	code := ""
	if cls.Entry != nil {
		code = cls.Entry.Code
	}
	return Result{Attempts: attempts}, &UserFacingError{Code: code, Message: cls.Message}
}

// report records one failed attempt with the monitor. The raw error stays in
// telemetry; only the user message ever reaches the caller.
func (e *Executor) report(opCtx domain.OperationContext, cls taxonomy.Classification, err error, attempt int) {
	if e.reporter == nil {
		return
	}
	e.reporter.ReportError(domain.ErrorReport{
		Kind:     cls.Kind,
		Message:  err.Error(),
		Severity: cls.Severity,
		UserID:   opCtx.UserID,
		Metadata: map[string]any{
			"operation":    opCtx.OperationName,
			"attempt":      attempt,
			"user_message": cls.Message,
		},
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
