package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motorline/gateway/internal/core/domain"
	"github.com/motorline/gateway/internal/resilience/fallback"
	"github.com/motorline/gateway/internal/resilience/taxonomy"
)

type fakeReporter struct {
	reports []domain.ErrorReport
}

func (r *fakeReporter) ReportError(report domain.ErrorReport) string {
	r.reports = append(r.reports, report)
	return "fake-id"
}

type fakeSleeper struct {
	delays []time.Duration
}

func (s *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func alwaysFail(err error) (Operation, *int) {
	calls := 0
	return func(ctx context.Context) (any, error) {
		calls++
		return nil, err
	}, &calls
}

func TestExecuteBoundedAttempts(t *testing.T) {
	reporter := &fakeReporter{}
	sleeper := &fakeSleeper{}
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 3, RetryDelay: 10 * time.Millisecond},
		nil, reporter,
		WithSleeper(sleeper.sleep),
	)

	op, calls := alwaysFail(&taxonomy.ProviderError{Code: "firestore/unavailable", Message: "down"})
	_, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), op)

	if *calls != 4 {
		t.Errorf("operation invoked %d times, want 4", *calls)
	}
	var ufe *UserFacingError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *UserFacingError", err)
	}
	if ufe.Code != "unavailable" {
		t.Errorf("Code = %q, want unavailable", ufe.Code)
	}
	if len(reporter.reports) != 4 {
		t.Errorf("reported %d errors, want one per failed attempt (4)", len(reporter.reports))
	}
}

func TestExecuteNonRetryableInvokedOnce(t *testing.T) {
	reporter := &fakeReporter{}
	sleeper := &fakeSleeper{}
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 5, RetryDelay: time.Millisecond},
		nil, reporter,
		WithSleeper(sleeper.sleep),
	)

	op, calls := alwaysFail(&taxonomy.ProviderError{Code: "firestore/permission-denied", Message: "nope"})
	_, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), op)

	if *calls != 1 {
		t.Errorf("operation invoked %d times, want 1", *calls)
	}
	if len(sleeper.delays) != 0 {
		t.Errorf("slept %d times, want 0", len(sleeper.delays))
	}
	var ufe *UserFacingError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *UserFacingError", err)
	}
}

func TestExecuteNonRetryableResolvesToEmptyFallback(t *testing.T) {
	provider := fallback.NewProvider(nil, nil)
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 5, RetryDelay: time.Millisecond, FallbackEnabled: true},
		provider, &fakeReporter{},
		WithSleeper((&fakeSleeper{}).sleep),
	)

	op, calls := alwaysFail(&taxonomy.ProviderError{Code: "firestore/permission-denied", Message: "nope"})
	res, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), op)

	if err != nil {
		t.Fatalf("Execute returned error %v, want fallback recovery", err)
	}
	if *calls != 1 {
		t.Errorf("operation invoked %d times, want 1", *calls)
	}
	if !res.Recovered() {
		t.Error("result should be marked recovered")
	}
	products, ok := res.Value.([]domain.Product)
	if !ok {
		t.Fatalf("fallback value is %T, want []domain.Product", res.Value)
	}
	if len(products) != 0 {
		t.Errorf("permission failures fall back to an empty list, got %d items", len(products))
	}
}

func TestExecuteRetriesExhaustedBeforeFallback(t *testing.T) {
	// Concrete scenario: unavailable with MaxRetries=2, delay 100ms retries
	// twice waiting 100ms then 200ms, then returns the registered fallback.
	provider := fallback.NewProvider(nil, nil)
	reporter := &fakeReporter{}
	sleeper := &fakeSleeper{}
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 2, RetryDelay: 100 * time.Millisecond, FallbackEnabled: true},
		provider, reporter,
		WithSleeper(sleeper.sleep),
	)

	op, calls := alwaysFail(&taxonomy.ProviderError{Code: "firestore/unavailable", Message: "x"})
	res, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), op)

	if err != nil {
		t.Fatalf("Execute returned error %v, want fallback recovery", err)
	}
	if *calls != 3 {
		t.Errorf("operation invoked %d times, want 3 (retries exhausted before fallback)", *calls)
	}
	wantDelays := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(sleeper.delays) != len(wantDelays) {
		t.Fatalf("observed %d delays, want %d", len(sleeper.delays), len(wantDelays))
	}
	for i, d := range wantDelays {
		if sleeper.delays[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, sleeper.delays[i], d)
		}
	}
	if !res.Recovered() {
		t.Error("result should be marked recovered")
	}
	products, ok := res.Value.([]domain.Product)
	if !ok {
		t.Fatalf("fallback value is %T, want []domain.Product", res.Value)
	}
	if len(products) != len(fallback.SampleProducts()) {
		t.Errorf("fallback returned %d products, want sample set", len(products))
	}
	if len(reporter.reports) != 3 {
		t.Errorf("reported %d errors, want 3 (one per failed attempt, none for recovery)", len(reporter.reports))
	}
}

func TestExecuteNetworkErrorReturnsOfflineFallback(t *testing.T) {
	provider := fallback.NewProvider(nil, nil)
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 0, FallbackEnabled: true},
		provider, &fakeReporter{},
		WithSleeper((&fakeSleeper{}).sleep),
	)

	op, _ := alwaysFail(errors.New("Failed to fetch"))
	res, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), op)

	if err != nil {
		t.Fatalf("Execute returned error %v, want offline fallback", err)
	}
	if _, ok := res.Value.([]domain.Product); !ok {
		t.Fatalf("fallback value is %T, want []domain.Product", res.Value)
	}
}

func TestExecuteUnknownOperationSurfacesUserMessage(t *testing.T) {
	provider := fallback.NewProvider(nil, nil)
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 1, RetryDelay: time.Millisecond, FallbackEnabled: true},
		provider, &fakeReporter{},
		WithSleeper((&fakeSleeper{}).sleep),
	)

	op, _ := alwaysFail(errors.New("Failed to fetch"))
	_, err := ex.Execute(context.Background(), domain.NewOperationContext("syncInventory"), op)

	var ufe *UserFacingError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *UserFacingError", err)
	}
	if ufe.Message == "" || ufe.Message == "Failed to fetch" {
		t.Errorf("user message %q must not leak the internal error", ufe.Message)
	}
}

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	reporter := &fakeReporter{}
	ex := NewExecutor(domain.RetryPolicy{MaxRetries: 3}, nil, reporter)

	res, err := ex.Execute(context.Background(), domain.NewOperationContext("getProducts"), func(ctx context.Context) (any, error) {
		return "data", nil
	})

	if err != nil {
		t.Fatalf("Execute returned error %v", err)
	}
	if res.Outcome != OutcomeOK {
		t.Errorf("Outcome = %v, want ok", res.Outcome)
	}
	if res.Value != "data" || res.Attempts != 1 {
		t.Errorf("got %+v, want data after 1 attempt", res)
	}
	if len(reporter.reports) != 0 {
		t.Errorf("successes must not be reported, got %d reports", len(reporter.reports))
	}
}

func TestExecuteCancelledDuringBackoff(t *testing.T) {
	ex := NewExecutor(
		domain.RetryPolicy{MaxRetries: 3, RetryDelay: time.Hour},
		nil, &fakeReporter{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	op, calls := alwaysFail(&taxonomy.ProviderError{Code: "firestore/unavailable", Message: "x"})

	done := make(chan error, 1)
	go func() {
		_, err := ex.Execute(ctx, domain.NewOperationContext("getProducts"), op)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}
	if *calls != 1 {
		t.Errorf("operation invoked %d times, want 1", *calls)
	}
}
