package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/motorline/gateway/internal/core/domain"
)

func TestRecoverCapturesPanic(t *testing.T) {
	m := New()
	m.StartSession()

	func() {
		defer Recover(m, "worker")
		panic("boom")
	}()

	summary := m.GetErrorSummary()
	if summary.TotalErrors != 1 {
		t.Fatalf("TotalErrors = %d, want 1", summary.TotalErrors)
	}
	if summary.ErrorsByKind[domain.KindRuntime] != 1 {
		t.Errorf("panic not recorded as runtime error: %v", summary.ErrorsByKind)
	}
	if summary.ErrorsBySeverity[domain.SeverityCritical] != 1 {
		t.Errorf("panic not recorded as critical: %v", summary.ErrorsBySeverity)
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	m := New()
	func() {
		defer Recover(m, "worker")
	}()

	if total := m.GetErrorSummary().TotalErrors; total != 0 {
		t.Errorf("TotalErrors = %d, want 0", total)
	}
}

func TestTransportReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := New()
	client := &http.Client{Transport: NewTransport(m, nil)}

	resp, err := client.Get(srv.URL + "/api/products")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	summary := m.GetErrorSummary()
	if summary.TotalErrors != 1 {
		t.Fatalf("TotalErrors = %d, want 1", summary.TotalErrors)
	}
	if summary.ErrorsByKind[domain.KindNetwork] != 1 {
		t.Errorf("5xx not recorded as network error: %v", summary.ErrorsByKind)
	}
	if summary.ErrorsBySeverity[domain.SeverityHigh] != 1 {
		t.Errorf("5xx should be high severity: %v", summary.ErrorsBySeverity)
	}

	metrics := m.GetPerformanceMetrics()
	if len(metrics.APIResponseTimes) != 1 {
		t.Errorf("expected one recorded API duration, got %v", metrics.APIResponseTimes)
	}
}

func TestTransportIgnoresSuccesses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	client := &http.Client{Transport: NewTransport(m, nil)}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if total := m.GetErrorSummary().TotalErrors; total != 0 {
		t.Errorf("TotalErrors = %d, want 0 for 2xx responses", total)
	}
	if len(m.GetPerformanceMetrics().APIResponseTimes) != 1 {
		t.Error("durations are recorded even for successes")
	}
}
