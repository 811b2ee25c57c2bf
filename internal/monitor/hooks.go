package monitor

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/motorline/gateway/internal/core/domain"
)

// Recover captures a panic from the calling goroutine and funnels it into
// the monitor as a critical runtime error. Use it deferred at goroutine
// entry points:
//
//	defer monitor.Recover(m, "worker")
func Recover(m *Monitor, scope string) {
	r := recover()
	if r == nil {
		return
	}
	m.ReportError(domain.ErrorReport{
		Kind:     domain.KindRuntime,
		Message:  fmt.Sprintf("panic in %s: %v", scope, r),
		Stack:    string(debug.Stack()),
		Severity: domain.SeverityCritical,
		Metadata: map[string]any{"scope": scope},
	})
	m.log.Error("Recovered from panic", "scope", scope, "panic", r)
}

// Transport is an http.RoundTripper that records request durations and
// reports failed requests and non-2xx responses to the monitor.
type Transport struct {
	Base    http.RoundTripper
	Monitor *Monitor
}

// NewTransport wraps base (or http.DefaultTransport when nil) with
// monitoring.
func NewTransport(m *Monitor, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Monitor: m}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	duration := time.Since(start)

	url := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	if err != nil {
		t.Monitor.RecordAPIResponse(url, duration, 0)
		t.Monitor.ReportError(domain.ErrorReport{
			Kind:     domain.KindNetwork,
			Message:  fmt.Sprintf("%s %s failed: %v", req.Method, url, err),
			Severity: domain.SeverityMedium,
			Metadata: map[string]any{"method": req.Method, "url": url},
		})
		return nil, err
	}

	t.Monitor.RecordAPIResponse(url, duration, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		severity := domain.SeverityMedium
		if resp.StatusCode >= 500 {
			severity = domain.SeverityHigh
		}
		t.Monitor.ReportError(domain.ErrorReport{
			Kind:     domain.KindNetwork,
			Message:  fmt.Sprintf("%s %s returned %d", req.Method, url, resp.StatusCode),
			Severity: severity,
			Metadata: map[string]any{
				"method": req.Method,
				"url":    url,
				"status": resp.StatusCode,
			},
		})
	}
	return resp, nil
}
