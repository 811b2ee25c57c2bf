package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Error-rate thresholds for the health endpoint.
const (
	degradedErrorRate = 1.0
	criticalErrorRate = 5.0
)

// Server exposes the monitor over HTTP for dashboards and scrapers.
type Server struct {
	monitor *Monitor
	server  *http.Server
}

// NewServer creates the dashboard HTTP server.
func NewServer(m *Monitor, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor: m,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/errors/summary", s.handleSummary)
	mux.HandleFunc("/errors/export", s.handleExport)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	summary := s.monitor.GetErrorSummary()

	status := "healthy"
	switch {
	case summary.ErrorRate >= criticalErrorRate:
		status = "critical"
	case summary.ErrorRate >= degradedErrorRate:
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "critical" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(map[string]any{
		"status":     status,
		"error_rate": summary.ErrorRate,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"summary": s.monitor.GetErrorSummary(),
		"metrics": s.monitor.GetPerformanceMetrics(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.monitor.ExportJSON()
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
