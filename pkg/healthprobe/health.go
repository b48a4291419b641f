// Package healthprobe provides liveness and readiness handlers for the
// long-running watch process.
package healthprobe

import (
	"encoding/json"
	"net/http"
	"time"
)

// CheckFunc reports whether the process is ready to serve, with a short
// human-readable detail (for example the streaming session state).
type CheckFunc func() (ready bool, detail string)

// HealthChecker provides health and readiness checks.
type HealthChecker struct {
	startTime time.Time
	check     CheckFunc
}

// New creates a HealthChecker. check drives readiness; a nil check makes the
// process always ready.
func New(check CheckFunc) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		check:     check,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Detail string `json:"detail,omitempty"`
}

// Health returns an HTTP handler for liveness checks. It always returns
// 200 OK while the process is running.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status: "healthy",
			Uptime: time.Since(h.startTime).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Ready returns an HTTP handler for readiness checks. It returns 200 OK when
// the check passes and 503 Service Unavailable otherwise.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready, detail := true, ""
		if h.check != nil {
			ready, detail = h.check()
		}

		resp := HealthResponse{
			Status: "ready",
			Uptime: time.Since(h.startTime).String(),
			Detail: detail,
		}
		status := http.StatusOK
		if !ready {
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
