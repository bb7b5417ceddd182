package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hermes/pkg/logger"
)

// Pinger reports whether a backing component is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// Handler provides health check endpoints
type Handler struct {
	log             *logger.Logger
	cache           Pinger
	classifierReady func() bool
	rationalesReady func() bool
	startTime       time.Time
	serviceName     string
	version         string
}

// New creates a new health check handler. cache may be nil when caching
// is disabled; readiness probes may be nil when the component is not wired.
func New(
	log *logger.Logger,
	cache Pinger,
	classifierReady func() bool,
	rationalesReady func() bool,
	serviceName string,
	version string,
) *Handler {
	return &Handler{
		log:             log,
		cache:           cache,
		classifierReady: classifierReady,
		rationalesReady: rationalesReady,
		startTime:       time.Now(),
		serviceName:     serviceName,
		version:         version,
	}
}

// ReadinessStatus represents the overall readiness status
type ReadinessStatus struct {
	Status    string                     `json:"status"` // "ready", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleHealth returns a minimal liveness payload with the server clock.
// It always answers 200 so callers polling /health keep working while
// optional components run in fallback mode.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"as_of":  time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLiveness returns 200 OK if service is running
// Used by Kubernetes liveness probe
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// HandleReadiness checks if service is ready to accept traffic
// Used by Kubernetes readiness probe. Only the cache is load-bearing:
// the classifier and rationale generator have neutral fallbacks, so an
// unavailable model degrades the status without taking the pod out of
// rotation.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]ComponentHealth)
	overall := "ready"
	statusCode := http.StatusOK

	if h.cache != nil {
		cacheHealth := h.checkCache(ctx)
		checks["redis"] = cacheHealth
		if cacheHealth.Status != "healthy" {
			overall = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	if h.classifierReady != nil {
		clfHealth := ComponentHealth{Status: "healthy"}
		if !h.classifierReady() {
			clfHealth = ComponentHealth{
				Status: "degraded",
				Error:  "classifier unavailable, scoring neutral",
			}
			if overall == "ready" {
				overall = "degraded"
			}
		}
		checks["classifier"] = clfHealth
	}

	if h.rationalesReady != nil {
		ratHealth := ComponentHealth{Status: "healthy"}
		if !h.rationalesReady() {
			ratHealth = ComponentHealth{
				Status: "degraded",
				Error:  "rationale generator unavailable, using templates",
			}
			if overall == "ready" {
				overall = "degraded"
			}
		}
		checks["rationales"] = ratHealth
	}

	status := ReadinessStatus{
		Status:    overall,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if overall == "unhealthy" {
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(status)
}

// checkCache verifies Redis connectivity
func (h *Handler) checkCache(ctx context.Context) ComponentHealth {
	start := time.Now()
	err := h.cache.Health(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Warnw("Redis health check failed", "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}
