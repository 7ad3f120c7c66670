package api

import (
	"context"
	"net/http"
	"time"
)

// componentCheckTimeout bounds each backing-service probe so a hung broker
// or database cannot stall the health endpoint.
const componentCheckTimeout = 2 * time.Second

// HealthStatus is the response body for GET /health.
type HealthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

// handleHealth reports the server's health and the state of its optional
// backing services. The endpoint always answers 200: a degraded component
// is reported in the body, not the status code, so monitoring can tell
// "partially up" apart from "unreachable".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), componentCheckTimeout)
	defer cancel()

	status := "ok"
	components := make(map[string]string)

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			components["database"] = "unhealthy"
			status = "degraded"
		} else {
			components["database"] = "ok"
		}
	}

	if s.mqtt != nil {
		if err := s.mqtt.HealthCheck(ctx); err != nil {
			components["mqtt"] = "unhealthy"
			status = "degraded"
		} else {
			components["mqtt"] = "ok"
		}
	}

	if s.influx != nil {
		if err := s.influx.HealthCheck(ctx); err != nil {
			components["influxdb"] = "unhealthy"
			status = "degraded"
		} else {
			components["influxdb"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, HealthStatus{
		Status:     status,
		Version:    s.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}
