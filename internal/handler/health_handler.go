package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
	"hotelguru/internal/resource"
	"hotelguru/internal/storage"
)

// Health returns basic health check
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Check is one named readiness probe
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Ready runs every check in parallel and answers 503 unless all are up
func Ready(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := make([]HealthCheckResult, len(checks))
		var g errgroup.Group
		for i, c := range checks {
			g.Go(func() error {
				results[i] = runCheck(ctx, c)
				return nil
			})
		}
		_ = g.Wait()

		byName := make(map[string]HealthCheckResult, len(checks))
		allHealthy := true
		for i, c := range checks {
			byName[c.Name] = results[i]
			allHealthy = allHealthy && results[i].Status == "up"
		}

		response := map[string]any{
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    byName,
		}

		status := http.StatusOK
		response["status"] = "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			response["status"] = "not_ready"
		}
		writeJSON(w, status, response)
	}
}

func runCheck(ctx context.Context, c Check) HealthCheckResult {
	start := time.Now()
	err := c.Probe(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return HealthCheckResult{Status: "down", LatencyMs: latency, Error: err.Error()}
	}
	return HealthCheckResult{Status: "up", LatencyMs: latency}
}

// BackendCheck probes the API with the public service catalog. Any answer
// below 500 means the backend is reachable.
func BackendCheck(catalog *resource.Catalog) Check {
	return Check{
		Name: "backend",
		Probe: func(ctx context.Context) error {
			_, err := catalog.List(ctx)
			if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.StatusCode < http.StatusInternalServerError {
				return nil
			}
			return err
		},
	}
}

// StorageCheck probes the token storage backend
func StorageCheck(s domain.ClientStorage) Check {
	return Check{
		Name: "storage",
		Probe: func(ctx context.Context) error {
			return storage.Check(ctx, s)
		},
	}
}
