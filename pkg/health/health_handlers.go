package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves all checks. Degraded still answers 200.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return respond(hc.Check, false)
}

// LivenessHandler returns an HTTP handler for liveness checks
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return respond(hc.CheckLiveness, true)
}

// ReadinessHandler returns an HTTP handler for readiness checks
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return respond(hc.CheckReadiness, true)
}

// Register mounts the three endpoints on mux.
func (hc *HealthChecker) Register(mux *http.ServeMux) {
	mux.Handle("/health", hc.HTTPHandler())
	mux.Handle("/healthz", hc.LivenessHandler())
	mux.Handle("/readyz", hc.ReadinessHandler())
}

// respond writes the response as JSON. With strict set only a healthy
// result answers 200.
func respond(check func() Response, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := check()

		code := http.StatusOK
		switch {
		case response.Status == StatusUnhealthy:
			code = http.StatusServiceUnavailable
		case strict && response.Status != StatusHealthy:
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	}
}
