package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler answers 200 OK while the process runs.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs all checks and answers 200 unless one is unhealthy.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := Overall(agg.CheckAll(r.Context()))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusCode(status))
		switch status {
		case StatusHealthy:
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

// Report is the JSON body of the detailed health endpoint.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckReport `json:"checks,omitempty"`
}

// CheckReport is one check inside a Report.
type CheckReport struct {
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// NewReport renders check results.
func NewReport(results map[string]Result) Report {
	rep := Report{
		Status:    Overall(results),
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Checks:    make(map[string]CheckReport, len(results)),
	}
	for name, r := range results {
		check := CheckReport{
			Status:   r.Status,
			Message:  r.Message,
			Duration: r.Duration.String(),
			Details:  r.Details,
		}
		if r.Error != nil {
			check.Error = r.Error.Error()
		}
		rep.Checks[name] = check
	}
	return rep
}

// DetailedHandler answers with a JSON Report of all checks.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := NewReport(agg.CheckAll(r.Context()))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode(rep.Status))
		_ = json.NewEncoder(w).Encode(rep)
	}
}

func statusCode(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
