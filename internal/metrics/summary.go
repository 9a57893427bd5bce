package metrics

import "time"

// Summary is the final report of a capacity run.
type Summary struct {
	RunID           string           `json:"run_id"`
	StartedAt       time.Time        `json:"started_at"`
	Concurrency     int              `json:"concurrency"`
	TotalRequests   int64            `json:"total_requests"`
	TotalErrors     int64            `json:"total_errors"`
	TransportErrors int64            `json:"transport_errors"`
	Elapsed         time.Duration    `json:"-"`
	ElapsedSeconds  float64          `json:"elapsed_seconds"`
	Rate            float64          `json:"rate"`
	Latency         LatencySummary   `json:"latency"`
	Statuses        map[int]int64    `json:"statuses,omitempty"`
	ErrorKinds      map[string]int64 `json:"error_kinds,omitempty"`
}

// Attempts returns every fetch that was issued, successful or not.
func (s Summary) Attempts() int64 {
	return s.TotalRequests + s.TotalErrors
}

// ErrorRatio returns the share of attempts that failed.
func (s Summary) ErrorRatio() float64 {
	attempts := s.Attempts()
	if attempts == 0 {
		return 0
	}
	return float64(s.TotalErrors) / float64(attempts)
}

// Rate divides successes by elapsed seconds, returning 0 for a zero-length run.
func Rate(successes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(successes) / elapsed.Seconds()
}
