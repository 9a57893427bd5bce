package runner

import (
	"time"

	"github.com/torosent/captest/internal/metrics"
)

// Aggregate folds finished worker results into a Summary. It must only be
// called once the workers have returned. The rate counts successes only.
func Aggregate(workers []WorkerResult, elapsed time.Duration) metrics.Summary {
	latency := metrics.NewLatency()
	var s metrics.Summary
	for _, w := range workers {
		s.TotalRequests += w.Successes
		s.TotalErrors += w.Errors
		s.TransportErrors += w.TransportErrors
		s.Statuses = metrics.MergeCounts(s.Statuses, w.Statuses)
		s.ErrorKinds = metrics.MergeCounts(s.ErrorKinds, w.ErrorKinds)
		latency.Merge(w.Latency)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	s.Elapsed = elapsed
	s.ElapsedSeconds = elapsed.Seconds()
	s.Rate = metrics.Rate(s.TotalRequests, elapsed)
	s.Latency = latency.Summary()
	return s
}
