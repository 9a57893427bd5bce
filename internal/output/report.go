package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/torosent/captest/internal/metrics"
)

const resultsRule = "---------------------"

// PrintReport outputs a human-readable summary report. The last two lines
// are always the rule and the "Results: <rate> rqs/sec" line.
func PrintReport(w io.Writer, s metrics.Summary) {
	fmt.Fprintln(w, "\n--- Capacity Test Results ---")
	if s.RunID != "" {
		fmt.Fprintf(w, "Run ID:            %s\n", s.RunID)
	}
	fmt.Fprintf(w, "Concurrency:       %d\n", s.Concurrency)
	fmt.Fprintf(w, "Successful:        %d\n", s.TotalRequests)
	fmt.Fprintf(w, "Errors:            %d\n", s.TotalErrors)
	if s.TransportErrors > 0 {
		fmt.Fprintf(w, "  Transport:       %d\n", s.TransportErrors)
	}
	fmt.Fprintf(w, "Elapsed:           %.2fs\n", s.ElapsedSeconds)

	if s.Latency.Count > 0 {
		fmt.Fprintln(w, "\nLatency:")
		fmt.Fprintf(w, "  Min:             %s\n", s.Latency.Min)
		fmt.Fprintf(w, "  Max:             %s\n", s.Latency.Max)
		fmt.Fprintf(w, "  Mean:            %s\n", s.Latency.Mean)
		fmt.Fprintf(w, "  P50:             %s\n", s.Latency.P50)
		fmt.Fprintf(w, "  P90:             %s\n", s.Latency.P90)
		fmt.Fprintf(w, "  P95:             %s\n", s.Latency.P95)
		fmt.Fprintf(w, "  P99:             %s\n", s.Latency.P99)
	}

	if len(s.Statuses) > 0 {
		fmt.Fprintln(w, "\nStatus Buckets:")
		for _, row := range metrics.FlattenStatusBuckets(s.Statuses) {
			fmt.Fprintf(w, "  HTTP %d: %d\n", row.Code, row.Count)
		}
	}

	if len(s.ErrorKinds) > 0 {
		fmt.Fprintln(w, "\nTransport Errors:")
		kinds := make([]string, 0, len(s.ErrorKinds))
		for kind := range s.ErrorKinds {
			kinds = append(kinds, kind)
		}
		sort.Slice(kinds, func(i, j int) bool {
			if s.ErrorKinds[kinds[i]] == s.ErrorKinds[kinds[j]] {
				return kinds[i] < kinds[j]
			}
			return s.ErrorKinds[kinds[i]] > s.ErrorKinds[kinds[j]]
		})
		for _, kind := range kinds {
			fmt.Fprintf(w, "  %s: %d\n", kind, s.ErrorKinds[kind])
		}
	}

	fmt.Fprintln(w, resultsRule)
	fmt.Fprintf(w, "Results: %.2f rqs/sec\n", s.Rate)
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, s metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
