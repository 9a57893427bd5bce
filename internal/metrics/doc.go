// Package metrics holds the measurement types of a capacity run.
//
// Each fetch worker owns a [Latency] histogram and plain status/error maps
// for the whole run; nothing here is shared between goroutines. Once the
// workers have returned, the aggregator merges their values into a single
// [Summary]:
//
//	total := metrics.NewLatency()
//	for _, w := range workers {
//		total.Merge(w.Latency)
//		statuses = metrics.MergeCounts(statuses, w.Statuses)
//	}
//	summary.Latency = total.Summary()
//	summary.Rate = metrics.Rate(summary.TotalRequests, elapsed)
//
// [ErrorKind] turns transport failures into stable labels such as "Timeout"
// or "Connection refused" for the error breakdown.
package metrics
