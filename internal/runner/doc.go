// Package runner is the capacity-test engine.
//
// A Runner owns one run: a single producer draws targets from a Sampler and
// pushes them into a bounded queue, while Options.Concurrency workers pull
// targets, fetch them and tally the outcome in their own WorkerResult.
//
//	r, err := runner.New(runner.Options{
//		Concurrency: 4,
//		Duration:    time.Minute,
//		Sampler:     s,
//		Fetcher:     f,
//	})
//	if err != nil {
//		return err
//	}
//	res := r.Run(ctx)
//
// # Backpressure
//
// The queue holds Concurrency*QueueSlack items. Once it is full the producer
// blocks in Put until a worker frees a slot, so the producer never runs more
// than the queue capacity ahead of the workers.
//
// # Shutdown
//
// When the duration elapses, or ctx is cancelled, the producer enqueues
// exactly one shutdown marker per worker. Markers queue behind any pending
// targets, so every enqueued target is fetched before its worker returns.
//
// # Classification
//
// Responses below 500 are successes, 4xx included. Responses of 500 and
// above are errors, as are transport failures. Only successes count towards
// the reported rate.
package runner
