package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/torosent/captest/internal/logging"
	"github.com/torosent/captest/internal/metrics"
	"github.com/torosent/captest/internal/queue"
)

var (
	// ErrInvalidConcurrency is returned for fewer than one worker.
	ErrInvalidConcurrency = errors.New("concurrency must be >= 1")
	// ErrNoSampler is returned when Options.Sampler is nil.
	ErrNoSampler = errors.New("sampler is required")
	// ErrNoFetcher is returned when Options.Fetcher is nil.
	ErrNoFetcher = errors.New("fetcher is required")
)

// Result captures execution summary.
type Result struct {
	metrics.Summary
	Workers  []WorkerResult
	Produced int64
	Queue    queue.Stats
}

// Runner drives one capacity run: a producer feeding a bounded queue and a
// fixed set of fetch workers draining it.
type Runner struct {
	opt     Options
	id      string
	queue   *queue.Queue
	limiter *rate.Limiter
	log     Logger
}

// New validates opt and prepares a Runner. A Runner executes a single run.
func New(opt Options) (*Runner, error) {
	if opt.Concurrency < 1 {
		return nil, ErrInvalidConcurrency
	}
	if opt.Sampler == nil {
		return nil, ErrNoSampler
	}
	if opt.Fetcher == nil {
		return nil, ErrNoFetcher
	}
	opt.normalize()

	var log Logger = logging.NullLogger
	if opt.Logger != nil {
		log = opt.Logger
	}

	var limiter *rate.Limiter
	if opt.RatePerSecond > 0 {
		limiter = opt.LimiterFactory(opt.RatePerSecond)
	}

	return &Runner{
		opt:     opt,
		id:      ulid.Make().String(),
		queue:   queue.New(opt.queueCapacity()),
		limiter: limiter,
		log:     log,
	}, nil
}

// ID returns the run identifier.
func (r *Runner) ID() string {
	return r.id
}

// QueueStats exposes live queue counters for progress reporting.
func (r *Runner) QueueStats() queue.Stats {
	return r.queue.Stats()
}

// Run executes the test and blocks until every worker has terminated.
// Cancelling ctx stops production early and aborts in-flight fetches; the
// workers are still shut down through the queue.
func (r *Runner) Run(ctx context.Context) Result {
	n := r.opt.Concurrency
	r.log.Infof("Initializing workers [concurrency: %d, queue: %d]", n, r.queue.Cap())

	results := make([]WorkerResult, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id int) {
			defer wg.Done()
			results[id] = r.work(ctx, id)
		}(i)
	}

	r.log.Infof("Pushing targets into the workers' queue. Stopping after %s.", r.opt.Duration)
	start := time.Now()
	produced := r.produce(ctx, start.Add(r.opt.Duration))

	wg.Wait()
	elapsed := time.Since(start)
	r.log.Infof("Workers finished")

	summary := Aggregate(results, elapsed)
	summary.RunID = r.id
	summary.StartedAt = start
	summary.Concurrency = n

	r.log.Infof("Ran %d requests (%d errors) in %.2f seconds", summary.TotalRequests, summary.TotalErrors, elapsed.Seconds())
	r.log.Infof("Results: %.2f rqs/sec", summary.Rate)

	return Result{
		Summary:  summary,
		Workers:  results,
		Produced: produced,
		Queue:    r.queue.Stats(),
	}
}
