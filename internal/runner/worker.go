package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/torosent/captest/internal/metrics"
)

// Outcome classifies a single fetch.
type Outcome int

const (
	// OutcomeSuccess is any response below 500, 4xx included.
	OutcomeSuccess Outcome = iota
	// OutcomeServerError is a response of 500 or above.
	OutcomeServerError
	// OutcomeTransportError is a fetch that produced no usable response.
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeServerError:
		return "server_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Classify maps a fetch result onto an Outcome.
func Classify(status int, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeTransportError
	case status >= http.StatusInternalServerError:
		return OutcomeServerError
	default:
		return OutcomeSuccess
	}
}

// WorkerResult holds one worker's counters. Only the owning worker touches
// it until the worker returns.
type WorkerResult struct {
	ID              int
	Successes       int64
	Errors          int64
	TransportErrors int64
	Statuses        map[int]int64
	ErrorKinds      map[string]int64
	Latency         *metrics.Latency
}

func newWorkerResult(id int) WorkerResult {
	return WorkerResult{
		ID:         id,
		Statuses:   make(map[int]int64),
		ErrorKinds: make(map[string]int64),
		Latency:    metrics.NewLatency(),
	}
}

// Processed returns the number of targets the worker fetched.
func (w WorkerResult) Processed() int64 {
	return w.Successes + w.Errors
}

func (r *Runner) work(ctx context.Context, id int) WorkerResult {
	res := newWorkerResult(id)
	r.log.Debugf("Worker %d started", id)

	for {
		item := r.queue.Get()
		if item.IsShutdown() {
			r.log.Debugf("Worker %d received the signal to finish after %d requests", id, res.Processed())
			return res
		}

		target := item.Target()
		start := time.Now()
		status, err := safeFetch(ctx, r.opt.Fetcher, target)
		res.Latency.Record(time.Since(start))

		if status > 0 {
			res.Statuses[status]++
		}
		switch Classify(status, err) {
		case OutcomeSuccess:
			res.Successes++
			r.log.Debugf("Fetched %s with %d status code", target, status)
		case OutcomeServerError:
			res.Errors++
			r.log.Warnf("%s returned with %d", target, status)
		case OutcomeTransportError:
			res.Errors++
			res.TransportErrors++
			res.ErrorKinds[metrics.ErrorKind(err)]++
			r.log.Warnf("%s failed: %v", target, err)
		}

		pause(ctx, r.opt.Delay)
	}
}

// safeFetch turns a panicking Fetcher into a transport error so a single bad
// request cannot take the worker down.
func safeFetch(ctx context.Context, f Fetcher, target string) (status int, err error) {
	defer func() {
		if p := recover(); p != nil {
			status = 0
			err = fmt.Errorf("fetch %s panicked: %v", target, p)
		}
	}()
	return f.Fetch(ctx, target)
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
