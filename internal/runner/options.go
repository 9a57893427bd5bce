package runner

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultQueueSlack sizes the queue at twice the worker count.
	DefaultQueueSlack = 2
	// DefaultDelay is the pause each worker takes between fetches.
	DefaultDelay = 10 * time.Millisecond
)

// Fetcher performs one request for a catalog target and reports the response
// status code. A non-nil error means the transport failed.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (int, error)
}

// Sampler hands out the next target to enqueue. It is only called from the
// producer goroutine.
type Sampler interface {
	Next() string
}

// Logger is the logging capability the engine needs. *logrus.Logger and
// *logrus.Entry satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Options configure the Runner.
type Options struct {
	Concurrency    int                         // number of fetch workers (>= 1)
	Duration       time.Duration               // how long the producer keeps enqueueing
	QueueSlack     int                         // queue holds Concurrency*QueueSlack items (0 means DefaultQueueSlack)
	Delay          time.Duration               // per-worker pause between fetches (0 means none)
	RatePerSecond  int                         // optional cap on enqueued targets per second (0 means unlimited)
	Sampler        Sampler                     // target source (required)
	Fetcher        Fetcher                     // request executor (required)
	Logger         Logger                      // defaults to a discarding logger
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.QueueSlack <= 0 {
		o.QueueSlack = DefaultQueueSlack
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Duration < 0 {
		o.Duration = 0
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			// Burst equal to rps to smooth pacing.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

func (o Options) queueCapacity() int {
	return o.Concurrency * o.QueueSlack
}
