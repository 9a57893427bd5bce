package runner

import (
	"context"
	"time"
)

// produce keeps the queue topped up until deadline or cancellation, then
// issues exactly one shutdown marker per worker. Put parks while the queue
// is at its backpressure threshold.
func (r *Runner) produce(ctx context.Context, deadline time.Time) int64 {
	runCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var produced int64
	for runCtx.Err() == nil {
		if r.limiter != nil {
			if err := r.limiter.Wait(runCtx); err != nil {
				break
			}
		}
		if err := r.queue.Put(runCtx, r.opt.Sampler.Next()); err != nil {
			break
		}
		produced++
	}

	if ctx.Err() != nil {
		r.log.Warnf("Run interrupted after %d targets. Sending signals to workers.", produced)
	} else {
		r.log.Infof("Times up... Sending signals to workers.")
	}
	r.queue.Shutdown(r.opt.Concurrency)
	return produced
}
