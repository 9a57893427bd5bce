package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/captest/internal/queue"
)

// QueueSource exposes live queue counters. *runner.Runner satisfies it.
type QueueSource interface {
	QueueStats() queue.Stats
}

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	source   QueueSource
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
	start    time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(source QueueSource, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		source:   source,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
		start:    time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and terminates the progress line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, progressLine(p.source.QueueStats(), time.Since(p.start)))
		case <-p.done:
			return
		}
	}
}

func progressLine(s queue.Stats, elapsed time.Duration) string {
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(s.Dequeued) / secs
	}
	return fmt.Sprintf("\rQueued: %d | Fetched: %d | Depth: %d | Elapsed: %s | Fetch/s: %.1f",
		s.Enqueued, s.Dequeued, s.Depth, elapsed.Truncate(time.Second), rate)
}
