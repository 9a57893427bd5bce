package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	lowestTrackableUs  = 1
	highestTrackableUs = 60_000_000
	significantFigures = 3
)

// Latency accumulates request latencies for a single owner. It is not safe
// for concurrent use; each worker keeps its own and the aggregator merges them
// after the workers have returned.
type Latency struct {
	hist  *hdrhistogram.Histogram
	count int64
	sum   time.Duration
	min   time.Duration
	max   time.Duration
}

// LatencySummary is the reported view of a Latency.
type LatencySummary struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"-"`
	Max   time.Duration `json:"-"`
	Mean  time.Duration `json:"-"`
	P50   time.Duration `json:"-"`
	P90   time.Duration `json:"-"`
	P95   time.Duration `json:"-"`
	P99   time.Duration `json:"-"`

	// JSON-friendly millisecond fields.
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// NewLatency tracks latencies from 1µs up to 60s with 3 significant figures.
func NewLatency() *Latency {
	return &Latency{hist: hdrhistogram.New(lowestTrackableUs, highestTrackableUs, significantFigures)}
}

// Record adds one observation.
func (l *Latency) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	us := d.Microseconds()
	if us < l.hist.LowestTrackableValue() {
		us = l.hist.LowestTrackableValue()
	}
	if us > l.hist.HighestTrackableValue() {
		us = l.hist.HighestTrackableValue()
	}
	_ = l.hist.RecordValue(us)

	l.count++
	l.sum += d
	if l.count == 1 || d < l.min {
		l.min = d
	}
	if d > l.max {
		l.max = d
	}
}

// Merge folds other into l and returns the number of histogram samples that
// did not fit. Record clamps into the trackable range and every Latency shares
// it, so the result is always 0.
func (l *Latency) Merge(other *Latency) (dropped int64) {
	if other == nil || other.count == 0 {
		return 0
	}
	dropped = l.hist.Merge(other.hist)
	if l.count == 0 || other.min < l.min {
		l.min = other.min
	}
	if other.max > l.max {
		l.max = other.max
	}
	l.count += other.count
	l.sum += other.sum
	return dropped
}

// Count returns the number of observations.
func (l *Latency) Count() int64 {
	return l.count
}

// Summary computes the reported percentiles.
func (l *Latency) Summary() LatencySummary {
	s := LatencySummary{Count: l.count}
	if l.count == 0 {
		return s
	}
	s.Min = l.min
	s.Max = l.max
	s.Mean = time.Duration(int64(l.sum) / l.count)
	s.P50 = time.Duration(l.hist.ValueAtQuantile(50)) * time.Microsecond
	s.P90 = time.Duration(l.hist.ValueAtQuantile(90)) * time.Microsecond
	s.P95 = time.Duration(l.hist.ValueAtQuantile(95)) * time.Microsecond
	s.P99 = time.Duration(l.hist.ValueAtQuantile(99)) * time.Microsecond

	s.MinMs = millis(s.Min)
	s.MaxMs = millis(s.Max)
	s.MeanMs = millis(s.Mean)
	s.P50Ms = millis(s.P50)
	s.P90Ms = millis(s.P90)
	s.P95Ms = millis(s.P95)
	s.P99Ms = millis(s.P99)
	return s
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
