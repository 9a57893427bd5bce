package metrics_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/torosent/captest/internal/metrics"
)

func TestLatencySummary(t *testing.T) {
	l := metrics.NewLatency()
	for _, d := range []time.Duration{10, 20, 30, 40, 50} {
		l.Record(d * time.Millisecond)
	}

	s := l.Summary()
	if s.Count != 5 {
		t.Errorf("expected count 5, got %d", s.Count)
	}
	if s.Min != 10*time.Millisecond {
		t.Errorf("expected min 10ms, got %s", s.Min)
	}
	if s.Max != 50*time.Millisecond {
		t.Errorf("expected max 50ms, got %s", s.Max)
	}
	if s.Mean != 30*time.Millisecond {
		t.Errorf("expected mean 30ms, got %s", s.Mean)
	}
	if s.MeanMs != 30 {
		t.Errorf("expected mean 30ms in JSON field, got %f", s.MeanMs)
	}
}

func TestLatencyPercentiles(t *testing.T) {
	l := metrics.NewLatency()
	for i := 1; i <= 100; i++ {
		l.Record(time.Duration(i) * time.Millisecond)
	}
	s := l.Summary()
	if s.P50 < 49*time.Millisecond || s.P50 > 51*time.Millisecond {
		t.Errorf("expected P50 ~50ms, got %s", s.P50)
	}
	if s.P99 < 98*time.Millisecond || s.P99 > 100*time.Millisecond {
		t.Errorf("expected P99 ~99ms, got %s", s.P99)
	}
}

func TestLatencyMerge(t *testing.T) {
	a := metrics.NewLatency()
	b := metrics.NewLatency()
	a.Record(5 * time.Millisecond)
	a.Record(15 * time.Millisecond)
	b.Record(1 * time.Millisecond)
	b.Record(100 * time.Millisecond)

	total := metrics.NewLatency()
	total.Merge(a)
	total.Merge(b)
	total.Merge(nil)
	total.Merge(metrics.NewLatency())

	s := total.Summary()
	if s.Count != 4 {
		t.Fatalf("expected count 4, got %d", s.Count)
	}
	if s.Min != time.Millisecond || s.Max != 100*time.Millisecond {
		t.Fatalf("unexpected min/max %s/%s", s.Min, s.Max)
	}
}

func TestLatencyMergeKeepsClampedSamples(t *testing.T) {
	slow := metrics.NewLatency()
	slow.Record(2 * time.Minute)
	slow.Record(-time.Second)

	total := metrics.NewLatency()
	if dropped := total.Merge(slow); dropped != 0 {
		t.Fatalf("Merge dropped %d samples, want 0", dropped)
	}
	s := total.Summary()
	if s.Count != 2 {
		t.Fatalf("expected count 2, got %d", s.Count)
	}
	if s.Max != 2*time.Minute {
		t.Fatalf("max = %s, want 2m0s", s.Max)
	}
}

func TestEmptyLatencySummary(t *testing.T) {
	s := metrics.NewLatency().Summary()
	if s.Count != 0 || s.Min != 0 || s.P99 != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestRateGuardsZeroElapsed(t *testing.T) {
	if got := metrics.Rate(100, 0); got != 0 {
		t.Fatalf("Rate with zero elapsed = %f, want 0", got)
	}
	if got := metrics.Rate(100, 2*time.Second); got != 50 {
		t.Fatalf("Rate = %f, want 50", got)
	}
}

func TestSummaryJSON(t *testing.T) {
	s := metrics.Summary{
		RunID:         "01J0000000000000000000000",
		TotalRequests: 8,
		TotalErrors:   2,
		Rate:          4,
		Statuses:      map[int]int64{200: 8, 503: 2},
	}
	if s.Attempts() != 10 {
		t.Fatalf("Attempts() = %d, want 10", s.Attempts())
	}
	if s.ErrorRatio() != 0.2 {
		t.Fatalf("ErrorRatio() = %f, want 0.2", s.ErrorRatio())
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	statuses, ok := decoded["statuses"].(map[string]interface{})
	if !ok || statuses["503"] != float64(2) {
		t.Fatalf("unexpected statuses %v", decoded["statuses"])
	}
}
