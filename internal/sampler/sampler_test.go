package sampler

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/torosent/captest/internal/catalog"
)

// scriptedSource replays fixed Intn results.
type scriptedSource struct {
	values []int
	idx    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	if v >= n {
		panic("scripted value out of range")
	}
	return v
}

func mustCatalog(t *testing.T, entries ...catalog.Entry) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func TestPickPartition(t *testing.T) {
	entries := []catalog.Entry{{Target: "a", Weight: 1}, {Target: "b", Weight: 3}}
	tests := []struct {
		r    int
		want string
	}{
		{1, "a"},
		{2, "b"},
		{3, "b"},
		{4, "b"},
	}
	for _, tt := range tests {
		if got := Pick(entries, 4, tt.r); got != tt.want {
			t.Errorf("Pick(r=%d) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestPickUnsortedWeights(t *testing.T) {
	entries := []catalog.Entry{{Target: "big", Weight: 5}, {Target: "small", Weight: 1}, {Target: "mid", Weight: 2}}
	want := []string{"big", "big", "big", "big", "big", "small", "mid", "mid"}
	for r := 1; r <= 8; r++ {
		if got := Pick(entries, 8, r); got != want[r-1] {
			t.Errorf("Pick(r=%d) = %q, want %q", r, got, want[r-1])
		}
	}
}

func TestNextUsesOneBasedDraw(t *testing.T) {
	c := mustCatalog(t, catalog.Entry{Target: "a", Weight: 1}, catalog.Entry{Target: "b", Weight: 3})
	src := &scriptedSource{values: []int{0, 1, 2, 3}}
	s, err := New(c, src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"a", "b", "b", "b"}
	for i, w := range want {
		if got := s.Next(); got != w {
			t.Errorf("draw %d = %q, want %q", i, got, w)
		}
	}
}

func TestFrequenciesConvergeToWeights(t *testing.T) {
	c := mustCatalog(t,
		catalog.Entry{Target: "a", Weight: 1},
		catalog.Entry{Target: "b", Weight: 3},
		catalog.Entry{Target: "c", Weight: 6},
	)
	s, err := New(c, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const draws = 50000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[s.Next()]++
	}

	// Chi-square with 2 degrees of freedom; 13.8 is the p=0.001 critical value.
	chi := 0.0
	for _, e := range c.Entries() {
		expected := float64(draws) * float64(e.Weight) / float64(c.TotalWeight())
		diff := float64(counts[e.Target]) - expected
		chi += diff * diff / expected

		rel := math.Abs(diff) / expected
		if rel > 0.05 {
			t.Errorf("%s: got %d draws, expected ~%.0f (rel err %.3f)", e.Target, counts[e.Target], expected, rel)
		}
	}
	if chi > 13.8 {
		t.Fatalf("chi-square %.2f exceeds critical value", chi)
	}
	if len(counts) != 3 {
		t.Fatalf("drew targets outside catalog: %v", counts)
	}
}

func TestSeededSamplerIsDeterministic(t *testing.T) {
	c := mustCatalog(t,
		catalog.Entry{Target: "a", Weight: 2},
		catalog.Entry{Target: "b", Weight: 7},
		catalog.Entry{Target: "c", Weight: 1},
	)
	first, err := NewSeeded(c, 99)
	if err != nil {
		t.Fatalf("NewSeeded() error = %v", err)
	}
	second, _ := NewSeeded(c, 99)
	for i := 0; i < 1000; i++ {
		if a, b := first.Next(), second.Next(); a != b {
			t.Fatalf("draw %d diverged: %q vs %q", i, a, b)
		}
	}
}

func TestNewRejectsUnusableCatalog(t *testing.T) {
	if _, err := New(nil, rand.New(rand.NewSource(1))); !errors.Is(err, ErrNoWeight) {
		t.Fatalf("expected ErrNoWeight, got %v", err)
	}
	c := mustCatalog(t, catalog.Entry{Target: "a", Weight: 1})
	if _, err := New(c, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
