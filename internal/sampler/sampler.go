// Package sampler draws catalog targets at random, biased by weight.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/torosent/captest/internal/catalog"
)

// ErrNoWeight is returned when a catalog cannot be sampled from.
var ErrNoWeight = errors.New("catalog must have at least one entry and a total weight >= 1")

// Source supplies uniformly distributed integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Sampler draws targets from a fixed catalog. It is not safe for concurrent
// use because the underlying Source is not; the catalog itself is never mutated.
type Sampler struct {
	entries []catalog.Entry
	total   int
	src     Source
}

// New returns a Sampler over c using src for draws.
func New(c *catalog.Catalog, src Source) (*Sampler, error) {
	if c == nil || c.Len() == 0 || c.TotalWeight() < 1 {
		return nil, ErrNoWeight
	}
	if src == nil {
		return nil, fmt.Errorf("sampler: source is required")
	}
	return &Sampler{entries: c.Entries(), total: c.TotalWeight(), src: src}, nil
}

// NewSeeded returns a Sampler with its own math/rand source. A zero seed uses
// the current time.
func NewSeeded(c *catalog.Catalog, seed int64) (*Sampler, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(c, rand.New(rand.NewSource(seed)))
}

// Next draws r uniformly from [1, total] and returns the matching target.
func (s *Sampler) Next() string {
	r := s.src.Intn(s.total) + 1
	return Pick(s.entries, s.total, r)
}

// TotalWeight returns the weight total draws are taken over.
func (s *Sampler) TotalWeight() int {
	return s.total
}

// Pick maps r in [1, total] onto the contiguous per-entry ranges laid out in
// catalog order. Values outside the range are clamped to the first or last entry.
func Pick(entries []catalog.Entry, total, r int) string {
	if len(entries) == 0 {
		return ""
	}
	if r < 1 {
		r = 1
	}
	if r > total {
		r = total
	}
	for _, e := range entries {
		r -= e.Weight
		if r <= 0 {
			return e.Target
		}
	}
	return entries[len(entries)-1].Target
}
