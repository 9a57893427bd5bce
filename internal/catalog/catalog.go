// Package catalog loads the weighted target catalog a capacity test replays.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmpty is returned when a source yields no entries.
var ErrEmpty = errors.New("catalog is empty")

var errTotalOverflow = errors.New("total weight overflows int")

// Entry is a single target and its relative weight.
type Entry struct {
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Catalog is an ordered, immutable set of weighted targets.
type Catalog struct {
	entries     []Entry
	totalWeight int
}

// ParseError reports a malformed record in a catalog source.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("catalog line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("catalog: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// New validates entries and computes the total weight. The slice is copied so
// later changes by the caller do not leak into the catalog.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	copied := make([]Entry, len(entries))
	total := 0
	for i, e := range entries {
		target := strings.TrimSpace(e.Target)
		if target == "" {
			return nil, &ParseError{Line: i + 1, Err: errors.New("target is required")}
		}
		if e.Weight <= 0 {
			return nil, &ParseError{Line: i + 1, Err: fmt.Errorf("weight for %q must be >= 1, got %d", target, e.Weight)}
		}
		if total > math.MaxInt-e.Weight {
			return nil, &ParseError{Line: i + 1, Err: errTotalOverflow}
		}
		copied[i] = Entry{Target: target, Weight: e.Weight}
		total += e.Weight
	}
	return &Catalog{entries: copied, totalWeight: total}, nil
}

// Entries returns a copy of the entries in load order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// TotalWeight returns the sum of all entry weights.
func (c *Catalog) TotalWeight() int {
	if c == nil {
		return 0
	}
	return c.totalWeight
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
