package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseCSV reads `target,weight` records, one per line. Blank lines and lines
// starting with '#' are skipped.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var entries []Entry
	total := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(row) != 2 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected 2 fields (target,weight), got %d", len(row))}
		}
		target := strings.TrimSpace(row[0])
		if target == "" {
			return nil, &ParseError{Line: line, Err: errors.New("target is required")}
		}
		weight, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid weight %q", strings.TrimSpace(row[1]))}
		}
		if weight <= 0 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("weight must be >= 1, got %d", weight)}
		}
		if total > math.MaxInt-weight {
			return nil, &ParseError{Line: line, Err: errTotalOverflow}
		}
		total += weight
		entries = append(entries, Entry{Target: target, Weight: weight})
	}
	return entries, nil
}
