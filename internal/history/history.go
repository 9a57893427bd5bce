// Package history keeps an append-only log of finished runs, one JSON
// object per line. Writers and readers coordinate through a sidecar lock
// file so concurrent runs sharing a history file never interleave lines.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/torosent/captest/internal/metrics"
)

const lockRetry = 25 * time.Millisecond

// maxLine bounds a single history record.
const maxLine = 1 << 20

// Record is one history entry.
type Record struct {
	RecordedAt time.Time `json:"recorded_at"`
	Source     string    `json:"source,omitempty"`
	BaseURL    string    `json:"base_url,omitempty"`
	metrics.Summary
}

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// Append writes rec as a single line at the end of path, creating the file
// if needed. It waits for the lock until ctx is done.
func Append(ctx context.Context, path string, rec Record) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode history record: %w", err)
	}
	line = append(line, '\n')

	lock := flock.New(LockPath(path))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock history %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock history %s: not acquired", path)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history %s: %w", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write history %s: %w", path, err)
	}
	return f.Close()
}

// Read returns every record in path in the order they were appended. A
// missing file yields no records.
func Read(ctx context.Context, path string) ([]Record, error) {
	lock := flock.New(LockPath(path))
	locked, err := lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("lock history %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock history %s: not acquired", path)
	}
	defer lock.Unlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("history %s line %d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	return records, nil
}
