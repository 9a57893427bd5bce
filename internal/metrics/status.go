package metrics

import "sort"

// StatusBucket is the number of responses seen for one HTTP status code.
type StatusBucket struct {
	Code  int
	Count int64
}

// FlattenStatusBuckets converts a status->count map into rows sorted by
// descending count, then ascending code for stability.
func FlattenStatusBuckets(buckets map[int]int64) []StatusBucket {
	if len(buckets) == 0 {
		return nil
	}
	rows := make([]StatusBucket, 0, len(buckets))
	for code, count := range buckets {
		rows = append(rows, StatusBucket{Code: code, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// MergeCounts adds every count in src to dst, allocating dst when nil.
func MergeCounts[K comparable](dst, src map[K]int64) map[K]int64 {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[K]int64, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}
