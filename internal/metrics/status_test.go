package metrics

import (
	"reflect"
	"testing"
)

func TestFlattenStatusBuckets(t *testing.T) {
	tests := []struct {
		name    string
		buckets map[int]int64
		want    []StatusBucket
	}{
		{
			name:    "nil buckets",
			buckets: nil,
			want:    nil,
		},
		{
			name:    "single bucket",
			buckets: map[int]int64{200: 10},
			want:    []StatusBucket{{Code: 200, Count: 10}},
		},
		{
			name:    "sorted by count desc then code",
			buckets: map[int]int64{503: 5, 200: 10, 404: 5},
			want: []StatusBucket{
				{Code: 200, Count: 10},
				{Code: 404, Count: 5},
				{Code: 503, Count: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenStatusBuckets(tt.buckets)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlattenStatusBuckets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeCounts(t *testing.T) {
	var dst map[int]int64
	dst = MergeCounts(dst, map[int]int64{200: 1})
	dst = MergeCounts(dst, map[int]int64{200: 2, 500: 1})
	dst = MergeCounts(dst, nil)
	want := map[int]int64{200: 3, 500: 1}
	if !reflect.DeepEqual(dst, want) {
		t.Fatalf("MergeCounts() = %v, want %v", dst, want)
	}
}
