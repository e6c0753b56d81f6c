package quantile

import (
	"errors"
	"sort"
)

// MaxBuckets is the largest supported bucket budget. Bucket indices are
// stored as uint8 in order maps, and an index can reach the budget itself
// when the column maximum is appended as a trailing split point.
const MaxBuckets = 255

var (
	// ErrEmptyInput is returned when the value column is empty.
	ErrEmptyInput = errors.New("cannot cut empty column")

	// ErrInvalidBuckets is returned when the bucket budget is not in [1, MaxBuckets].
	ErrInvalidBuckets = errors.New("bucket budget must be in [1, 255]")
)

// Cut discretizes one numeric column into equal-frequency buckets.
//
// It returns one bucket index per input value (in original order) and the
// ascending split points that define the buckets. The bucket index of a
// value is the number of split points not exceeding it, so a value equal
// to a split point opens the bucket above it.
//
// Columns with at most buckets distinct values fall back to categorical
// behavior: every distinct value gets its own bucket and the sorted
// distinct values after the minimum become the split points. Otherwise
// the cut targets ceil(remaining/remainingBuckets) samples per bucket,
// re-targeting after every emitted split so later buckets absorb the
// remainder evenly, and the column maximum is appended as a final split
// point when the walk did not already end on it.
func Cut(values []float64, buckets int) ([]uint8, []float64, error) {
	if len(values) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if buckets < 1 || buckets > MaxBuckets {
		return nil, nil, ErrInvalidBuckets
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	splits := cut(sorted, buckets)

	bins := make([]uint8, len(values))
	for i, v := range values {
		bins[i] = uint8(UpperBound(splits, v))
	}
	return bins, splits, nil
}

// cut walks the sorted column once and emits split points.
func cut(sorted []float64, buckets int) []float64 {
	remaining := len(sorted)

	// Distinct values in ascending order, capped at buckets+1 entries.
	// Staying under the cap after the walk signals a low-cardinality
	// column that should be binned categorically.
	categories := make([]float64, 0, buckets+1)

	splits := make([]float64, 0, buckets)
	expected := ceilDiv(remaining, buckets)
	current := 0
	var last float64
	first := true

	for _, v := range sorted {
		if first || v != last {
			if len(categories) <= buckets {
				categories = append(categories, v)
			}
			if current >= expected {
				splits = append(splits, v)
				if len(splits) == buckets-1 {
					break
				}
				remaining -= current
				expected = ceilDiv(remaining, buckets-len(splits))
				current = 0
			}
			last = v
			first = false
		}
		current++
	}

	maxValue := sorted[len(sorted)-1]
	if len(categories) <= buckets {
		// One bucket per distinct value; the minimum needs no boundary.
		splits = append(splits[:0], categories[1:]...)
	} else if len(splits) == 0 || splits[len(splits)-1] != maxValue {
		// Bound the last bucket by the observed maximum, as xgboost does.
		splits = append(splits, maxValue)
	}
	return splits
}

// UpperBound returns the number of split points not exceeding v, which is
// the bucket index of v. Split points must be ascending; +Inf padding at
// the tail never changes the result for finite values.
func UpperBound(splits []float64, v float64) int {
	return sort.Search(len(splits), func(i int) bool { return splits[i] > v })
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
