package qbin

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuilt is returned by accessors before the first successful Build.
	ErrNotBuilt = errors.New("order map not built")

	// ErrEmptyColumn is returned when a feature column has no samples.
	// Empty partitions are a caller contract violation, not a recoverable
	// condition: Build aborts and exposes no partial results.
	ErrEmptyColumn = errors.New("empty feature column")

	// ErrInvalidBuckets is returned when the bucket budget is outside [1, 255].
	// The upper limit exists because bucket indices are stored as uint8 and
	// an index can reach the budget itself.
	ErrInvalidBuckets = errors.New("invalid bucket budget")

	// ErrRaggedMatrix is returned when rows of the feature matrix disagree
	// on the number of columns.
	ErrRaggedMatrix = errors.New("ragged feature matrix")
)

// ErrFeatureOutOfRange indicates a feature index outside [0, Features).
type ErrFeatureOutOfRange struct {
	Index    int
	Features int
}

func (e *ErrFeatureOutOfRange) Error() string {
	return fmt.Sprintf("feature index out of range: %d (features: %d)", e.Index, e.Features)
}

// ErrBucketOutOfRange indicates a bucket index outside a feature's bucket count.
type ErrBucketOutOfRange struct {
	Index   int
	Buckets int
}

func (e *ErrBucketOutOfRange) Error() string {
	return fmt.Sprintf("bucket index out of range: %d (buckets: %d)", e.Index, e.Buckets)
}
