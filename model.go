package qbin

import (
	"fmt"
	"math"

	"github.com/hupe1980/qbin/internal/quantile"
)

// Model is the serializable view of a built binning: the bucket budget,
// the per-feature split points and the per-feature bucket counts. It
// excludes the order map, which stays with the partition that built it.
//
// Models exist so that sibling partitions can bin against identical
// boundaries: one worker builds, publishes the model through the snapshot
// package, and the others assign their own samples with Assign or
// AssignColumn.
//
// SplitPoints carries the real (unpadded) boundaries; +Inf sentinel
// padding is a presentation concern of Binner.SplitPoints and is
// re-derived with PaddedSplitPoints when needed. Unpadded boundaries also
// keep the model JSON-safe.
type Model struct {
	Buckets        int         `json:"buckets" yaml:"buckets"`
	SplitPoints    [][]float64 `json:"split_points" yaml:"split_points"`
	FeatureBuckets []int       `json:"feature_buckets" yaml:"feature_buckets"`
}

// Features returns the number of features the model was built from.
func (m *Model) Features() int {
	return len(m.SplitPoints)
}

// Validate checks the structural invariants of a model, typically after
// deserialization: a positive bucket budget, matching per-feature lists,
// strictly ascending finite split points, and bucket counts equal to one
// more than the number of split points.
func (m *Model) Validate() error {
	if m.Buckets < 1 || m.Buckets > MaxBuckets {
		return fmt.Errorf("%w: %d", ErrInvalidBuckets, m.Buckets)
	}
	if len(m.FeatureBuckets) != len(m.SplitPoints) {
		return fmt.Errorf("model: %d bucket counts for %d features", len(m.FeatureBuckets), len(m.SplitPoints))
	}
	for f, splits := range m.SplitPoints {
		if m.FeatureBuckets[f] != len(splits)+1 {
			return fmt.Errorf("model: feature %d reports %d buckets for %d split points", f, m.FeatureBuckets[f], len(splits))
		}
		for i, s := range splits {
			if math.IsInf(s, 0) || math.IsNaN(s) {
				return fmt.Errorf("model: feature %d split %d is not finite", f, i)
			}
			if i > 0 && splits[i-1] >= s {
				return fmt.Errorf("model: feature %d split points not strictly ascending at %d", f, i)
			}
		}
	}
	return nil
}

// Assign returns the bucket index of v for the given feature: the number
// of split points not exceeding v, the same rule Build uses.
func (m *Model) Assign(feature int, v float64) (int, error) {
	if feature < 0 || feature >= len(m.SplitPoints) {
		return 0, &ErrFeatureOutOfRange{Index: feature, Features: len(m.SplitPoints)}
	}
	return quantile.UpperBound(m.SplitPoints[feature], v), nil
}

// AssignColumn assigns every value of a new column to its bucket.
func (m *Model) AssignColumn(feature int, values []float64) ([]uint8, error) {
	if feature < 0 || feature >= len(m.SplitPoints) {
		return nil, &ErrFeatureOutOfRange{Index: feature, Features: len(m.SplitPoints)}
	}
	splits := m.SplitPoints[feature]
	bins := make([]uint8, len(values))
	for i, v := range values {
		bins[i] = uint8(quantile.UpperBound(splits, v))
	}
	return bins, nil
}

// PaddedSplitPoints returns the split points of one feature padded with
// the +Inf sentinel to the bucket budget, matching Binner.SplitPoints.
func (m *Model) PaddedSplitPoints(feature int) ([]float64, error) {
	if feature < 0 || feature >= len(m.SplitPoints) {
		return nil, &ErrFeatureOutOfRange{Index: feature, Features: len(m.SplitPoints)}
	}
	return padSplits(m.SplitPoints[feature], m.Buckets), nil
}

