package qbin

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/qbin/internal/quantile"
)

// MaxBuckets is the largest supported bucket budget.
const MaxBuckets = quantile.MaxBuckets

// Binner computes and holds the quantile binning of a single data
// partition: the per-sample, per-feature bucket index matrix ("order map")
// plus per-feature split points and bucket counts.
//
// A Binner starts unbuilt; every accessor returns ErrNotBuilt until Build
// succeeds. Build replaces all derived state atomically, so concurrent
// readers never observe a partially assembled map. A failed Build leaves
// any previously built state untouched.
type Binner struct {
	opts options

	mu    sync.RWMutex
	built *built
}

// built is the immutable result of one successful Build.
type built struct {
	buckets        int
	rows           int
	features       int
	orderMap       [][]uint8   // rows × features
	splitPoints    [][]float64 // features × buckets, +Inf padded
	featureBuckets []int       // buckets actually used per feature
}

// NewBinner creates an unbuilt Binner.
func NewBinner(optFns ...Option) *Binner {
	opts := options{
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Binner{opts: opts}
}

// Build discretizes every feature column of x into at most buckets
// equal-frequency buckets and assembles the order map.
//
// x is read-only input, rows × features; it is not retained. buckets is
// shared by all features and must be in [1, MaxBuckets]. Columns are cut
// independently and concurrently (see WithParallelism); the assembled
// state becomes visible only after every column has been written.
//
// Calling Build again fully replaces previously built state.
func (b *Binner) Build(x [][]float64, buckets int) error {
	err := b.build(x, buckets)
	b.opts.logger.LogBuild(context.Background(), len(x), cols(x), buckets, err)
	return err
}

func cols(x [][]float64) int {
	if len(x) == 0 {
		return 0
	}
	return len(x[0])
}

func (b *Binner) build(x [][]float64, buckets int) error {
	if buckets < 1 || buckets > MaxBuckets {
		return fmt.Errorf("%w: %d", ErrInvalidBuckets, buckets)
	}
	rows := len(x)
	if rows == 0 {
		return fmt.Errorf("%w: partition has no samples", ErrEmptyColumn)
	}
	features := len(x[0])
	for i, row := range x {
		if len(row) != features {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedMatrix, i, len(row), features)
		}
	}

	// One flat backing array keeps the order map contiguous.
	backing := make([]uint8, rows*features)
	orderMap := make([][]uint8, rows)
	for i := range orderMap {
		orderMap[i] = backing[i*features : (i+1)*features]
	}

	splitPoints := make([][]float64, features)
	featureBuckets := make([]int, features)

	g := new(errgroup.Group)
	g.SetLimit(b.parallelism())

	for f := 0; f < features; f++ {
		g.Go(func() error {
			col := make([]float64, rows)
			for i := range x {
				col[i] = x[i][f]
			}

			bins, splits, err := quantile.Cut(col, buckets)
			if err != nil {
				return fmt.Errorf("feature %d: %w", f, err)
			}

			// Workers write disjoint columns and slots, no lock needed.
			for i, bin := range bins {
				orderMap[i][f] = bin
			}
			featureBuckets[f] = len(splits) + 1
			splitPoints[f] = padSplits(splits, buckets)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	b.built = &built{
		buckets:        buckets,
		rows:           rows,
		features:       features,
		orderMap:       orderMap,
		splitPoints:    splitPoints,
		featureBuckets: featureBuckets,
	}
	b.mu.Unlock()
	return nil
}

func (b *Binner) parallelism() int {
	if b.opts.parallelism > 0 {
		return b.opts.parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// padSplits grows splits with the +Inf sentinel until the list has exactly
// buckets entries, so every feature reports a uniform-length list.
// Downstream consumers treat +Inf as "no more splits", not as a boundary.
func padSplits(splits []float64, buckets int) []float64 {
	padded := make([]float64, len(splits), buckets)
	copy(padded, splits)
	for len(padded) < buckets {
		padded = append(padded, math.Inf(1))
	}
	return padded
}

// snapshot returns the current built state, or ErrNotBuilt.
func (b *Binner) snapshot() (*built, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.built == nil {
		return nil, ErrNotBuilt
	}
	return b.built, nil
}

// OrderMap returns the bucket index matrix, rows × features.
// The returned slices are owned by the Binner and must not be modified.
func (b *Binner) OrderMap() ([][]uint8, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	return bt.orderMap, nil
}

// Buckets returns the bucket budget of the last Build.
func (b *Binner) Buckets() (int, error) {
	bt, err := b.snapshot()
	if err != nil {
		return 0, err
	}
	return bt.buckets, nil
}

// Features returns the number of feature columns.
func (b *Binner) Features() (int, error) {
	bt, err := b.snapshot()
	if err != nil {
		return 0, err
	}
	return bt.features, nil
}

// FeatureBuckets returns the number of buckets actually used per feature.
// This may be less than the budget for low-cardinality features.
// The returned slice is owned by the Binner and must not be modified.
func (b *Binner) FeatureBuckets() ([]int, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	return bt.featureBuckets, nil
}

// FeatureBucketAt returns the bucket count of one feature.
func (b *Binner) FeatureBucketAt(feature int) (int, error) {
	bt, err := b.snapshot()
	if err != nil {
		return 0, err
	}
	if feature < 0 || feature >= bt.features {
		return 0, &ErrFeatureOutOfRange{Index: feature, Features: bt.features}
	}
	return bt.featureBuckets[feature], nil
}

// SplitPoints returns the per-feature split-point lists. Every list has
// exactly buckets entries, ascending, with +Inf sentinel padding at the
// tail. The returned slices are owned by the Binner and must not be
// modified.
func (b *Binner) SplitPoints() ([][]float64, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	return bt.splitPoints, nil
}

// Shape returns the order map dimensions (rows, features).
func (b *Binner) Shape() (rows, features int, err error) {
	bt, err := b.snapshot()
	if err != nil {
		return 0, 0, err
	}
	return bt.rows, bt.features, nil
}

// BucketSelect returns the set of sample rows whose value for the given
// feature falls into the given bucket, as a roaring bitmap. This is the
// row-set form histogram builders consume when aggregating per bucket.
func (b *Binner) BucketSelect(feature, bucket int) (*roaring.Bitmap, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	if feature < 0 || feature >= bt.features {
		return nil, &ErrFeatureOutOfRange{Index: feature, Features: bt.features}
	}
	if bucket < 0 || bucket >= bt.featureBuckets[feature] {
		return nil, &ErrBucketOutOfRange{Index: bucket, Buckets: bt.featureBuckets[feature]}
	}

	rb := roaring.New()
	for i := 0; i < bt.rows; i++ {
		if int(bt.orderMap[i][feature]) == bucket {
			rb.Add(uint32(i))
		}
	}
	return rb, nil
}

// BucketCounts returns the number of samples per bucket for one feature.
func (b *Binner) BucketCounts(feature int) ([]int, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	if feature < 0 || feature >= bt.features {
		return nil, &ErrFeatureOutOfRange{Index: feature, Features: bt.features}
	}

	counts := make([]int, bt.featureBuckets[feature])
	for i := 0; i < bt.rows; i++ {
		counts[bt.orderMap[i][feature]]++
	}
	return counts, nil
}

// Model returns a serializable copy of the built split points and bucket
// counts, without the order map. See Model for the sharing workflow.
func (b *Binner) Model() (*Model, error) {
	bt, err := b.snapshot()
	if err != nil {
		return nil, err
	}

	splits := make([][]float64, bt.features)
	for f, padded := range bt.splitPoints {
		// Models carry the real boundaries only; padding is re-derived.
		unpadded := padded[:bt.featureBuckets[f]-1]
		splits[f] = append([]float64(nil), unpadded...)
	}

	return &Model{
		Buckets:        bt.buckets,
		SplitPoints:    splits,
		FeatureBuckets: append([]int(nil), bt.featureBuckets...),
	}, nil
}
