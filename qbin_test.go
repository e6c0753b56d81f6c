package qbin

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qbin/testutil"
)

func inf() float64 { return math.Inf(1) }

func column(values ...float64) [][]float64 {
	x := make([][]float64, len(values))
	for i, v := range values {
		x[i] = []float64{v}
	}
	return x
}

func TestBinnerNotBuilt(t *testing.T) {
	b := NewBinner()

	_, err := b.OrderMap()
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, err = b.SplitPoints()
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, err = b.FeatureBuckets()
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, _, err = b.Shape()
	assert.ErrorIs(t, err, ErrNotBuilt)

	_, err = b.Model()
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestBinnerBuildValidation(t *testing.T) {
	b := NewBinner()

	t.Run("EmptyMatrix", func(t *testing.T) {
		err := b.Build(nil, 4)
		assert.ErrorIs(t, err, ErrEmptyColumn)
	})

	t.Run("InvalidBuckets", func(t *testing.T) {
		x := column(1, 2, 3)
		assert.ErrorIs(t, b.Build(x, 0), ErrInvalidBuckets)
		assert.ErrorIs(t, b.Build(x, -1), ErrInvalidBuckets)
		assert.ErrorIs(t, b.Build(x, MaxBuckets+1), ErrInvalidBuckets)
	})

	t.Run("RaggedMatrix", func(t *testing.T) {
		x := [][]float64{{1, 2}, {3}}
		assert.ErrorIs(t, b.Build(x, 4), ErrRaggedMatrix)
	})

	t.Run("FailedBuildLeavesNoState", func(t *testing.T) {
		_, err := b.OrderMap()
		assert.ErrorIs(t, err, ErrNotBuilt)
	})
}

func TestBinnerEqualFrequency(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(1, 1, 2, 3, 4, 5, 6, 7, 8, 9), 4))

	splits, err := b.SplitPoints()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 6, 8, 9}}, splits)

	fb, err := b.FeatureBuckets()
	require.NoError(t, err)
	assert.Equal(t, []int{5}, fb)

	om, err := b.OrderMap()
	require.NoError(t, err)
	want := []uint8{0, 0, 0, 1, 1, 1, 2, 2, 3, 4}
	for i, row := range om {
		assert.Equal(t, want[i], row[0], "row %d", i)
	}
}

func TestBinnerConstantColumn(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(5, 5, 5, 5, 5), 4))

	splits, err := b.SplitPoints()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{inf(), inf(), inf(), inf()}}, splits)

	n, err := b.FeatureBucketAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	om, err := b.OrderMap()
	require.NoError(t, err)
	for i, row := range om {
		assert.Equal(t, uint8(0), row[0], "row %d", i)
	}
}

func TestBinnerLowCardinality(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(10, 20), 4))

	splits, err := b.SplitPoints()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{20, inf(), inf(), inf()}}, splits)

	n, err := b.FeatureBucketAt(0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	om, err := b.OrderMap()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), om[0][0])
	assert.Equal(t, uint8(1), om[1][0])
}

func TestBinnerMultiFeature(t *testing.T) {
	rng := testutil.NewRNG(42)
	x := testutil.Matrix(
		rng.UniformColumn(200, 0, 100),
		rng.GaussianColumn(200, 0, 1),
		rng.CategoricalColumn(200, 3),
	)

	b := NewBinner()
	require.NoError(t, b.Build(x, 8))

	rows, features, err := b.Shape()
	require.NoError(t, err)
	assert.Equal(t, 200, rows)
	assert.Equal(t, 3, features)

	buckets, err := b.Buckets()
	require.NoError(t, err)
	assert.Equal(t, 8, buckets)

	splits, err := b.SplitPoints()
	require.NoError(t, err)
	fb, err := b.FeatureBuckets()
	require.NoError(t, err)
	om, err := b.OrderMap()
	require.NoError(t, err)

	for f := 0; f < features; f++ {
		assert.Len(t, splits[f], 8, "feature %d", f)
		assert.GreaterOrEqual(t, fb[f], 1, "feature %d", f)

		// Ascending with +Inf padding at the tail only.
		for i := 1; i < len(splits[f]); i++ {
			if math.IsInf(splits[f][i-1], 1) {
				assert.True(t, math.IsInf(splits[f][i], 1), "feature %d", f)
			} else {
				assert.Less(t, splits[f][i-1], splits[f][i], "feature %d", f)
			}
		}

		// Every bucket index re-derives from the split points.
		for i := 0; i < rows; i++ {
			want := testutil.ReferenceBucket(splits[f], x[i][f])
			assert.Equal(t, uint8(want), om[i][f], "row %d feature %d", i, f)
		}
	}

	// The categorical feature uses exactly its distinct count.
	assert.Equal(t, 3, fb[2])
}

func TestBinnerBucketIndexWithinBudget(t *testing.T) {
	rng := testutil.NewRNG(7)
	x := testutil.Matrix(rng.UniformColumn(500, -1, 1))

	for _, buckets := range []int{1, 2, 5, 16} {
		b := NewBinner()
		require.NoError(t, b.Build(x, buckets))

		om, err := b.OrderMap()
		require.NoError(t, err)
		fb, err := b.FeatureBuckets()
		require.NoError(t, err)

		for i, row := range om {
			assert.LessOrEqual(t, int(row[0]), buckets, "buckets=%d row %d", buckets, i)
			assert.Less(t, int(row[0]), fb[0], "buckets=%d row %d", buckets, i)
		}
	}
}

func TestBinnerRebuildReplacesState(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(1, 2, 3, 4), 2))

	rows, features, err := b.Shape()
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, features)

	x := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50}, {6, 60}}
	require.NoError(t, b.Build(x, 3))

	rows, features, err = b.Shape()
	require.NoError(t, err)
	assert.Equal(t, 6, rows)
	assert.Equal(t, 2, features)

	buckets, err := b.Buckets()
	require.NoError(t, err)
	assert.Equal(t, 3, buckets)
}

func TestBinnerFailedRebuildKeepsState(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(1, 2, 3, 4), 2))

	err := b.Build([][]float64{{1, 2}, {3}}, 2)
	require.ErrorIs(t, err, ErrRaggedMatrix)

	rows, features, err := b.Shape()
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, features)
}

func TestBinnerParallelismDeterministic(t *testing.T) {
	rng := testutil.NewRNG(1234)
	x := rng.UniformMatrix(300, 12)

	serial := NewBinner(WithParallelism(1))
	require.NoError(t, serial.Build(x, 16))

	parallel := NewBinner(WithParallelism(8))
	require.NoError(t, parallel.Build(x, 16))

	om1, err := serial.OrderMap()
	require.NoError(t, err)
	om2, err := parallel.OrderMap()
	require.NoError(t, err)
	assert.Equal(t, om1, om2)

	sp1, err := serial.SplitPoints()
	require.NoError(t, err)
	sp2, err := parallel.SplitPoints()
	require.NoError(t, err)
	assert.Equal(t, sp1, sp2)
}

func TestBinnerBucketSelect(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(1, 1, 2, 3, 4, 5, 6, 7, 8, 9), 4))

	rb, err := b.BucketSelect(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, rb.ToArray())

	rb, err = b.BucketSelect(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9}, rb.ToArray())

	t.Run("FeatureOutOfRange", func(t *testing.T) {
		_, err := b.BucketSelect(1, 0)
		var oor *ErrFeatureOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 1, oor.Index)
		assert.Equal(t, 1, oor.Features)
	})

	t.Run("BucketOutOfRange", func(t *testing.T) {
		_, err := b.BucketSelect(0, 5)
		var oor *ErrBucketOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 5, oor.Index)
		assert.Equal(t, 5, oor.Buckets)
	})
}

func TestBinnerBucketCounts(t *testing.T) {
	b := NewBinner()
	require.NoError(t, b.Build(column(1, 1, 2, 3, 4, 5, 6, 7, 8, 9), 4))

	counts, err := b.BucketCounts(0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 2, 1, 1}, counts)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 10, total)

	_, err = b.BucketCounts(3)
	var oor *ErrFeatureOutOfRange
	assert.ErrorAs(t, err, &oor)
}

func TestBinnerModel(t *testing.T) {
	rng := testutil.NewRNG(99)
	x := testutil.Matrix(
		rng.UniformColumn(100, 0, 10),
		rng.CategoricalColumn(100, 2),
	)

	b := NewBinner()
	require.NoError(t, b.Build(x, 5))

	m, err := b.Model()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 5, m.Buckets)
	assert.Equal(t, 2, m.Features())

	fb, err := b.FeatureBuckets()
	require.NoError(t, err)
	assert.Equal(t, fb, m.FeatureBuckets)

	// Model assignment reproduces the order map built from the same data.
	om, err := b.OrderMap()
	require.NoError(t, err)
	for f := 0; f < 2; f++ {
		col := make([]float64, len(x))
		for i := range x {
			col[i] = x[i][f]
		}
		bins, err := m.AssignColumn(f, col)
		require.NoError(t, err)
		for i := range bins {
			assert.Equal(t, om[i][f], bins[i], "row %d feature %d", i, f)
		}
	}

	// Mutating the model must not reach back into the binner.
	m.SplitPoints[0][0] = -12345
	splits, err := b.SplitPoints()
	require.NoError(t, err)
	assert.NotEqual(t, -12345.0, splits[0][0])
}

func TestBinnerWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := NewBinner(WithLogger(logger))
	require.NoError(t, b.Build(column(1, 2, 3), 2))
	assert.Contains(t, buf.String(), "build completed")

	buf.Reset()
	require.Error(t, b.Build(nil, 2))
	assert.Contains(t, buf.String(), "build failed")
}
