package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// UniformColumn generates a column with values in [minVal, maxVal).
func (r *RNG) UniformColumn(n int, minVal, maxVal float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	col := make([]float64, n)
	for i := range col {
		col[i] = minVal + r.rand.Float64()*span
	}
	return col
}

// GaussianColumn generates a column from a normal distribution.
func (r *RNG) GaussianColumn(n int, mean, stddev float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	col := make([]float64, n)
	for i := range col {
		col[i] = mean + r.rand.NormFloat64()*stddev
	}
	return col
}

// CategoricalColumn generates a column drawing from exactly k distinct
// values, for exercising the low-cardinality path.
func (r *RNG) CategoricalColumn(n, k int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	col := make([]float64, n)
	for i := range col {
		col[i] = float64(r.rand.Intn(k))
	}
	// Guarantee all k values appear so the distinct count is exact.
	for v := 0; v < k && v < n; v++ {
		col[v] = float64(v)
	}
	return col
}

// Matrix assembles columns into a rows × features matrix.
func Matrix(columns ...[]float64) [][]float64 {
	if len(columns) == 0 {
		return nil
	}
	rows := len(columns[0])
	x := make([][]float64, rows)
	data := make([]float64, rows*len(columns))
	for i := range x {
		row := data[i*len(columns) : (i+1)*len(columns)]
		for f, col := range columns {
			row[f] = col[i]
		}
		x[i] = row
	}
	return x
}

// UniformMatrix generates a rows × features matrix with values in [0, 1).
func (r *RNG) UniformMatrix(rows, features int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, rows*features)
	x := make([][]float64, rows)
	for i := range x {
		row := data[i*features : (i+1)*features]
		for j := range row {
			row[j] = r.rand.Float64()
		}
		x[i] = row
	}
	return x
}

// ReferenceBucket computes the bucket of v the slow, obvious way: the
// number of split points not exceeding v, ignoring +Inf padding.
func ReferenceBucket(splits []float64, v float64) int {
	b := 0
	for _, s := range splits {
		if math.IsInf(s, 1) {
			break
		}
		if s <= v {
			b++
		}
	}
	return b
}
