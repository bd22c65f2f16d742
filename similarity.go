package caviarpd

import "fmt"

// Similarity is a read-only square-matrix view over pairwise item
// similarities. The underlying buffer is owned by the caller, borrowed by
// the sampler, and must not be modified for the lifetime of a sampling
// run. Storage is column-major: entry (i, j) lives at data[n*j+i].
//
// The implementation does not require symmetry; supplying a symmetric
// matrix is the caller's responsibility.
type Similarity struct {
	data   []float64
	nItems int
}

// NewSimilarity wraps data as an n×n similarity view.
// Returns an error unless len(data) == n*n.
func NewSimilarity(data []float64, n int) (Similarity, error) {
	if n < 1 {
		return Similarity{}, fmt.Errorf("caviarpd: n must be >= 1, got %d", n)
	}
	if len(data) != n*n {
		return Similarity{}, fmt.Errorf("caviarpd: similarity length %d does not match n*n = %d (n=%d)", len(data), n*n, n)
	}
	return Similarity{data: data, nItems: n}, nil
}

// OnesSimilarity returns an n×n similarity with every entry equal to 1.
// With discount 0 this reduces the EPA distribution to the plain Ewens
// (Chinese restaurant process) partition prior.
func OnesSimilarity(n int) Similarity {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 1.0
	}
	return Similarity{data: data, nItems: n}
}

// IdentitySimilarity returns an n×n similarity with ones on the diagonal
// and zeros elsewhere.
func IdentitySimilarity(n int) Similarity {
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1.0
	}
	return Similarity{data: data, nItems: n}
}

// NItems returns the matrix dimension.
func (s Similarity) NItems() int { return s.nItems }

// At returns the similarity between items i and j.
func (s Similarity) At(i, j int) float64 {
	return s.data[s.nItems*j+i]
}

// SumRowSubset returns the sum of similarities from item row to each item
// in cols.
func (s Similarity) SumRowSubset(row int, cols []int) float64 {
	var sum float64
	for _, j := range cols {
		sum += s.data[s.nItems*j+row]
	}
	return sum
}

// SumTriangle returns the sum of the strictly lower triangle.
func (s Similarity) SumTriangle() float64 {
	var sum float64
	for i := 0; i < s.nItems; i++ {
		for j := 0; j < i; j++ {
			sum += s.At(i, j)
		}
	}
	return sum
}
