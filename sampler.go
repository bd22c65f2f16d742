package caviarpd

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// sampleEPA draws one partition from the EPA distribution into b, which
// must be empty and sized for sim. Items are visited in permutation
// order; each is allocated to an existing cluster with weight
// proportional to its accumulated similarity to the cluster's members, or
// to a fresh cluster with weight mass + discount*q where q is the number
// of clusters formed so far.
//
// The first visited item has no predecessors, so the existing-cluster
// candidate set is empty and it always opens cluster 0. When the
// similarity from the item to all previously visited items sums to zero,
// every existing-cluster weight is zero and the fresh cluster wins
// unconditionally (mass is positive).
func sampleEPA(sim Similarity, perm *Permutation, mass, discount float64, rng *rand.Rand, b *PartitionBuilder) error {
	n := sim.NItems()
	weights := make([]float64, 0, 8)
	for i := 0; i < n; i++ {
		ii := perm.At(i)
		q := float64(b.NClusters())
		kt := 0.0
		if denom := sim.SumRowSubset(ii, perm.PrefixBefore(i)); denom > 0 {
			kt = (float64(i) - discount*q) / denom
		}
		k := b.NClusters()
		weights = weights[:0]
		for label := 0; label <= k; label++ {
			if label == k {
				weights = append(weights, mass+discount*q)
			} else {
				weights = append(weights, kt*sim.SumRowSubset(ii, b.ItemsOf(label)))
			}
		}
		choice, err := weightedChoice(weights, rng)
		if err != nil {
			return fmt.Errorf("caviarpd: allocating item %d: %w", ii, err)
		}
		b.Allocate(ii, choice)
	}
	return nil
}

// DrawEPA draws a single partition from the EPA distribution, visiting
// items in the given permutation order. It returns the canonicalized
// label vector and its cluster count. The permutation is used as-is;
// callers wanting permutation averaging should Shuffle it first.
func DrawEPA(sim Similarity, perm *Permutation, mass, discount float64, rng *rand.Rand) ([]int, int, error) {
	if sim.NItems() != perm.Len() {
		return nil, 0, fmt.Errorf("caviarpd: similarity is %d x %d but permutation has %d items", sim.NItems(), sim.NItems(), perm.Len())
	}
	if err := validateMassDiscount(mass, discount); err != nil {
		return nil, 0, err
	}
	b := NewPartitionBuilder(sim.NItems())
	if err := sampleEPA(sim, perm, mass, discount, rng, b); err != nil {
		return nil, 0, err
	}
	labels := make([]int, sim.NItems())
	k := b.CanonicalizeInto(labels)
	return labels, k, nil
}

func validateMassDiscount(mass, discount float64) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return fmt.Errorf("caviarpd: mass must be positive and finite, got %g", mass)
	}
	if discount < 0 || discount >= 1 {
		return fmt.Errorf("caviarpd: discount must be in [0, 1), got %g", discount)
	}
	return nil
}

// weightedChoice selects an index with probability proportional to
// weights. An all-zero weight vector falls back to a uniform choice over
// the candidates; any negative or non-finite weight is an error.
func weightedChoice(weights []float64, rng *rand.Rand) (int, error) {
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("degenerate selection weight %g", w)
		}
	}
	total := floats.Sum(weights)
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("degenerate selection weights (sum %g)", total)
	}
	if total == 0 {
		return rng.Intn(len(weights)), nil
	}
	u := rng.Float64() * total
	var acc float64
	for idx, w := range weights {
		acc += w
		if u < acc {
			return idx, nil
		}
	}
	return len(weights) - 1, nil
}
