package caviarpd

import "golang.org/x/exp/rand"

// Permutation is a mutable ordering of the item indices {0, ..., n-1}.
// Each sampling task owns its permutation exclusively and reshuffles it
// before every draw.
type Permutation struct {
	order []int
}

// NaturalPermutation returns the identity ordering 0, 1, ..., n-1.
func NaturalPermutation(n int) *Permutation {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return &Permutation{order: order}
}

// Len returns the number of items.
func (p *Permutation) Len() int { return len(p.order) }

// At returns the item visited at position i.
func (p *Permutation) At(i int) int { return p.order[i] }

// PrefixBefore returns the items visited before position i as a shared
// view into the permutation. The view is invalidated by the next Shuffle.
func (p *Permutation) PrefixBefore(i int) []int { return p.order[:i] }

// Shuffle randomizes the ordering in place.
func (p *Permutation) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.order), func(i, j int) {
		p.order[i], p.order[j] = p.order[j], p.order[i]
	})
}
