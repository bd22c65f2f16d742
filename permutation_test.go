package caviarpd

import (
	"sort"
	"testing"

	"golang.org/x/exp/rand"
)

func TestNaturalPermutation(t *testing.T) {
	p := NaturalPermutation(5)
	if p.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", p.Len())
	}
	for i := 0; i < 5; i++ {
		if p.At(i) != i {
			t.Errorf("At(%d) = %d, want %d", i, p.At(i), i)
		}
	}
}

func TestPermutationPrefixBefore(t *testing.T) {
	p := NaturalPermutation(4)
	prefix := p.PrefixBefore(2)
	if len(prefix) != 2 || prefix[0] != 0 || prefix[1] != 1 {
		t.Errorf("PrefixBefore(2) = %v, want [0 1]", prefix)
	}
	if got := p.PrefixBefore(0); len(got) != 0 {
		t.Errorf("PrefixBefore(0) has length %d, want 0", len(got))
	}
}

func TestPermutationShuffleIsBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NaturalPermutation(20)
	for trial := 0; trial < 10; trial++ {
		p.Shuffle(rng)
		seen := append([]int(nil), p.order...)
		sort.Ints(seen)
		for i, v := range seen {
			if v != i {
				t.Fatalf("trial %d: shuffled order is not a permutation: %v", trial, p.order)
			}
		}
	}
}

func TestPermutationShuffleDeterministic(t *testing.T) {
	p1 := NaturalPermutation(10)
	p2 := NaturalPermutation(10)
	p1.Shuffle(rand.New(rand.NewSource(7)))
	p2.Shuffle(rand.New(rand.NewSource(7)))
	for i := 0; i < 10; i++ {
		if p1.At(i) != p2.At(i) {
			t.Fatalf("same seed produced different orders: %v vs %v", p1.order, p2.order)
		}
	}
}
