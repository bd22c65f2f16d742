package caviarpd

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestEdgeCase_SingleItem(t *testing.T) {
	draws, err := Sample(OnesSimilarity(1), SampleConfig{NSamples: 5, Mass: 1.0, Lanes: 1, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := 0; j < draws.NDraws(); j++ {
		if draws.NClusters(j) != 1 {
			t.Errorf("draw %d: %d clusters, want 1", j, draws.NClusters(j))
		}
		if draws.Labels(j)[0] != 0 {
			t.Errorf("draw %d: label %d, want 0", j, draws.Labels(j)[0])
		}
	}
}

func TestEdgeCase_IdentitySimilarityForcesSingletons(t *testing.T) {
	// With zero similarity to every previously visited item, existing
	// clusters all carry zero weight and the fresh cluster always wins.
	sim := IdentitySimilarity(4)
	rng := rand.New(rand.NewSource(1))
	perm := NaturalPermutation(4)
	for trial := 0; trial < 10; trial++ {
		perm.Shuffle(rng)
		_, k, err := DrawEPA(sim, perm, 0.5, 0.0, rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if k != 4 {
			t.Errorf("trial %d: %d clusters, want 4 singletons", trial, k)
		}
	}
}

func TestEdgeCase_AllZeroSimilarity(t *testing.T) {
	// Degenerate input: the sampler still terminates, producing
	// singletons via the fresh-cluster weight.
	sim, err := NewSimilarity(make([]float64, 9), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	draws, err := Sample(sim, SampleConfig{NSamples: 10, Mass: 1.0, Lanes: 1, Seed: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := 0; j < draws.NDraws(); j++ {
		if draws.NClusters(j) != 3 {
			t.Errorf("draw %d: %d clusters, want 3", j, draws.NClusters(j))
		}
	}
}

func TestEdgeCase_DiagDominantClusterCountsInRange(t *testing.T) {
	draws, err := Sample(diagDominantSimilarity(5), SampleConfig{NSamples: 100, Mass: 1.0, Lanes: 2, Seed: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := 0; j < draws.NDraws(); j++ {
		if k := draws.NClusters(j); k < 1 || k > 5 {
			t.Errorf("draw %d: cluster count %d outside [1, 5]", j, k)
		}
	}
}
