package caviarpd

import (
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// sampleBatch draws at least nDraws EPA partitions in parallel across
// worker lanes and collects them into a Clusterings.
//
// The per-lane draw count is rounded up, so the batch holds
// lanes*ceil(nDraws/lanes) draws in total, up to lanes-1 more than
// requested; the returned collection reports the true count. Each lane
// receives its own RNG seeded from the master RNG before any lane
// starts, its own permutation, and a disjoint slice of the preallocated
// label buffer, so lanes never synchronize and the output is
// reproducible given the master seed and lane count. A failing lane
// aborts the whole batch; partial results are never returned.
func sampleBatch(nDraws int, sim Similarity, mass, discount float64, lanes int, rng *rand.Rand) (*Clusterings, error) {
	if lanes <= 0 {
		lanes = runtime.NumCPU()
	}
	if nDraws < 1 {
		// Public entry points reject nDraws < 1; this guards internal
		// callers only.
		nDraws = 1
	}
	n := sim.NItems()
	perLane := 1 + (nDraws-1)/lanes
	total := lanes * perLane

	labels := make([]int, total*n)
	counts := make([]int, total)

	// Seeds are drawn on the coordinating goroutine so that the master
	// RNG is never shared across lanes.
	seeds := make([]uint64, lanes)
	for l := range seeds {
		seeds[l] = rng.Uint64()
	}

	var g errgroup.Group
	for l := 0; l < lanes; l++ {
		laneLabels := labels[l*perLane*n : (l+1)*perLane*n]
		laneCounts := counts[l*perLane : (l+1)*perLane]
		seed := seeds[l]
		g.Go(func() error {
			laneRNG := rand.New(rand.NewSource(seed))
			perm := NaturalPermutation(n)
			b := NewPartitionBuilder(n)
			for d := 0; d < perLane; d++ {
				perm.Shuffle(laneRNG)
				b.Reset()
				if err := sampleEPA(sim, perm, mass, discount, laneRNG, b); err != nil {
					return err
				}
				laneCounts[d] = b.CanonicalizeInto(laneLabels[d*n : (d+1)*n])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Clusterings{
		nDraws:    total,
		nItems:    n,
		labels:    labels,
		nClusters: counts,
	}, nil
}
