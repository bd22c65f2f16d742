package caviarpd

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

const (
	massFindTol     = 1e-5
	massFindMaxIter = 200

	// fallbackMass is substituted when inverting the expected cluster
	// count fails; the failure is surfaced as a warning, not an error.
	fallbackMass = 1.0
)

// ExpectedNumberOfClusters returns the expected number of clusters among
// nItems items under the Ewens prior with the given mass:
// sum_{i=0}^{nItems-1} mass/(mass+i). It is strictly increasing in mass.
func ExpectedNumberOfClusters(mass float64, nItems int) float64 {
	var sum float64
	for i := 0; i < nItems; i++ {
		sum += mass / (mass + float64(i))
	}
	return sum
}

// FindMass inverts ExpectedNumberOfClusters, returning the mass whose
// expected cluster count over nItems items equals target. The root is
// bracketed on [eps, target]; targets outside the attainable range
// (1, nItems) cannot be bracketed and yield an error.
func FindMass(target float64, nItems int) (float64, error) {
	f := func(mass float64) float64 {
		return ExpectedNumberOfClusters(mass, nItems) - target
	}
	eps := math.Nextafter(1, 2) - 1
	return findRoot(f, eps, target, massFindTol, massFindMaxIter)
}

// buildMassGrid constructs the shuffled list of mass values visited by
// the calibration loop, one per sampling batch.
//
// With no explicit masses, gridLength equally spaced expected-cluster
// targets between minClusters and maxClusters are each inverted through
// FindMass; an inversion failure substitutes fallbackMass and records a
// warning. A single explicit mass is broadcast to gridLength copies; a
// list of exactly gridLength masses is used as-is. The grid is shuffled
// so that state carried across grid points by the calibration loop is
// not biased by a monotone visitation order.
func buildMassGrid(minClusters, maxClusters float64, gridLength int, masses []float64, nItems int, rng *rand.Rand) ([]float64, []string, error) {
	var warnings []string
	var grid []float64
	switch {
	case len(masses) == 0:
		step := (maxClusters - minClusters) / float64(gridLength)
		grid = make([]float64, gridLength)
		for x := range grid {
			target := minClusters + float64(x)*step
			mass, err := FindMass(target, nItems)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("mass inversion failed for expected cluster count %g (n=%d), using mass %g: %v", target, nItems, fallbackMass, err))
				mass = fallbackMass
			}
			grid[x] = mass
		}
	case len(masses) == 1:
		grid = make([]float64, gridLength)
		for x := range grid {
			grid[x] = masses[0]
		}
	case len(masses) == gridLength:
		grid = append([]float64(nil), masses...)
	default:
		return nil, nil, fmt.Errorf("caviarpd: Masses must have length 1 or GridLength (%d), got %d", gridLength, len(masses))
	}
	for _, mass := range grid {
		if !(mass > 0) {
			return nil, nil, fmt.Errorf("caviarpd: grid mass must be positive, got %g", mass)
		}
	}
	rng.Shuffle(len(grid), func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})
	return grid, warnings, nil
}
