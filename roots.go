package caviarpd

import (
	"fmt"
	"math"
)

// findRoot locates a root of f within [lo, hi] using the Illinois variant
// of regula falsi. The bracket must contain a sign change. Iteration
// stops once the bracket width or the residual falls below tol; if the
// budget of maxIter iterations is exhausted first, an error is returned.
func findRoot(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, error) {
	if lo >= hi {
		return 0, fmt.Errorf("caviarpd: invalid root bracket [%g, %g]", lo, hi)
	}
	flo := f(lo)
	fhi := f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, fmt.Errorf("caviarpd: no sign change over root bracket [%g, %g]", lo, hi)
	}
	side := 0
	x := lo
	for iter := 0; iter < maxIter; iter++ {
		x = (flo*hi - fhi*lo) / (flo - fhi)
		fx := f(x)
		if math.Abs(fx) < tol || hi-lo < tol {
			return x, nil
		}
		if fx*fhi < 0 {
			lo, flo = x, fx
			if side == -1 {
				// Illinois damping: halve the stagnant endpoint's
				// function value to force bracket shrinkage.
				fhi /= 2
			}
			side = -1
		} else {
			hi, fhi = x, fx
			if side == 1 {
				flo /= 2
			}
			side = 1
		}
	}
	return 0, fmt.Errorf("caviarpd: root finding did not converge in %d iterations (bracket [%g, %g])", maxIter, lo, hi)
}
