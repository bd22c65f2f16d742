package caviarpd

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config controls calibrated estimation (Calibrate). MinClusters and
// MaxClusters must be set by the caller; start with DefaultConfig for
// the remaining fields.
type Config struct {
	// MinClusters and MaxClusters bound the acceptable number of
	// clusters in the point estimate. They are swapped if reversed.
	MinClusters float64
	MaxClusters float64

	// Masses optionally overrides the mass grid: a single value is
	// broadcast to every grid point, a list of exactly GridLength values
	// is used as-is. When empty, the grid is derived by inverting the
	// expected-cluster-count formula across GridLength equally spaced
	// targets between MinClusters and MaxClusters.
	Masses []float64

	// NSamples is the number of EPA draws per grid mass; must be at
	// least 1. Default: 1000.
	NSamples int

	// GridLength is the number of candidate masses swept. It is forced
	// to at least 2, or exactly 1 when MinClusters == MaxClusters.
	// Default: 5.
	GridLength int

	// N0 concentrates the Beta proposal for the loss weight around the
	// previous grid point's accepted weight; larger values explore less.
	// Taken as an absolute value. Default: 20.
	N0 float64

	// Tol is the bracket-width tolerance of the weight bisection.
	// Taken as an absolute value. Default: 0.005.
	Tol float64

	// Discount is the EPA discount parameter, in [0, 1). Default: 0.
	Discount float64

	// Loss selects Binder versus variation-of-information loss for the
	// point estimate. Default: VILoss.
	Loss LossKind

	// SizeCap caps the number of clusters the minimizer may return.
	// 0 means unlimited.
	SizeCap int

	// NRuns is the minimizer's candidate-start budget. 0 means 16.
	NRuns int

	// Lanes is the number of parallel sampling lanes. 0 means
	// runtime.NumCPU().
	Lanes int

	// Seed seeds the master RNG. Runs are reproducible given the same
	// seed and lane count.
	Seed uint64

	// Minimizer overrides the partition-summarization oracle.
	// nil means DrawsMinimizer{NRuns: NRuns, SizeCap: SizeCap}.
	Minimizer Minimizer
}

// DefaultConfig returns a Config with reasonable defaults for everything
// but the cluster-count bounds.
func DefaultConfig() Config {
	return Config{
		NSamples:   1000,
		GridLength: 5,
		N0:         20,
		Tol:        0.005,
		Loss:       VILoss,
		NRuns:      16,
	}
}

// Result is the output of Calibrate.
type Result struct {
	// Estimate assigns each item a cluster label in {0, ..., k-1}.
	Estimate []int

	// NClusters is the number of clusters in Estimate.
	NClusters int

	// Samples holds the NSamples draws of every grid mass, stacked in
	// grid-visitation order: draws [g*NSamples, (g+1)*NSamples) belong
	// to the g-th visited mass.
	Samples *Clusterings

	// Warnings reports recoverable numerical fallbacks, such as a mass
	// inversion that did not converge.
	Warnings []string
}

func applyCalibrationDefaults(cfg *Config) {
	if cfg.MinClusters > cfg.MaxClusters {
		cfg.MinClusters, cfg.MaxClusters = cfg.MaxClusters, cfg.MinClusters
	}
	if cfg.MinClusters == cfg.MaxClusters {
		// A degenerate range needs only one batch; the grid collapses.
		cfg.GridLength = 1
	} else if cfg.GridLength < 2 {
		cfg.GridLength = 2
	}
	cfg.N0 = math.Abs(cfg.N0)
	cfg.Tol = math.Abs(cfg.Tol)
	if cfg.Minimizer == nil {
		cfg.Minimizer = DrawsMinimizer{NRuns: cfg.NRuns, SizeCap: cfg.SizeCap}
	}
}

func validateCalibrationConfig(cfg *Config) error {
	if math.IsNaN(cfg.MinClusters) || cfg.MinClusters < 1 {
		return fmt.Errorf("caviarpd: MinClusters must be >= 1, got %g", cfg.MinClusters)
	}
	if math.IsInf(cfg.MaxClusters, 0) || math.IsNaN(cfg.MaxClusters) {
		return fmt.Errorf("caviarpd: MaxClusters must be finite, got %g", cfg.MaxClusters)
	}
	if cfg.NSamples < 1 {
		return fmt.Errorf("caviarpd: NSamples must be >= 1, got %d", cfg.NSamples)
	}
	if cfg.Discount < 0 || cfg.Discount >= 1 {
		return fmt.Errorf("caviarpd: Discount must be in [0, 1), got %g", cfg.Discount)
	}
	if cfg.N0 <= 0 {
		return fmt.Errorf("caviarpd: N0 must be nonzero, got %g", cfg.N0)
	}
	if cfg.Tol <= 0 {
		return fmt.Errorf("caviarpd: Tol must be nonzero, got %g", cfg.Tol)
	}
	if cfg.Lanes < 0 {
		return fmt.Errorf("caviarpd: Lanes must be >= 0, got %d", cfg.Lanes)
	}
	return nil
}

// Calibrate searches for a clustering point estimate whose cluster count
// lies in [MinClusters, MaxClusters]. For each mass in a shuffled grid it
// draws a batch of EPA partitions and bisects the loss weight until the
// minimizer's estimate lands in range (or the bracket collapses below
// Tol); the accepted weight seeds the proposal at the next grid point.
// The per-grid candidates are then summarized once more at weight 1 to
// pick the final estimate.
func Calibrate(sim Similarity, cfg Config) (*Result, error) {
	applyCalibrationDefaults(&cfg)
	if err := validateCalibrationConfig(&cfg); err != nil {
		return nil, err
	}
	n := sim.NItems()
	rng := rand.New(rand.NewSource(cfg.Seed))

	masses, warnings, err := buildMassGrid(cfg.MinClusters, cfg.MaxClusters, cfg.GridLength, cfg.Masses, n, rng)
	if err != nil {
		return nil, err
	}

	samples := NewClusterings(n)
	candidates := NewClusterings(n)
	previous := 1.0
	for _, mass := range masses {
		draws, err := sampleBatch(cfg.NSamples, sim, mass, cfg.Discount, cfg.Lanes, rng)
		if err != nil {
			return nil, err
		}
		// The batch may over-provision; the sample matrix keeps exactly
		// NSamples draws per grid point, the bisection sees them all.
		for j := 0; j < cfg.NSamples; j++ {
			if err := samples.Append(draws.Labels(j), draws.NClusters(j)); err != nil {
				return nil, err
			}
		}
		a, cand, k, err := bisectWeight(draws, cfg, previous, rng)
		if err != nil {
			return nil, err
		}
		previous = a
		if err := candidates.Append(cand, k); err != nil {
			return nil, err
		}
	}

	estimate, k, err := cfg.Minimizer.Minimize(candidates, cfg.Loss, 1.0, rng)
	if err != nil {
		return nil, err
	}
	return &Result{
		Estimate:  estimate,
		NClusters: k,
		Samples:   samples,
		Warnings:  warnings,
	}, nil
}

// bisectWeight searches for a loss weight whose point estimate over the
// draws has a cluster count inside [cfg.MinClusters, cfg.MaxClusters].
// The initial weight is proposed as 2*Beta(n0*previous/2, n0*(1-previous/2)),
// clustering around the previously accepted weight; out-of-range cluster
// counts tighten the bracket [0, 2] toward the offending side and retry
// from its midpoint. Once a is a bracket midpoint the bracket halves on
// every non-accepting iteration, so the search finishes within about
// ceil(log2(2/Tol)) steps even when no count ever lands in range.
func bisectWeight(draws *Clusterings, cfg Config, previous float64, rng *rand.Rand) (float64, []int, int, error) {
	beta := distuv.Beta{
		Alpha: cfg.N0 * previous / 2,
		Beta:  cfg.N0 * (1 - previous/2),
		Src:   rng,
	}
	a := 2 * beta.Rand()
	lower, upper := 0.0, 2.0
	for {
		cand, k, err := cfg.Minimizer.Minimize(draws, cfg.Loss, a, rng)
		if err != nil {
			return 0, nil, 0, err
		}
		switch {
		case upper-lower <= cfg.Tol:
			return a, cand, k, nil
		case float64(k) < cfg.MinClusters:
			upper = a
			a = (lower + a) / 2
		case float64(k) > cfg.MaxClusters:
			lower = a
			a = (upper + a) / 2
		default:
			return a, cand, k, nil
		}
	}
}
