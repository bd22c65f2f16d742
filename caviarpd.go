package caviarpd

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SampleConfig controls plain EPA batch sampling.
type SampleConfig struct {
	// NSamples is the requested number of draws; must be at least 1.
	// The batch may hold up to Lanes-1 extra draws, see the package
	// documentation.
	NSamples int

	// Mass is the concentration parameter; larger values favor more
	// clusters. Must be positive.
	Mass float64

	// Discount biases the weight of opening a new cluster by the number
	// of clusters formed so far. Must be in [0, 1); 0 reduces to the
	// one-parameter attraction model.
	Discount float64

	// Lanes is the number of parallel sampling lanes. 0 means
	// runtime.NumCPU().
	Lanes int

	// Seed seeds the master RNG.
	Seed uint64
}

func validateSampleConfig(cfg *SampleConfig) error {
	if cfg.NSamples < 1 {
		return fmt.Errorf("caviarpd: NSamples must be >= 1, got %d", cfg.NSamples)
	}
	if err := validateMassDiscount(cfg.Mass, cfg.Discount); err != nil {
		return err
	}
	if cfg.Lanes < 0 {
		return fmt.Errorf("caviarpd: Lanes must be >= 0, got %d", cfg.Lanes)
	}
	return nil
}

// Sample draws a batch of partitions from the EPA distribution over the
// similarity's items. Draws are independent; each reshuffles the
// visitation order before sampling.
func Sample(sim Similarity, cfg SampleConfig) (*Clusterings, error) {
	if err := validateSampleConfig(&cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return sampleBatch(cfg.NSamples, sim, cfg.Mass, cfg.Discount, cfg.Lanes, rng)
}

// EstimateNClusters samples a batch at a fixed mass and reports the
// cluster count of the point estimate summarizing it at loss weight 1.
// A nil minimizer means DrawsMinimizer with defaults.
func EstimateNClusters(sim Similarity, cfg SampleConfig, loss LossKind, minimizer Minimizer) (int, error) {
	if err := validateSampleConfig(&cfg); err != nil {
		return 0, err
	}
	if minimizer == nil {
		minimizer = DrawsMinimizer{}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	draws, err := sampleBatch(cfg.NSamples, sim, cfg.Mass, cfg.Discount, cfg.Lanes, rng)
	if err != nil {
		return 0, err
	}
	_, k, err := minimizer.Minimize(draws, loss, 1.0, rng)
	if err != nil {
		return 0, err
	}
	return k, nil
}
