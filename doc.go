// Package caviarpd implements cluster analysis via random partition
// distributions (CaviarPD).
//
// CaviarPD draws random partitions of a finite set of items from the
// Ewens–Pitman attraction (EPA) distribution, a similarity-informed
// generalization of the Chinese restaurant process, and uses batches of
// such draws to calibrate a clustering point estimate whose number of
// clusters falls inside a caller-specified range.
//
// Basic usage, sampling partitions at a fixed mass:
//
//	sim, err := caviarpd.NewSimilarity(buf, n)
//	draws, err := caviarpd.Sample(sim, caviarpd.SampleConfig{
//		NSamples: 1000,
//		Mass:     1.0,
//		Seed:     42,
//	})
//	// draws.Labels(j) is the cluster label vector of draw j.
//
// Calibrating a point estimate with between 2 and 4 clusters:
//
//	cfg := caviarpd.DefaultConfig()
//	cfg.MinClusters = 2
//	cfg.MaxClusters = 4
//	result, err := caviarpd.Calibrate(sim, cfg)
//	// result.Estimate[i] is the cluster label of item i.
//
// # Parallelism and reproducibility
//
// Batch sampling fans draws out across worker lanes (SampleConfig.Lanes,
// 0 means runtime.NumCPU()). Each lane is seeded from the master RNG
// before any lane starts, so results are reproducible given the same
// seed and lane count regardless of scheduling. The lane partitioning
// rounds the per-lane draw count up, so a batch may contain up to
// lanes-1 more draws than requested; Clusterings.NDraws reports the
// true count.
//
// # Point-estimate oracle
//
// The calibration loop summarizes a batch of draws through a Minimizer,
// which returns the partition minimizing the expected Binder or
// variation-of-information loss over the draws. The default
// DrawsMinimizer restricts the search to the draws themselves plus
// greedy refinement sweeps; callers may plug in their own Minimizer.
package caviarpd
