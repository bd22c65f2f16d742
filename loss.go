package caviarpd

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// LossKind selects the loss function used to summarize a collection of
// partition draws into a single point estimate.
type LossKind int

const (
	// BinderLoss is the generalized Binder loss. With weight a in (0, 2),
	// a pair of items clustered apart in the estimate but together in a
	// draw costs a, and a pair clustered together in the estimate but
	// apart in a draw costs 2-a. Smaller weights therefore favor
	// estimates with more clusters.
	BinderLoss LossKind = iota

	// VILoss is the generalized variation-of-information loss,
	// a*H(estimate|draw) + (2-a)*H(draw|estimate) averaged over draws.
	// As with BinderLoss, smaller weights favor more clusters; weight 1
	// recovers the standard variation of information.
	VILoss
)

func (k LossKind) String() string {
	switch k {
	case BinderLoss:
		return "binder"
	case VILoss:
		return "VI"
	default:
		return fmt.Sprintf("LossKind(%d)", int(k))
	}
}

// Minimizer is the partition-summarization oracle: given a collection of
// draws and a weighted loss, it returns one representative partition
// (canonical labels plus cluster count) minimizing the expected loss
// over the draws.
type Minimizer interface {
	Minimize(draws *Clusterings, loss LossKind, weight float64, rng *rand.Rand) ([]int, int, error)
}

// DrawsMinimizer is the default Minimizer. It restricts the search to
// candidates taken from the draw collection itself: NRuns starting draws
// are sampled, Binder candidates are refined by greedy reassignment
// sweeps, and the candidate with the lowest expected loss wins.
type DrawsMinimizer struct {
	// NRuns is the number of candidate starting draws. 0 means 16.
	NRuns int

	// MaxScans bounds the greedy refinement sweeps per candidate.
	// 0 means 10.
	MaxScans int

	// SizeCap is the largest admissible number of clusters in the
	// estimate. 0 means unlimited.
	SizeCap int
}

// Minimize implements Minimizer.
func (m DrawsMinimizer) Minimize(draws *Clusterings, loss LossKind, weight float64, rng *rand.Rand) ([]int, int, error) {
	if draws == nil || draws.NDraws() == 0 {
		return nil, 0, fmt.Errorf("caviarpd: minimize requires at least one draw")
	}
	if !(weight > 0) || !(weight < 2) {
		return nil, 0, fmt.Errorf("caviarpd: loss weight must be in (0, 2), got %g", weight)
	}
	nRuns := m.NRuns
	if nRuns == 0 {
		nRuns = 16
	}
	maxScans := m.MaxScans
	if maxScans == 0 {
		maxScans = 10
	}

	n := draws.NItems()
	var pairProb []float64
	if loss == BinderLoss {
		pairProb = coClusterProbabilities(draws)
	}

	var best []int
	bestK := 0
	bestLoss := math.Inf(1)
	for r := 0; r < nRuns; r++ {
		cand := append([]int(nil), draws.Labels(rng.Intn(draws.NDraws()))...)
		var k int
		if loss == BinderLoss {
			binderSweeps(cand, pairProb, n, weight, maxScans, m.SizeCap)
			k = canonicalizeLabels(cand)
		} else {
			k = canonicalizeLabels(cand)
		}
		if m.SizeCap > 0 && k > m.SizeCap {
			continue
		}
		var l float64
		switch loss {
		case BinderLoss:
			l = expectedBinderLoss(cand, pairProb, n, weight)
		case VILoss:
			l = expectedVILoss(cand, k, draws, weight)
		default:
			return nil, 0, fmt.Errorf("caviarpd: unknown loss %v", loss)
		}
		if l < bestLoss {
			best = cand
			bestK = k
			bestLoss = l
		}
	}
	if best == nil {
		return nil, 0, fmt.Errorf("caviarpd: no candidate within size cap %d", m.SizeCap)
	}
	return best, bestK, nil
}

// coClusterProbabilities returns the flat n×n matrix of empirical
// probabilities that items i and j share a cluster across the draws.
func coClusterProbabilities(draws *Clusterings) []float64 {
	n := draws.NItems()
	p := make([]float64, n*n)
	for j := 0; j < draws.NDraws(); j++ {
		labels := draws.Labels(j)
		for a := 0; a < n; a++ {
			la := labels[a]
			for b := a + 1; b < n; b++ {
				if labels[b] == la {
					p[a*n+b]++
				}
			}
		}
	}
	inv := 1.0 / float64(draws.NDraws())
	for a := 0; a < n; a++ {
		p[a*n+a] = 1.0
		for b := a + 1; b < n; b++ {
			p[a*n+b] *= inv
			p[b*n+a] = p[a*n+b]
		}
	}
	return p
}

// expectedBinderLoss evaluates the expected generalized Binder loss of a
// candidate partition against the co-clustering probabilities:
// sum over pairs of a*p*[split] + (2-a)*(1-p)*[joined].
func expectedBinderLoss(labels []int, pairProb []float64, n int, a float64) float64 {
	var loss float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := pairProb[i*n+j]
			if labels[i] == labels[j] {
				loss += (2 - a) * (1 - p)
			} else {
				loss += a * p
			}
		}
	}
	return loss
}

// binderSweeps greedily reassigns items to minimize the expected Binder
// loss, stopping after maxScans sweeps or when a sweep makes no move.
// Moving item i into cluster C changes the loss by the negated sum of
// gain(i,j) = a*p_ij - (2-a)*(1-p_ij) over j in C, so each item goes to
// the cluster with the largest positive gain sum, or to a new cluster
// when no existing sum is positive (subject to sizeCap).
func binderSweeps(labels []int, pairProb []float64, n int, a float64, maxScans, sizeCap int) {
	k := canonicalizeLabels(labels)
	sizes := make([]int, k)
	for _, lab := range labels {
		sizes[lab]++
	}
	gains := make([]float64, 0, 8)
	for scan := 0; scan < maxScans; scan++ {
		moved := false
		for i := 0; i < n; i++ {
			old := labels[i]
			sizes[old]--
			gains = gains[:0]
			for c := 0; c < k; c++ {
				gains = append(gains, 0)
			}
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				p := pairProb[i*n+j]
				gains[labels[j]] += a*p - (2-a)*(1-p)
			}
			bestC := -1
			bestGain := 0.0
			for c := 0; c < k; c++ {
				if sizes[c] == 0 {
					continue
				}
				if gains[c] > bestGain {
					bestC = c
					bestGain = gains[c]
				}
			}
			if bestC == -1 {
				// Every occupied cluster has a negative gain sum, so the
				// item is best off alone.
				if sizes[old] == 0 {
					bestC = old
				} else if sizeCap <= 0 || activeClusters(sizes) < sizeCap {
					sizes = append(sizes, 0)
					bestC = k
					k++
				} else {
					bestC = old
				}
			}
			sizes[bestC]++
			if bestC != old {
				labels[i] = bestC
				moved = true
			}
		}
		if !moved {
			break
		}
	}
}

func activeClusters(sizes []int) int {
	k := 0
	for _, s := range sizes {
		if s > 0 {
			k++
		}
	}
	return k
}

// expectedVILoss evaluates the expected generalized variation of
// information of a candidate partition (with k clusters) against the
// draws: the mean over draws of a*H(cand|draw) + (2-a)*H(draw|cand),
// with base-2 entropies.
func expectedVILoss(labels []int, k int, draws *Clusterings, a float64) float64 {
	n := float64(draws.NItems())
	candSizes := make([]float64, k)
	for _, lab := range labels {
		candSizes[lab]++
	}
	hCand := entropy(candSizes, n)

	var loss float64
	for j := 0; j < draws.NDraws(); j++ {
		drawLabels := draws.Labels(j)
		kz := draws.NClusters(j)
		joint := make([]float64, k*kz)
		drawSizes := make([]float64, kz)
		for i, lab := range labels {
			z := drawLabels[i]
			joint[lab*kz+z]++
			drawSizes[z]++
		}
		hJoint := entropy(joint, n)
		hDraw := entropy(drawSizes, n)
		loss += a*(hJoint-hDraw) + (2-a)*(hJoint-hCand)
	}
	return loss / float64(draws.NDraws())
}

// entropy returns the base-2 entropy of counts summing to total.
func entropy(counts []float64, total float64) float64 {
	var h float64
	for _, c := range counts {
		if c > 0 {
			p := c / total
			h -= p * math.Log2(p)
		}
	}
	return h
}
