package caviarpd

import "fmt"

// PartitionBuilder is the incremental clustering state behind one EPA
// draw. Items are assigned to cluster labels one at a time; the active
// label set is always dense, {0, ..., k-1} for the current cluster count
// k, and every allocated item belongs to exactly one label.
type PartitionBuilder struct {
	labels []int   // per-item label, -1 while unallocated
	items  [][]int // member items per label
}

// NewPartitionBuilder returns an empty builder for n items.
func NewPartitionBuilder(n int) *PartitionBuilder {
	b := &PartitionBuilder{
		labels: make([]int, n),
		items:  make([][]int, 0, 8),
	}
	for i := range b.labels {
		b.labels[i] = -1
	}
	return b
}

// Reset returns the builder to the empty state, retaining allocations.
func (b *PartitionBuilder) Reset() {
	for i := range b.labels {
		b.labels[i] = -1
	}
	for i := range b.items {
		b.items[i] = b.items[i][:0]
	}
	b.items = b.items[:0]
}

// NItems returns the number of items the builder was created for.
func (b *PartitionBuilder) NItems() int { return len(b.labels) }

// NClusters returns the number of clusters formed so far.
func (b *PartitionBuilder) NClusters() int { return len(b.items) }

// SizeOf returns the number of items currently assigned to label.
func (b *PartitionBuilder) SizeOf(label int) int { return len(b.items[label]) }

// ItemsOf returns the items currently assigned to label as a shared view.
func (b *PartitionBuilder) ItemsOf(label int) []int { return b.items[label] }

// Label returns the label of item, or -1 if unallocated.
func (b *PartitionBuilder) Label(item int) int { return b.labels[item] }

// Allocate assigns item to label. The label must be an existing cluster
// or the next fresh label (== NClusters()), which opens a new cluster.
func (b *PartitionBuilder) Allocate(item, label int) {
	if label == len(b.items) {
		b.items = append(b.items, make([]int, 0, 4))
	}
	b.items[label] = append(b.items[label], item)
	b.labels[item] = label
}

// CanonicalizeInto writes the completed partition into dst, relabeled so
// that clusters are numbered by order of first appearance in item order.
// Two sampler runs producing the same partition therefore yield identical
// label vectors. Returns the number of clusters.
func (b *PartitionBuilder) CanonicalizeInto(dst []int) int {
	copy(dst, b.labels)
	return canonicalizeLabels(dst)
}

// canonicalizeLabels relabels a complete label vector in place by order of
// first appearance, producing dense labels {0, ..., k-1}. Returns k.
func canonicalizeLabels(labels []int) int {
	remap := make(map[int]int, 8)
	for i, lab := range labels {
		canon, ok := remap[lab]
		if !ok {
			canon = len(remap)
			remap[lab] = canon
		}
		labels[i] = canon
	}
	return len(remap)
}

// Clusterings is a collection of partition draws over the same items.
// Labels are stored flat and row-major: draw j occupies
// labels[j*nItems : (j+1)*nItems]. Each draw is canonical (dense labels
// in first-appearance order) with its own cluster count.
type Clusterings struct {
	nDraws    int
	nItems    int
	labels    []int
	nClusters []int
}

// NewClusterings returns an empty collection of draws over nItems items.
func NewClusterings(nItems int) *Clusterings {
	return &Clusterings{nItems: nItems}
}

// NDraws returns the number of draws in the collection.
func (c *Clusterings) NDraws() int { return c.nDraws }

// NItems returns the number of items per draw.
func (c *Clusterings) NItems() int { return c.nItems }

// Labels returns the label vector of draw j as a shared view.
func (c *Clusterings) Labels(j int) []int {
	return c.labels[j*c.nItems : (j+1)*c.nItems]
}

// NClusters returns the cluster count of draw j.
func (c *Clusterings) NClusters(j int) int { return c.nClusters[j] }

// Append adds a draw with the given labels and cluster count.
// The labels are copied.
func (c *Clusterings) Append(labels []int, nClusters int) error {
	if len(labels) != c.nItems {
		return fmt.Errorf("caviarpd: draw has %d labels, want %d", len(labels), c.nItems)
	}
	c.labels = append(c.labels, labels...)
	c.nClusters = append(c.nClusters, nClusters)
	c.nDraws++
	return nil
}
