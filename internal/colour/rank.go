package colour

import (
	"cmp"
	"slices"
)

// Rank returns the clusters sorted by descending weight.
// The sort is stable: clusters with equal weight keep their discovery order.
// The input slice is not modified.
func Rank(clusters []Cluster) []Cluster {
	ranked := slices.Clone(clusters)
	slices.SortStableFunc(ranked, func(a, b Cluster) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return ranked
}

// Select returns the colours of the first n ranked clusters.
// Fewer than n colours are returned when fewer clusters exist.
func Select(ranked []Cluster, n int) []RGB {
	n = max(min(n, len(ranked)), 0)
	out := make([]RGB, n)
	for i := range out {
		out[i] = ranked[i].RGB
	}
	return out
}
