package knapsack

import (
	"cmp"
	"slices"
	"sort"
)

// byDensity returns a copy of cands sorted by descending value density.
// The sort is stable, so equal densities keep input order.
func byDensity(cands []candidate) []candidate {
	sorted := slices.Clone(cands)
	slices.SortStableFunc(sorted, func(a, b candidate) int {
		return cmp.Compare(b.Density(), a.Density())
	})
	return sorted
}

// relaxation evaluates the fractional (LP) bound over a density-sorted list.
// Prefix sums let each evaluation locate the first item that does not fit
// whole with a binary search instead of a linear scan.
type relaxation struct {
	items    []candidate
	capacity float64
	prefW    []float64 // prefW[k] = sum of weights of items[:k]
	prefV    []float64 // prefV[k] = sum of values of items[:k]
}

func newRelaxation(sorted []candidate, capacity float64) *relaxation {
	r := &relaxation{
		items:    sorted,
		capacity: capacity,
		prefW:    make([]float64, len(sorted)+1),
		prefV:    make([]float64, len(sorted)+1),
	}
	for i, c := range sorted {
		r.prefW[i+1] = r.prefW[i] + c.Weight
		r.prefV[i+1] = r.prefV[i] + c.Value
	}
	return r
}

// bound returns the best value reachable from a node at level with the given
// accumulated weight and value when the remaining items may be split.
// Items from level on are taken whole while they fit; the first one that
// does not fit contributes the fraction that does.
func (r *relaxation) bound(level int, weight, value float64) float64 {
	n := len(r.items)
	if level >= n {
		return value
	}
	remaining := r.capacity - weight
	if remaining <= 0 {
		return value
	}

	base := r.prefW[level]
	limit := base + remaining
	// k is the last prefix index whose cumulative weight still fits.
	k := level + sort.Search(n-level+1, func(i int) bool {
		return r.prefW[level+i] > limit
	}) - 1

	b := value + r.prefV[k] - r.prefV[level]
	if k < n {
		left := remaining - (r.prefW[k] - base)
		if left > 0 {
			b += left / r.items[k].Weight * r.items[k].Value
		}
	}
	return b
}

// FractionalBound returns the optimum of the fractional relaxation at the
// root: an upper bound on the value of any feasible 0/1 selection.
// Invalid items are ignored.
func FractionalBound(items []Item, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	cands, _ := screen(items, nil)
	return newRelaxation(byDensity(cands), capacity).bound(0, 0, 0)
}
