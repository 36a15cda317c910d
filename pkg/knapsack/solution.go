package knapsack

import (
	"slices"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

// Solution is the result of a single solve call.
type Solution struct {
	// Algorithm is the name of the solver that produced the solution.
	Algorithm string `json:"algorithm"`

	// Selected holds the chosen items in input order.
	Selected []Item `json:"selected"`

	// Indices are the positions of Selected in the input slice, ascending.
	Indices []int `json:"indices"`

	// TotalValue and TotalWeight are the sums over Selected, accumulated in input order.
	TotalValue  float64 `json:"total_value"`
	TotalWeight float64 `json:"total_weight"`

	// Skipped lists items that were ignored because they failed validation
	// or could not be represented by the solver.
	Skipped []Skip `json:"skipped,omitempty"`

	Stats Stats `json:"stats"`
}

// Skip describes an input item a solver ignored.
type Skip struct {
	ItemID int    `json:"item_id"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Stats carries algorithm-specific counters. Fields that do not apply to the
// producing solver stay zero.
type Stats struct {
	// Branch-and-bound
	Explored     int `json:"explored,omitempty"`      // frames pushed
	Pruned       int `json:"pruned,omitempty"`        // exclude subtrees cut by the bound
	StackPeak    int `json:"stack_peak,omitempty"`    // deepest stack occupancy
	StackSize    int `json:"stack_size,omitempty"`    // final stack capacity in frames
	StackGrowths int `json:"stack_growths,omitempty"` // number of doublings

	// Dynamic programming
	TableSize  int     `json:"table_size,omitempty"`
	TableValue float64 `json:"table_value,omitempty"` // cell read at the capacity index

	// Brute force
	Subsets uint64 `json:"subsets,omitempty"`
}

// IDs returns the IDs of the selected items in input order.
func (s Solution) IDs() []int {
	ids := make([]int, len(s.Selected))
	for i, it := range s.Selected {
		ids[i] = it.ID
	}
	return ids
}

// Feasible reports whether the solution's weight fits capacity within [Tolerance].
func (s Solution) Feasible(capacity float64) bool {
	return s.TotalWeight <= capacity+Tolerance
}

// newSolution builds a Solution from positions into items. The indices may be
// in any order; duplicates or out-of-range positions are invariant violations.
func newSolution(algorithm string, items []Item, indices []int) (Solution, error) {
	if len(indices) > len(items) {
		return Solution{}, kerrors.New(kerrors.ErrCodeInternal,
			"%s selected %d items from a list of %d", algorithm, len(indices), len(items))
	}

	idx := slices.Clone(indices)
	slices.Sort(idx)

	sol := Solution{
		Algorithm: algorithm,
		Selected:  make([]Item, 0, len(idx)),
		Indices:   idx,
	}
	for i, p := range idx {
		if p < 0 || p >= len(items) {
			return Solution{}, kerrors.New(kerrors.ErrCodeInternal, "%s selected index %d outside [0, %d)", algorithm, p, len(items))
		}
		if i > 0 && idx[i-1] == p {
			return Solution{}, kerrors.New(kerrors.ErrCodeInternal, "%s selected index %d twice", algorithm, p)
		}
		it := items[p]
		sol.Selected = append(sol.Selected, it)
		sol.TotalValue += it.Value
		sol.TotalWeight += it.Weight
	}
	return sol, nil
}
