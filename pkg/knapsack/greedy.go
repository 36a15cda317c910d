package knapsack

// Greedy sorts items by descending value density and takes every item that
// still fits. It runs in O(n log n) and never backtracks, so the result is
// feasible but not generally optimal.
type Greedy struct {
	Logf Logf
}

// Name implements Solver.
func (Greedy) Name() string { return AlgorithmGreedy }

// Solve implements Solver.
func (g Greedy) Solve(items []Item, capacity float64) (Solution, error) {
	if err := validateCapacity(capacity); err != nil {
		return Solution{}, err
	}
	cands, skipped := screen(items, g.Logf)

	remaining := capacity
	var slots []int
	sorted := byDensity(cands)
	for i := 0; i < len(sorted) && remaining > 0; i++ {
		if sorted[i].Weight <= remaining {
			slots = append(slots, i)
			remaining -= sorted[i].Weight
		}
	}

	sol, err := newSolution(AlgorithmGreedy, items, positions(sorted, slots))
	if err != nil {
		return Solution{}, err
	}
	sol.Skipped = skipped
	return sol, nil
}
