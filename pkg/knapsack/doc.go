// Package knapsack solves the 0/1 knapsack problem with four interchangeable
// strategies.
//
// Given items with a weight and a value, a solver selects a subset that
// maximizes total value while the total weight stays within a capacity.
// Every solver implements [Solver] and is independent of the others:
//
//   - [BruteForce]: enumerates all 2^n subsets; the correctness oracle for small n
//   - [Greedy]: takes items in descending value density while they fit; fast, not optimal
//   - [DynamicProgramming]: pseudo-polynomial table over a discretized capacity axis
//   - [BranchAndBound]: depth-first include/exclude search with a fractional
//     relaxation bound and an explicit, growable frame stack
//
// # Items and Solutions
//
// Items are plain values and are never mutated. Solvers that need a density
// ordering sort a private copy, so the caller's slice keeps its order.
// A [Solution] lists the selected items in input order together with the
// indices into the input slice, the exact value and weight sums, any items
// that were skipped as invalid, and per-algorithm [Stats].
//
// # Invalid Input
//
// Items whose weight or value is not a strictly positive finite number are
// skipped with a diagnostic rather than failing the solve. Resource limits
// (table cells, stack frames) and internal invariant checks fail with a coded
// error from pkg/errors and never return a partially built answer.
//
// # Usage
//
//	items := []knapsack.Item{
//	    {ID: 1, Weight: 2, Value: 3},
//	    {ID: 2, Weight: 3, Value: 4},
//	}
//	sol, err := knapsack.BranchAndBound{}.Solve(items, 5)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(sol.TotalValue, sol.IDs())
//
// Solver values hold configuration only. Working state (sorted copies, the
// table, the search stack) lives inside a single Solve call and is released
// when it returns, so one value may be reused for repeated solves.
package knapsack
