package knapsack

import (
	"math/bits"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

const (
	// DefaultWarnSubsets is the subset count above which BruteForce warns that
	// enumeration may take a very long time. The solve is not aborted.
	DefaultWarnSubsets uint64 = 1_000_000_000

	// MaxBruteForceItems is the widest item list a 64-bit subset mask can enumerate.
	MaxBruteForceItems = 63
)

// BruteForce enumerates every subset with a bitmask and keeps the best
// feasible one. Ties keep the first subset found. Intended as a reference
// for small inputs.
type BruteForce struct {
	// WarnSubsets overrides DefaultWarnSubsets when non-zero.
	WarnSubsets uint64
	Logf        Logf
}

// Name implements Solver.
func (BruteForce) Name() string { return AlgorithmBruteForce }

// Solve implements Solver.
func (b BruteForce) Solve(items []Item, capacity float64) (Solution, error) {
	if err := validateCapacity(capacity); err != nil {
		return Solution{}, err
	}
	cands, skipped := screen(items, b.Logf)
	n := len(cands)
	if n > MaxBruteForceItems {
		return Solution{}, kerrors.New(kerrors.ErrCodeUnsupported,
			"brute force enumerates at most %d items, got %d", MaxBruteForceItems, n)
	}

	total := uint64(1) << n
	warn := b.WarnSubsets
	if warn == 0 {
		warn = DefaultWarnSubsets
	}
	if total > warn {
		b.Logf.printf("%d items give %d subsets; enumeration may take a very long time", n, total)
	}

	var (
		bestValue float64
		bestMask  uint64
	)
	for mask := uint64(0); mask < total; mask++ {
		var weight, value float64
		for m := mask; m != 0; m &= m - 1 {
			c := cands[bits.TrailingZeros64(m)]
			weight += c.Weight
			value += c.Value
		}
		if weight <= capacity && value > bestValue {
			bestValue = value
			bestMask = mask
		}
	}

	slots := make([]int, 0, bits.OnesCount64(bestMask))
	for m := bestMask; m != 0; m &= m - 1 {
		slots = append(slots, bits.TrailingZeros64(m))
	}

	sol, err := newSolution(AlgorithmBruteForce, items, positions(cands, slots))
	if err != nil {
		return Solution{}, err
	}
	sol.Skipped = skipped
	sol.Stats.Subsets = total
	return sol, nil
}
