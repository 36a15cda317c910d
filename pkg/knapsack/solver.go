package knapsack

import (
	"strings"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

// Algorithm names accepted by [New].
const (
	AlgorithmBruteForce     = "bruteforce"
	AlgorithmGreedy         = "greedy"
	AlgorithmDP             = "dp"
	AlgorithmBranchAndBound = "bnb"
)

// Solver is the contract shared by all strategies.
type Solver interface {
	// Name returns the algorithm name (one of the Algorithm* constants).
	Name() string

	// Solve selects a subset of items whose total weight does not exceed capacity.
	Solve(items []Item, capacity float64) (Solution, error)
}

// Logf receives diagnostics from a solver: skipped items, stack growth,
// runaway subset counts. A nil Logf discards them.
type Logf func(format string, args ...any)

func (f Logf) printf(format string, args ...any) {
	if f != nil {
		f(format, args...)
	}
}

// Algorithms returns the algorithm names in presentation order.
func Algorithms() []string {
	return []string{AlgorithmBruteForce, AlgorithmGreedy, AlgorithmDP, AlgorithmBranchAndBound}
}

// New returns a solver with default settings for the named algorithm.
func New(name string) (Solver, error) {
	if err := kerrors.ValidateAlgorithm(name, Algorithms()); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AlgorithmBruteForce:
		return BruteForce{}, nil
	case AlgorithmGreedy:
		return Greedy{}, nil
	case AlgorithmDP:
		return DynamicProgramming{}, nil
	default:
		return BranchAndBound{}, nil
	}
}

// candidate is a valid item together with its position in the caller's slice.
type candidate struct {
	Item
	index int
}

// screen drops items that fail validation, reporting each through logf.
// The returned candidates keep input order.
func screen(items []Item, logf Logf) ([]candidate, []Skip) {
	cands := make([]candidate, 0, len(items))
	var skipped []Skip
	for i, it := range items {
		if err := kerrors.ValidateItem(it.ID, it.Weight, it.Value); err != nil {
			msg := kerrors.UserMessage(err)
			logf.printf("skipping %s", msg)
			skipped = append(skipped, Skip{ItemID: it.ID, Index: i, Reason: msg})
			continue
		}
		cands = append(cands, candidate{Item: it, index: i})
	}
	return cands, skipped
}

func validateCapacity(capacity float64) error {
	return kerrors.ValidateCapacity(capacity)
}

// positions maps candidate slots back to input positions.
func positions(cands []candidate, slots []int) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = cands[s].index
	}
	return out
}
