package knapsack

import (
	"math"
)

// Visit describes one node of the branch-and-bound decision tree. It is
// delivered to BranchAndBound.Trace as the search runs.
type Visit struct {
	Node   int      // node id, 0 for the root
	Parent int      // parent node id, -1 for the root
	Level  int      // depth in the tree; the item decided is the level-th densest
	ItemID int      // item the branch decided, 0 for the root
	Branch Decision // Included or Excluded; Undecided for the root
	Weight float64  // accumulated weight at the node
	Value  float64  // accumulated value at the node
	Bound  float64  // fractional bound at the node
	Pruned bool     // the subtree was cut because Bound could not beat the incumbent
	Best   bool     // the node set a new incumbent
}

// BranchAndBound explores the include/exclude tree depth first over a
// density-sorted copy of the items, pruning exclude branches whose fractional
// relaxation bound cannot beat the best value found so far. The result is
// value-optimal.
type BranchAndBound struct {
	// InitialStack is the starting frame capacity. Zero selects DefaultInitialStack.
	InitialStack int

	// MaxFrames caps stack growth. Zero means unlimited. Exceeding it fails
	// the solve with RESOURCE_EXHAUSTED.
	MaxFrames int

	// Trace, when set, receives every node the search creates, including pruned ones.
	Trace func(Visit)

	Logf Logf
}

// Name implements Solver.
func (BranchAndBound) Name() string { return AlgorithmBranchAndBound }

// Solve implements Solver.
func (b BranchAndBound) Solve(items []Item, capacity float64) (Solution, error) {
	if err := validateCapacity(capacity); err != nil {
		return Solution{}, err
	}
	cands, skipped := screen(items, b.Logf)
	sorted := byDensity(cands)

	stack, err := newFrameStack(b.InitialStack, b.MaxFrames, b.Logf)
	if err != nil {
		return Solution{}, err
	}
	s := &search{
		items:    sorted,
		rel:      newRelaxation(sorted, capacity),
		capacity: capacity,
		stack:    stack,
		trace:    b.Trace,
	}
	if err := s.run(); err != nil {
		return Solution{}, err
	}

	sol, err := newSolution(AlgorithmBranchAndBound, items, positions(sorted, s.best))
	if err != nil {
		return Solution{}, err
	}
	sol.Skipped = skipped
	sol.Stats.Explored = s.explored
	sol.Stats.Pruned = s.pruned
	sol.Stats.StackPeak = s.stack.peak
	sol.Stats.StackSize = len(s.stack.frames)
	sol.Stats.StackGrowths = s.stack.growths
	return sol, nil
}

// search is the state of one branch-and-bound run. Nothing outlives the
// Solve call that creates it.
type search struct {
	items    []candidate
	rel      *relaxation
	capacity float64
	stack    *frameStack
	trace    func(Visit)

	bestValue float64
	best      []int // slots into items

	explored int
	pruned   int
	nextNode int
}

func (s *search) run() error {
	n := len(s.items)
	if err := s.stack.push(frame{}); err != nil {
		return err
	}
	s.explored++
	s.emit(Visit{Parent: -1, Bound: s.rel.bound(0, 0, 0)})

	for !s.stack.empty() {
		f := s.stack.peek()
		if f.level >= n {
			s.stack.pop()
			continue
		}
		it := s.items[f.level]

		switch f.decision {
		case Undecided:
			f.decision = Included
			if f.weight+it.Weight > s.capacity {
				continue
			}
			child := frame{
				level:  f.level + 1,
				weight: f.weight + it.Weight,
				value:  f.value + it.Value,
				node:   s.nextNode + 1,
			}
			parent := f.node
			if err := s.stack.push(child); err != nil {
				return err
			}
			s.explored++
			improved := child.value > s.bestValue
			if improved {
				s.bestValue = child.value
				s.record()
			}
			s.emit(Visit{
				Parent: parent, Level: child.level, ItemID: it.ID, Branch: Included,
				Weight: child.weight, Value: child.value,
				Bound: s.rel.bound(child.level, child.weight, child.value), Best: improved,
			})

		case Included:
			f.decision = Excluded
			bound := s.rel.bound(f.level+1, f.weight, f.value)
			if !s.promising(bound) {
				s.pruned++
				s.emit(Visit{
					Parent: f.node, Level: f.level + 1, ItemID: it.ID, Branch: Excluded,
					Weight: f.weight, Value: f.value, Bound: bound, Pruned: true,
				})
				continue
			}
			child := frame{
				level:  f.level + 1,
				weight: f.weight,
				value:  f.value,
				node:   s.nextNode + 1,
			}
			parent := f.node
			if err := s.stack.push(child); err != nil {
				return err
			}
			s.explored++
			s.emit(Visit{
				Parent: parent, Level: child.level, ItemID: it.ID, Branch: Excluded,
				Weight: child.weight, Value: child.value, Bound: bound,
			})

		default:
			s.stack.pop()
		}
	}
	return nil
}

// promising reports whether a subtree with the given bound may still beat
// the incumbent. A small relative slack keeps prefix-sum rounding from
// cutting a subtree whose bound ties the incumbent only on paper.
func (s *search) promising(bound float64) bool {
	return bound+1e-9*math.Max(1, s.bestValue) > s.bestValue
}

// record rebuilds the incumbent from the frames on the stack. It must run at
// the moment of improvement because the stack changes on every step.
func (s *search) record() {
	s.best = s.best[:0]
	n := len(s.items)
	for i := 0; i <= s.stack.top; i++ {
		f := &s.stack.frames[i]
		if f.decision == Included && f.level < n {
			s.best = append(s.best, f.level)
		}
	}
}

// emit assigns the next node id and forwards v to the trace callback.
func (s *search) emit(v Visit) {
	if v.Parent >= 0 {
		s.nextNode++
		v.Node = s.nextNode
	}
	if s.trace != nil {
		s.trace(v)
	}
}
