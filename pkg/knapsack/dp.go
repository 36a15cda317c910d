package knapsack

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

const (
	// DefaultMargin is the number of slack cells appended past the discretized
	// capacity. Converting a rounded real capacity to an integer index can land
	// one cell off; the margin keeps every index the update loop touches inside
	// the table.
	DefaultMargin = 200

	// DefaultScale is the number of table cells per unit of weight. A scale of
	// 100 makes two-decimal weights exact at the cost of a 100x larger table.
	DefaultScale = 1

	// DefaultMaxCells bounds the table size. Larger requests fail with
	// RESOURCE_EXHAUSTED instead of attempting the allocation.
	DefaultMaxCells = 1 << 26

	// discretizeEps absorbs floating-point noise such as 2.3*100 = 229.99999999999997
	// before rounding to a cell index.
	discretizeEps = 1e-6

	// maxIndex saturates cell counts so float-to-int conversion of huge
	// weights and capacities cannot overflow.
	maxIndex = 1 << 52
)

// Reconstruction selects how DynamicProgramming recovers the chosen subset.
type Reconstruction int

const (
	// Exact records, per item, which cells the item improved, and walks that
	// provenance back from the capacity cell. The recovered subset's value
	// always equals the table's answer.
	Exact Reconstruction = iota

	// Heuristic records a single "improved some cell" flag per item and walks
	// items from last to first, taking flagged items that fit the remaining
	// real capacity. It needs n bits instead of a per-cell trace but may return
	// a subset worth less than the table's answer, or skip an item the table
	// counted.
	Heuristic
)

// String returns the mode name.
func (r Reconstruction) String() string {
	if r == Heuristic {
		return "heuristic"
	}
	return "exact"
}

// DynamicProgramming builds a one-dimensional value table indexed by
// discretized capacity and reconstructs the chosen subset from a decision
// trace. Time is O(n * cells).
//
// Item weights are rounded up to whole cells and the answer is read at the
// cell for the rounded-down capacity, so a reconstructed subset never
// exceeds the capacity. With fractional weights and DefaultScale the answer
// may therefore be below the true optimum; raise Scale to refine the grid.
type DynamicProgramming struct {
	// Margin is the slack cell count. Zero selects DefaultMargin; negative disables it.
	Margin int

	// Scale is the number of cells per weight unit. Zero selects DefaultScale.
	Scale int

	// MaxCells caps the table size. Zero selects DefaultMaxCells.
	MaxCells int

	Reconstruction Reconstruction
	Logf           Logf
}

// Name implements Solver.
func (DynamicProgramming) Name() string { return AlgorithmDP }

func (d DynamicProgramming) margin() int {
	switch {
	case d.Margin == 0:
		return DefaultMargin
	case d.Margin < 0:
		return 0
	case d.Margin > maxIndex:
		return maxIndex
	}
	return d.Margin
}

func (d DynamicProgramming) scale() int {
	if d.Scale <= 0 {
		return DefaultScale
	}
	return d.Scale
}

func (d DynamicProgramming) maxCells() int {
	if d.MaxCells <= 0 {
		return DefaultMaxCells
	}
	return d.MaxCells
}

// Discretize maps a capacity onto the table: the capacity is rounded to two
// decimals and scaled, top is the ceiling cell, answer is the floor cell the
// result is read from, and size is top plus the margin plus one. Indices
// saturate at 2^52; use TableCells for the unsaturated size.
func (d DynamicProgramming) Discretize(capacity float64) (top, answer, size int) {
	scaled := Round2(capacity) * float64(d.scale())
	top = toIndex(math.Ceil(scaled - discretizeEps))
	answer = toIndex(math.Floor(scaled + discretizeEps))
	if top < 0 {
		top = 0
	}
	return top, answer, top + d.margin() + 1
}

// TableCells is the number of cells a table for capacity needs, in floating
// point so that it can be compared with MaxCells before any allocation.
func (d DynamicProgramming) TableCells(capacity float64) float64 {
	top := math.Max(0, math.Ceil(Round2(capacity)*float64(d.scale())-discretizeEps))
	return top + float64(d.margin()) + 1
}

// cells returns the whole number of cells an item of weight w occupies.
func (d DynamicProgramming) cells(w float64) int {
	return toIndex(math.Ceil(w*float64(d.scale()) - discretizeEps))
}

func toIndex(x float64) int {
	if x > maxIndex {
		return maxIndex
	}
	return int(x)
}

// Solve implements Solver.
func (d DynamicProgramming) Solve(items []Item, capacity float64) (Solution, error) {
	if err := validateCapacity(capacity); err != nil {
		return Solution{}, err
	}

	if need, limit := d.TableCells(capacity), d.maxCells(); need > float64(limit) {
		return Solution{}, kerrors.New(kerrors.ErrCodeResourceExhausted,
			"capacity table of %.0f cells (%.0f KB) exceeds the limit of %d cells", need, need*8/1024, limit)
	}
	_, answer, size := d.Discretize(capacity)

	cands, skipped := screen(items, d.Logf)
	units := make([]int, 0, len(cands))
	kept := cands[:0:0]
	for _, c := range cands {
		w := d.cells(c.Weight)
		if w <= 0 || w >= size {
			reason := "weight discretizes to zero cells"
			if w > 0 {
				reason = "weight exceeds the table"
			}
			d.Logf.printf("skipping item %d: %s (weight %.2f, %d cells, table %d)", c.ID, reason, c.Weight, w, size)
			skipped = append(skipped, Skip{ItemID: c.ID, Index: c.index, Reason: reason})
			continue
		}
		kept = append(kept, c)
		units = append(units, w)
	}

	if answer < 0 || answer >= size {
		return Solution{}, kerrors.New(kerrors.ErrCodeInternal,
			"result index %d outside table of %d cells", answer, size)
	}

	table := make([]float64, size)
	var (
		keep []*roaring.Bitmap
		used *bitset.BitSet
	)
	if d.Reconstruction == Heuristic {
		used = bitset.New(uint(len(kept)))
	} else {
		keep = make([]*roaring.Bitmap, len(kept))
	}

	for k, c := range kept {
		w, v := units[k], c.Value
		if keep != nil {
			keep[k] = roaring.New()
		}
		// Descending j keeps each item single-use: table[j-w] still holds the
		// value from before this item was considered.
		for j := size - 1; j >= w; j-- {
			if cand := table[j-w] + v; cand > table[j] {
				table[j] = cand
				if used != nil {
					used.Set(uint(k))
				} else if j <= answer {
					keep[k].Add(uint32(j))
				}
			}
		}
	}

	var (
		slots []int
		err   error
	)
	if d.Reconstruction == Heuristic {
		slots, err = heuristicTrace(kept, used, capacity)
	} else {
		slots, err = exactTrace(kept, units, keep, answer)
	}
	if err != nil {
		return Solution{}, err
	}

	sol, err := newSolution(AlgorithmDP, items, positions(kept, slots))
	if err != nil {
		return Solution{}, err
	}
	if d.Reconstruction == Exact && !closeTo(sol.TotalValue, table[answer]) {
		return Solution{}, kerrors.New(kerrors.ErrCodeInternal,
			"reconstructed value %.6f does not match table value %.6f", sol.TotalValue, table[answer])
	}
	sol.Skipped = skipped
	sol.Stats.TableSize = size
	sol.Stats.TableValue = table[answer]
	return sol, nil
}

// exactTrace walks the per-item provenance from the answer cell downwards.
func exactTrace(kept []candidate, units []int, keep []*roaring.Bitmap, answer int) ([]int, error) {
	var slots []int
	c := answer
	for k := len(kept) - 1; k >= 0 && c > 0; k-- {
		if keep[k].Contains(uint32(c)) {
			slots = append(slots, k)
			c -= units[k]
		}
	}
	if c < 0 {
		return nil, kerrors.New(kerrors.ErrCodeInternal, "provenance walk left the table at cell %d", c)
	}
	return slots, nil
}

// heuristicTrace takes flagged items from last to first while they fit the
// remaining real capacity.
func heuristicTrace(kept []candidate, used *bitset.BitSet, capacity float64) ([]int, error) {
	var slots []int
	remaining := capacity
	for k := len(kept) - 1; k >= 0 && remaining > 0; k-- {
		if !used.Test(uint(k)) || kept[k].Weight > remaining {
			continue
		}
		if len(slots) >= len(kept) {
			return nil, kerrors.New(kerrors.ErrCodeInternal, "selected more than %d items", len(kept))
		}
		slots = append(slots, k)
		remaining -= kept[k].Weight
	}
	return slots, nil
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
