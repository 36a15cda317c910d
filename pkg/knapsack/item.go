package knapsack

import (
	"math"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

// Tolerance is the slack allowed when comparing a solution's weight with the
// capacity. Inputs carry two decimals, so half a cent of rounding is accepted.
const Tolerance = 0.005

// Item is a candidate object for the knapsack.
type Item struct {
	ID     int     `json:"id" toml:"id"`
	Weight float64 `json:"weight" toml:"weight"`
	Value  float64 `json:"value" toml:"value"`
}

// Density returns the value-to-weight ratio.
func (it Item) Density() float64 {
	return it.Value / it.Weight
}

// Valid reports whether weight and value are strictly positive finite numbers.
func (it Item) Valid() bool {
	return kerrors.ValidateItem(it.ID, it.Weight, it.Value) == nil
}

// Instance is a problem instance: an ordered item list and a capacity.
type Instance struct {
	Capacity float64 `json:"capacity" toml:"capacity"`
	Items    []Item  `json:"items" toml:"items"`
}

// Validate checks the top-level invariants of the instance: a positive finite
// capacity, at least one item, and unique positive IDs. Individual items with
// out-of-domain weight or value are not rejected here; solvers skip them.
func (in Instance) Validate() error {
	if err := kerrors.ValidateCapacity(in.Capacity); err != nil {
		return err
	}
	if err := kerrors.ValidateItemCount(len(in.Items)); err != nil {
		return err
	}
	seen := make(map[int]struct{}, len(in.Items))
	for i, it := range in.Items {
		if it.ID < 1 {
			return kerrors.New(kerrors.ErrCodeInvalidItem, "item at position %d has id %d, ids start at 1", i, it.ID)
		}
		if _, dup := seen[it.ID]; dup {
			return kerrors.New(kerrors.ErrCodeInvalidItem, "duplicate item id %d", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
