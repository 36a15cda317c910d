// Package itemgen produces random knapsack items.
//
// Weights and values are drawn uniformly from configurable ranges and
// rounded to two decimals, matching the precision the solvers and the
// result reports work with. A seeded PCG source makes every run
// reproducible: the same Seed and Options always yield the same items.
//
//	items, seed, err := itemgen.Generate(1000, itemgen.Options{Seed: 42})
package itemgen

import (
	"math"
	"math/rand/v2"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// Default ranges for generated items.
const (
	DefaultMinWeight = 1
	DefaultMaxWeight = 100
	DefaultMinValue  = 100
	DefaultMaxValue  = 1000
)

// Options configures Generate. Zero-valued fields select the defaults.
type Options struct {
	// Seed seeds the generator. Zero draws a random seed, which Generate returns.
	Seed uint64

	MinWeight, MaxWeight float64
	MinValue, MaxValue   float64

	// IntegerWeights rounds weights to whole numbers, which lets the
	// dynamic-programming solver work without discretization loss.
	IntegerWeights bool
}

func (o Options) withDefaults() Options {
	if o.MinWeight == 0 && o.MaxWeight == 0 {
		o.MinWeight, o.MaxWeight = DefaultMinWeight, DefaultMaxWeight
	}
	if o.MinValue == 0 && o.MaxValue == 0 {
		o.MinValue, o.MaxValue = DefaultMinValue, DefaultMaxValue
	}
	return o
}

func (o Options) validate() error {
	if err := checkRange("weight", o.MinWeight, o.MaxWeight); err != nil {
		return err
	}
	return checkRange("value", o.MinValue, o.MaxValue)
}

func checkRange(name string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "%s range must be finite, got [%v, %v]", name, lo, hi)
	}
	if lo <= 0 || hi < lo {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "%s range [%v, %v] must be positive and ordered", name, lo, hi)
	}
	return nil
}

// Generate returns n items with IDs 1..n and the seed that produced them.
func Generate(n int, opts Options) ([]knapsack.Item, uint64, error) {
	if err := kerrors.ValidateItemCount(n); err != nil {
		return nil, 0, err
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, 0, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	r := rand.New(rand.NewPCG(seed, seed>>1^0x5851f42d4c957f2d))

	items := make([]knapsack.Item, n)
	for i := range items {
		w := draw(r, opts.MinWeight, opts.MaxWeight)
		if opts.IntegerWeights {
			w = math.Max(math.Round(w), math.Ceil(opts.MinWeight))
		}
		items[i] = knapsack.Item{
			ID:     i + 1,
			Weight: w,
			Value:  draw(r, opts.MinValue, opts.MaxValue),
		}
	}
	return items, seed, nil
}

// draw returns a two-decimal value in [lo, hi], never below one cent.
func draw(r *rand.Rand, lo, hi float64) float64 {
	v := knapsack.Round2(lo + r.Float64()*(hi-lo))
	return math.Max(v, 0.01)
}
