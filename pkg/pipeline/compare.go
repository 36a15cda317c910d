package pipeline

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/knapsack/pkg/cache"
	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// Comparison is the outcome of running every solver on one instance.
type Comparison struct {
	RunID    string            `json:"run_id"`
	Source   string            `json:"source"`
	Seed     uint64            `json:"seed,omitempty"`
	Instance knapsack.Instance `json:"-"`

	// Entries holds one entry per algorithm, in knapsack.Algorithms order.
	Entries []Entry `json:"entries"`

	// Best is the highest total value any solver reached.
	Best float64 `json:"best"`

	// UpperBound is the fractional relaxation optimum. No 0/1 selection
	// can exceed it.
	UpperBound float64 `json:"upper_bound"`
}

// Entry is one solver's line in a Comparison.
type Entry struct {
	Algorithm string            `json:"algorithm"`
	Solution  knapsack.Solution `json:"solution"`

	// Skipped explains why the solver did not run; Error why it failed.
	Skipped string `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`

	// Runs is how many times the solver ran. Mean and StdDev summarize
	// their wall times.
	Runs   int           `json:"runs"`
	Mean   time.Duration `json:"mean_ns"`
	StdDev time.Duration `json:"stddev_ns"`

	// Gap is the relative shortfall from Comparison.Best.
	Gap float64 `json:"gap"`

	// Stable reports that every run selected the same items.
	Stable bool `json:"stable"`
}

// OK reports whether the solver produced a solution.
func (e Entry) OK() bool {
	return e.Skipped == "" && e.Error == ""
}

// Compare runs every algorithm repeat times on the instance described by
// opts. The exhaustive solver is skipped above DefaultCompareBruteForce
// items. Solver failures are recorded per entry, not returned; only
// instance errors and cancellation abort the comparison.
func (r *Runner) Compare(ctx context.Context, opts Options, repeat int) (*Comparison, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if repeat < 1 {
		repeat = 1
	}

	in, source, seed, err := r.Instance(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}

	cmp := &Comparison{
		RunID:      uuid.NewString(),
		Source:     source,
		Seed:       seed,
		Instance:   in,
		UpperBound: knapsack.FractionalBound(in.Items, in.Capacity),
	}

	valid := 0
	for _, it := range in.Items {
		if it.Valid() {
			valid++
		}
	}

	for _, name := range knapsack.Algorithms() {
		if name == knapsack.AlgorithmBruteForce && valid > DefaultCompareBruteForce {
			cmp.Entries = append(cmp.Entries, Entry{
				Algorithm: name,
				Skipped:   fmt.Sprintf("%d items exceed the exhaustive limit of %d", valid, DefaultCompareBruteForce),
			})
			continue
		}
		entry, err := r.compareOne(ctx, in, name, opts, repeat)
		if err != nil {
			return nil, err
		}
		cmp.Entries = append(cmp.Entries, entry)
	}

	for _, e := range cmp.Entries {
		if e.OK() {
			cmp.Best = math.Max(cmp.Best, e.Solution.TotalValue)
		}
	}
	for i := range cmp.Entries {
		if cmp.Entries[i].OK() && cmp.Best > 0 {
			cmp.Entries[i].Gap = (cmp.Best - cmp.Entries[i].Solution.TotalValue) / cmp.Best
		}
	}

	opts.Logger.Info("compared solvers", "run", cmp.RunID, "items", len(in.Items), "best", cmp.Best, "repeat", repeat)
	return cmp, nil
}

func (r *Runner) compareOne(ctx context.Context, in knapsack.Instance, name string, opts Options, repeat int) (Entry, error) {
	entry := Entry{Algorithm: name, Stable: true}
	solver, err := opts.Solver(name)
	if err != nil {
		return Entry{}, err
	}

	times := make([]float64, 0, repeat)
	for i := 0; i < repeat; i++ {
		sol, elapsed, err := r.solve(ctx, solver, in)
		if ctx.Err() != nil {
			return Entry{}, ctx.Err()
		}
		if err != nil {
			entry.Error = kerrors.UserMessage(err)
			opts.Logger.Warn("solver failed", "algorithm", name, "error", err)
			break
		}
		if i == 0 {
			entry.Solution = sol
		} else if !slices.Equal(sol.Indices, entry.Solution.Indices) {
			entry.Stable = false
		}
		times = append(times, float64(elapsed))
	}

	entry.Runs = len(times)
	if len(times) > 0 {
		mean, std := stat.MeanStdDev(times, nil)
		if math.IsNaN(std) {
			std = 0
		}
		entry.Mean = time.Duration(mean)
		entry.StdDev = time.Duration(std)
	}
	return entry, nil
}

// Fingerprint returns the content hash of the compared instance.
func (c *Comparison) Fingerprint() string {
	return cache.InstanceHash(c.Instance)
}
