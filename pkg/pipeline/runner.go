package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/knapsack/pkg/cache"
	kio "github.com/matzehuels/knapsack/pkg/io"
	"github.com/matzehuels/knapsack/pkg/itemgen"
	"github.com/matzehuels/knapsack/pkg/knapsack"
	"github.com/matzehuels/knapsack/pkg/observability"
)

// Runner encapsulates run execution with caching.
// Both CLI and API use this to avoid duplicating instance and caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// slots bounds concurrent solver goroutines when set. A slot is held
	// until the solver returns, also when the caller gave up on it.
	slots *semaphore.Weighted
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// LimitConcurrency caps the number of solvers running at once at n. Calls
// waiting for a slot fail with ctx.Err() when ctx ends first. It must be
// called before the runner is shared.
func (r *Runner) LimitConcurrency(n int) {
	if n <= 0 {
		r.slots = nil
		return
	}
	r.slots = semaphore.NewWeighted(int64(n))
}

// Execute obtains the instance and runs the configured solver on it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	in, source, seed, err := r.Instance(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}

	result := &Result{
		RunID:        uuid.NewString(),
		Source:       source,
		Seed:         seed,
		Instance:     in,
		InstanceHash: cache.InstanceHash(in),
	}

	sol, elapsed, hit, err := r.SolveWithCacheInfo(ctx, in, result.InstanceHash, opts.Algorithm, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Algorithm, err)
	}
	result.Solution = sol
	result.Elapsed = elapsed
	result.CacheHit = hit

	opts.Logger.Info("solved",
		"run", result.RunID,
		"algorithm", opts.Algorithm,
		"items", len(in.Items),
		"value", sol.TotalValue,
		"duration", elapsed,
		"cached", hit)
	return result, nil
}

// Instance resolves the problem instance from the options: request items,
// an instance file, or a generated item list. It returns the instance, its
// source, and the generator seed for generated instances.
func (r *Runner) Instance(ctx context.Context, opts Options) (knapsack.Instance, string, uint64, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return knapsack.Instance{}, "", 0, err
	}

	var (
		in     knapsack.Instance
		source string
		seed   uint64
	)
	switch {
	case len(opts.Items) > 0:
		in = knapsack.Instance{Capacity: opts.Capacity, Items: opts.Items}
		source = SourceRequest
	case opts.InstanceFile != "":
		loaded, err := kio.ImportFile(opts.InstanceFile)
		if err != nil {
			return knapsack.Instance{}, "", 0, err
		}
		in = loaded
		if opts.Capacity != 0 {
			in.Capacity = opts.Capacity
		}
		source = SourceFile
	default:
		items, s, err := itemgen.Generate(opts.Count, opts.Generator())
		if err != nil {
			return knapsack.Instance{}, "", 0, err
		}
		in = knapsack.Instance{Capacity: opts.Capacity, Items: items}
		source, seed = SourceGenerated, s
	}

	if err := in.Validate(); err != nil {
		return knapsack.Instance{}, "", 0, err
	}
	observability.Solver().OnInstanceReady(ctx, source, len(in.Items), in.Capacity)
	opts.Logger.Debug("instance ready", "source", source, "items", len(in.Items), "capacity", in.Capacity, "seed", seed)
	return in, source, seed, nil
}

// SolveWithCacheInfo runs algorithm on the instance, consulting the result
// cache first, and reports whether the solution came from the cache.
// Traced runs always execute the solver.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, in knapsack.Instance, instanceHash, algorithm string, opts Options) (knapsack.Solution, time.Duration, bool, error) {
	r.applyLogger(&opts)
	useCache := !opts.Refresh && opts.Trace == nil
	if instanceHash == "" {
		instanceHash = cache.InstanceHash(in)
	}
	cacheKey := r.Keyer.SolutionKey(instanceHash, algorithm, opts.settings(algorithm))

	if useCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var sol knapsack.Solution
			if err := json.Unmarshal(data, &sol); err == nil {
				observability.Cache().OnCacheHit(ctx, algorithm)
				return sol, 0, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, algorithm)
	}

	solver, err := opts.Solver(algorithm)
	if err != nil {
		return knapsack.Solution{}, 0, false, err
	}
	sol, elapsed, err := r.solve(ctx, solver, in)
	if err != nil {
		return knapsack.Solution{}, elapsed, false, err
	}

	if useCache {
		if data, err := json.Marshal(sol); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, TTLSolution); err == nil {
				observability.Cache().OnCacheSet(ctx, algorithm, len(data))
			} else {
				opts.Logger.Debug("cache write failed", "error", err)
			}
		}
	}
	return sol, elapsed, false, nil
}

// Solve runs solver on the instance and measures its wall time. Solvers do
// not observe ctx; when ctx ends first Solve returns ctx.Err() and the solver
// goroutine finishes in the background.
func Solve(ctx context.Context, solver knapsack.Solver, in knapsack.Instance) (knapsack.Solution, time.Duration, error) {
	return solve(ctx, solver, in, func() {})
}

// solve runs Solve under the runner's concurrency limit.
func (r *Runner) solve(ctx context.Context, solver knapsack.Solver, in knapsack.Instance) (knapsack.Solution, time.Duration, error) {
	if r.slots == nil {
		return Solve(ctx, solver, in)
	}
	if err := r.slots.Acquire(ctx, 1); err != nil {
		return knapsack.Solution{}, 0, err
	}
	return solve(ctx, solver, in, func() { r.slots.Release(1) })
}

// solve calls done exactly once, after the solver goroutine has returned.
func solve(ctx context.Context, solver knapsack.Solver, in knapsack.Instance, done func()) (knapsack.Solution, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		done()
		return knapsack.Solution{}, 0, err
	}

	type outcome struct {
		sol knapsack.Solution
		err error
	}
	results := make(chan outcome, 1)

	observability.Solver().OnSolveStart(ctx, solver.Name(), len(in.Items), in.Capacity)
	start := time.Now()
	go func() {
		sol, err := solver.Solve(in.Items, in.Capacity)
		done()
		results <- outcome{sol, err}
	}()

	select {
	case <-ctx.Done():
		elapsed := time.Since(start)
		observability.Solver().OnSolveComplete(ctx, solver.Name(), 0, elapsed, ctx.Err())
		return knapsack.Solution{}, elapsed, ctx.Err()
	case out := <-results:
		elapsed := time.Since(start)
		observability.Solver().OnSolveComplete(ctx, solver.Name(), out.sol.TotalValue, elapsed, out.err)
		return out.sol, elapsed, out.err
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
