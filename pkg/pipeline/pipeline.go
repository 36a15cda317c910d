// Package pipeline runs knapsack solvers end to end.
//
// This package implements the instance → solve → report flow shared by the
// CLI commands and the HTTP API. By centralizing this logic, every entry point
// validates input the same way, caches results the same way and fires the
// same observability hooks.
//
// # Architecture
//
// A run consists of two stages:
//
//  1. Instance: load items from a file, take them from the request, or
//     generate them from a seed
//  2. Solve: build the configured solver, run it, and time it
//
// # Usage
//
// Create a Runner and execute a run:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts := pipeline.Options{
//	    Algorithm: "dp",
//	    Count:     1000,
//	    Capacity:  2500,
//	    Seed:      42,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Solution.TotalValue)
//
// Compare all solvers on one instance:
//
//	cmp, err := runner.Compare(ctx, opts, 5)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/itemgen"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm is the solver used when none is named.
	DefaultAlgorithm = knapsack.AlgorithmBranchAndBound

	// DefaultCompareBruteForce is the largest instance Compare still runs the
	// exhaustive solver on. Beyond it the enumeration takes minutes.
	DefaultCompareBruteForce = 24

	// TTLSolution is how long cached solutions stay valid.
	TTLSolution = 7 * 24 * time.Hour
)

// Instance sources reported in Result.Source.
const (
	SourceGenerated = "generated"
	SourceFile      = "file"
	SourceRequest   = "request"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Solver selection
	Algorithm string `json:"algorithm,omitempty"`

	// Instance options. Exactly one source is used: Items when non-empty,
	// else InstanceFile, else Count generated items.
	Capacity       float64         `json:"capacity"`
	Items          []knapsack.Item `json:"items,omitempty"`
	InstanceFile   string          `json:"-"`
	Count          int             `json:"count,omitempty"`
	Seed           uint64          `json:"seed,omitempty"`
	IntegerWeights bool            `json:"integer_weights,omitempty"`

	// Dynamic programming tunables
	Margin    int  `json:"margin,omitempty"`
	Scale     int  `json:"scale,omitempty"`
	MaxCells  int  `json:"max_cells,omitempty"`
	Heuristic bool `json:"heuristic,omitempty"`

	// Branch-and-bound tunables
	InitialStack int `json:"initial_stack,omitempty"`
	MaxFrames    int `json:"max_frames,omitempty"`

	// Brute-force tunables
	WarnSubsets uint64 `json:"warn_subsets,omitempty"`

	// Refresh bypasses the result cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger           `json:"-"`
	Trace  func(knapsack.Visit) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a single run.
type Result struct {
	// RunID uniquely identifies the run in logs and API responses.
	RunID string `json:"run_id"`

	// Source is where the items came from (generated, file, request).
	Source string `json:"source"`

	// Seed is the generator seed, zero unless Source is generated.
	Seed uint64 `json:"seed,omitempty"`

	Instance     knapsack.Instance `json:"-"`
	InstanceHash string            `json:"instance_hash"`
	Solution     knapsack.Solution `json:"solution"`

	// Elapsed is the wall time spent in the solver.
	Elapsed time.Duration `json:"elapsed_ns"`

	// CacheHit reports whether Solution came from the result cache.
	CacheHit bool `json:"cache_hit"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if err := kerrors.ValidateAlgorithm(o.Algorithm, knapsack.Algorithms()); err != nil {
		return err
	}
	o.Algorithm = strings.ToLower(strings.TrimSpace(o.Algorithm))

	if err := o.validateSource(); err != nil {
		return err
	}
	if o.Margin < 0 && o.Margin != -1 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "margin must be non-negative, or -1 for none, got %d", o.Margin)
	}
	if o.Scale < 0 || o.MaxCells < 0 || o.InitialStack < 0 || o.MaxFrames < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "solver limits must be non-negative")
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) validateSource() error {
	switch {
	case len(o.Items) > 0:
		if err := kerrors.ValidateItemCount(len(o.Items)); err != nil {
			return err
		}
		return kerrors.ValidateCapacity(o.Capacity)
	case o.InstanceFile != "":
		// The file supplies the capacity unless the caller overrides it.
		if o.Capacity != 0 {
			return kerrors.ValidateCapacity(o.Capacity)
		}
		return nil
	default:
		if err := kerrors.ValidateItemCount(o.Count); err != nil {
			return err
		}
		return kerrors.ValidateCapacity(o.Capacity)
	}
}

// Generator returns the item generator options for generated instances.
func (o *Options) Generator() itemgen.Options {
	return itemgen.Options{Seed: o.Seed, IntegerWeights: o.IntegerWeights}
}

// Solver builds the configured solver for algorithm. Diagnostics go to
// the options' logger.
func (o *Options) Solver(algorithm string) (knapsack.Solver, error) {
	if err := kerrors.ValidateAlgorithm(algorithm, knapsack.Algorithms()); err != nil {
		return nil, err
	}
	logf := o.logf()
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case knapsack.AlgorithmBruteForce:
		return knapsack.BruteForce{WarnSubsets: o.WarnSubsets, Logf: logf}, nil
	case knapsack.AlgorithmGreedy:
		return knapsack.Greedy{Logf: logf}, nil
	case knapsack.AlgorithmDP:
		dp := knapsack.DynamicProgramming{
			Margin:   o.Margin,
			Scale:    o.Scale,
			MaxCells: o.MaxCells,
			Logf:     logf,
		}
		if o.Heuristic {
			dp.Reconstruction = knapsack.Heuristic
		}
		return dp, nil
	default:
		return knapsack.BranchAndBound{
			InitialStack: o.InitialStack,
			MaxFrames:    o.MaxFrames,
			Trace:        o.Trace,
			Logf:         logf,
		}, nil
	}
}

func (o *Options) logf() knapsack.Logf {
	logger := o.Logger
	if logger == nil {
		return nil
	}
	return func(format string, args ...any) {
		logger.Warnf(format, args...)
	}
}

// settings returns the tunables that influence algorithm's result, for
// cache keys. Tunables of other solvers are left out so they do not split
// the cache.
func (o *Options) settings(algorithm string) any {
	switch algorithm {
	case knapsack.AlgorithmDP:
		return struct {
			Margin, Scale int
			Heuristic     bool
		}{o.Margin, o.Scale, o.Heuristic}
	default:
		return nil
	}
}
