// Package pkg provides the libraries behind the knapsack command.
//
// # Overview
//
// The knapsack tool solves the 0/1 knapsack problem: given items with a
// weight and a value, choose a subset whose total weight fits a capacity and
// whose total value is as large as possible. The pkg directory is organized
// into three areas:
//
//  1. [knapsack] - Domain logic (items, solutions, the four solvers)
//  2. [itemgen], [io] - Instance sources (random generation, files)
//  3. [pipeline] - Orchestration (instance → solve → report) with [cache]
//     and [observability] hooks
//
// # Architecture
//
// The typical data flow:
//
//	Generator seed / instance file / API request
//	         ↓
//	    [itemgen] or [io] (items + capacity)
//	         ↓
//	    [pipeline] (validate, cache lookup, time the solve)
//	         ↓
//	    [knapsack] solver (bruteforce, greedy, dp, bnb)
//	         ↓
//	    report / JSON / search tree via [trace]
//
// # Quick Start
//
//	items, _, _ := itemgen.Generate(1000, itemgen.Options{Seed: 42})
//	sol, err := knapsack.BranchAndBound{}.Solve(items, 2500)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(sol.TotalValue, sol.IDs())
//
// # Main Packages
//
// [knapsack] - Exhaustive, greedy, dynamic-programming and branch-and-bound
// solvers behind one Solver interface.
//
// [itemgen] - Seeded random item generation.
//
// [io] - JSON and TOML instance files, optionally zstd-compressed.
//
// [trace] - Branch-and-bound search tree recording and Graphviz rendering.
//
// [pipeline] - Run orchestration shared by the CLI and the HTTP API, plus
// the solver comparison report.
//
// [cache] - In-process result caches (memory, null).
//
// [observability] - Instrumentation hooks.
//
// [errors] - Error codes and input validation.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/knapsack/... # Specific package
//	go test -run Example       # Examples only
//
// [knapsack]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/knapsack
// [itemgen]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/itemgen
// [io]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/io
// [trace]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/trace
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/knapsack/pkg/buildinfo
package pkg
