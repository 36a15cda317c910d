// Package observability lets a binary observe solver runs, result cache
// lookups, and API requests without the solver packages importing a logging
// or metrics framework.
//
// Each event category has a hook interface and a no-op default. The binary
// installs its implementations once, before the first solve:
//
//	observability.SetSolverHooks(&logHooks{logger: logger})
//
// Packages then emit through the registry:
//
//	observability.Solver().OnSolveStart(ctx, "bnb", len(items), capacity)
//	observability.Solver().OnSolveComplete(ctx, "bnb", value, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SolverHooks receives events from the solve pipeline.
type SolverHooks interface {
	// OnInstanceReady fires once the instance is generated or loaded, before
	// any solver runs.
	OnInstanceReady(ctx context.Context, source string, items int, capacity float64)

	OnSolveStart(ctx context.Context, algorithm string, items int, capacity float64)
	OnSolveComplete(ctx context.Context, algorithm string, value float64, duration time.Duration, err error)
}

// CacheHooks receives result cache lookups keyed by algorithm.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, algorithm string)
	OnCacheMiss(ctx context.Context, algorithm string)
	// OnCacheSet reports the encoded size in bytes of a stored solution.
	OnCacheSet(ctx context.Context, algorithm string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	// OnRateLimited fires instead of OnResponse for rejected requests.
	OnRateLimited(ctx context.Context, method, path string)
}

type NoopSolverHooks struct{}

func (NoopSolverHooks) OnInstanceReady(context.Context, string, int, float64) {}
func (NoopSolverHooks) OnSolveStart(context.Context, string, int, float64)    {}
func (NoopSolverHooks) OnSolveComplete(context.Context, string, float64, time.Duration, error) {
}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnRateLimited(context.Context, string, string)                   {}

type registry struct {
	mu     sync.RWMutex
	solver SolverHooks
	cache  CacheHooks
	http   HTTPHooks
}

var hooks = registry{
	solver: NoopSolverHooks{},
	cache:  NoopCacheHooks{},
	http:   NoopHTTPHooks{},
}

// SetSolverHooks installs h. A nil h is ignored.
func SetSolverHooks(h SolverHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.solver = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

func Solver() SolverHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.solver
}

func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks. Tests that install hooks call it in
// cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.solver = NoopSolverHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
