// Package cli implements the knapsack command-line interface.
//
// Instances come from a seeded generator or a JSON/TOML file and are solved
// by one of four algorithms. The commands are:
//   - solve: run one algorithm and report the chosen items
//   - compare: run every algorithm on one instance and tabulate them
//   - generate: write a seeded random instance
//   - trace: render the branch-and-bound search tree as DOT or SVG
//   - serve: expose solve and compare as a JSON HTTP API
//   - config: inspect the configuration file
//
// # Logging
//
// Diagnostics go to stderr through charmbracelet/log; the logger travels in
// the command context. With --verbose the observability hooks log solver,
// cache, and request events at debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with centisecond timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// progress logs how long a step took, e.g. "Rendered search tree (412ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return l
}

// logHooks routes observability events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnInstanceReady(_ context.Context, source string, items int, capacity float64) {
	h.logger.Debug("instance ready", "source", source, "items", items, "capacity", capacity)
}

func (h *logHooks) OnSolveStart(_ context.Context, algorithm string, items int, capacity float64) {
	h.logger.Debug("solve start", "algorithm", algorithm, "items", items, "capacity", capacity)
}

func (h *logHooks) OnSolveComplete(_ context.Context, algorithm string, value float64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "algorithm", algorithm, "duration", d, "err", err)
		return
	}
	h.logger.Debug("solve complete", "algorithm", algorithm, "value", value, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, algorithm string) {
	h.logger.Debug("cache hit", "algorithm", algorithm)
}

func (h *logHooks) OnCacheMiss(_ context.Context, algorithm string) {
	h.logger.Debug("cache miss", "algorithm", algorithm)
}

func (h *logHooks) OnCacheSet(_ context.Context, algorithm string, size int) {
	h.logger.Debug("cache set", "algorithm", algorithm, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnRateLimited(_ context.Context, method, path string) {
	h.logger.Warn("rate limited", "method", method, "path", path)
}
