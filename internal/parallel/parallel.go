// Package parallel provides the fan-out primitive used to verify independent
// IR subtrees concurrently.
//
// The primitive is deliberately small: run a function over a collection,
// possibly in parallel, and return once every call has joined. There is no
// cancellation. A failing call never stops its siblings, because callers
// (the verifier's isolation scheduler) want every diagnostic emitted.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls how ForEach and Map schedule work.
type Config struct {
	// Enabled turns on concurrent execution. When false every call runs
	// inline on the caller's goroutine, in collection order.
	Enabled bool

	// Limit bounds the number of concurrently running calls.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Limit int
}

// DefaultConfig enables concurrency bounded by GOMAXPROCS.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// Sequential returns a config that runs every call inline.
func Sequential() Config {
	return Config{}
}

// limit resolves the effective concurrency bound.
func (c Config) limit() int {
	if c.Limit > 0 {
		return c.Limit
	}
	return runtime.GOMAXPROCS(0)
}

// ForEach calls fn once for every item and returns after all calls finish.
//
// Completion order is unspecified. fn must be safe to call concurrently
// when cfg.Enabled is set.
func ForEach[T any](cfg Config, items []T, fn func(T)) {
	if !cfg.Enabled || len(items) < 2 {
		for _, item := range items {
			fn(item)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(cfg.limit())
	for _, item := range items {
		g.Go(func() error {
			fn(item)
			return nil
		})
	}
	// Calls never return errors, so Wait is only a join barrier here.
	_ = g.Wait()
}

// Map calls fn once for every item and returns the results index-aligned
// with items. Completion order is unspecified.
func Map[T, R any](cfg Config, items []T, fn func(T) R) []R {
	results := make([]R, len(items))
	indices := make([]int, len(items))
	for i := range indices {
		indices[i] = i
	}
	// Each call writes a distinct slot, so no locking is needed.
	ForEach(cfg, indices, func(i int) {
		results[i] = fn(items[i])
	})
	return results
}
