// Package resolve implements dependency ordering for named items.
//
// The resolver takes a sequence of items, each declaring a set of named
// dependencies, and produces a new ordering in which every dependency that
// is present in the sequence appears before its dependent. Items with no
// mutual dependency keep their original relative order, so the result is
// deterministic for a given input order.
//
// Dependencies naming items outside the sequence are tolerated: a bundler
// is routinely handed a partial universe of items. Cycles are fatal.
package resolve

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Item is the capability required of anything the resolver can order.
// Names must be non-empty and pairwise distinct within a single Solve call.
type Item interface {
	// Name returns the item's unique identifier.
	Name() string
	// Deps returns the names of items this item depends on.
	Deps() []string
}

// CircularError is returned by [Solve] when a dependency cycle is detected.
// Name identifies the item at which the cycle closed. No partial ordering
// is returned alongside it.
type CircularError struct {
	Name string
}

// Error implements the error interface.
func (e *CircularError) Error() string {
	return fmt.Sprintf("circular dependency detected at %q", e.Name)
}

// Option configures a Solve call.
type Option func(*config)

type config struct {
	warnLogger *log.Logger
}

// WithMissingWarnings makes Solve log a warning for every dependency that
// names an item absent from the input sequence. Missing dependencies are
// never an error; without this option they are silently skipped.
func WithMissingWarnings(l *log.Logger) Option {
	return func(c *config) {
		c.warnLogger = l
	}
}

// Solve returns a new ordering of items that satisfies all declared
// dependencies, or a *CircularError if the dependency graph contains a
// cycle. The input slice is not modified.
//
// The algorithm is a constructive topological sort: it walks positions left
// to right and pulls any not-yet-placed dependency in front of the current
// item, re-evaluating the same position after each pull so multi-level
// chains settle in a single traversal. A cycle manifests as the same name
// recurring while settling one position; that recurrence is the sole
// failure signal.
//
// The in-place reinsertion is O(n²) in the worst case on deep chains. That
// is acceptable for asset-sized inputs and is kept deliberately: the naive
// optimizations all change the tie-break order for independent items.
func Solve[T Item](items []T, opts ...Option) ([]T, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	names := make([]string, len(items))
	byName := make(map[string]T, len(items))
	pos := make(map[string]int, len(items))
	for i, it := range items {
		names[i] = it.Name()
		byName[names[i]] = it
		pos[names[i]] = i
	}

	for index := range names {
		seen := make(map[string]bool)
	settle:
		for {
			name := names[index]
			if seen[name] {
				return nil, &CircularError{Name: name}
			}
			seen[name] = true

			for _, dep := range byName[name].Deps() {
				j, present := pos[dep]
				if !present {
					if cfg.warnLogger != nil {
						cfg.warnLogger.Warn("missing dependency", "item", name, "dep", dep)
					}
					continue
				}
				if j > index {
					moveBefore(names, pos, j, index)
					continue settle // re-evaluate the dep we just placed
				}
			}
			break // full pass with no move: position is settled
		}
	}

	out := make([]T, len(names))
	for i, n := range names {
		out[i] = byName[n]
	}
	return out, nil
}

// moveBefore moves names[j] to position index, shifting the items in
// between one slot to the right, and keeps the position map in sync.
func moveBefore(names []string, pos map[string]int, j, index int) {
	moved := names[j]
	copy(names[index+1:j+1], names[index:j])
	names[index] = moved
	for i := index; i <= j; i++ {
		pos[names[i]] = i
	}
}
