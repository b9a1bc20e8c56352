// Package visitor provides the chained, priority-ordered traversal
// framework every bundled pass (include expansion, field resolution,
// validation, stats, simplification) is built on.
package visitor

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Context carries a cancellable context.Context plus an untyped, string
// keyed bag of values that passes travel state between handlers in a
// chain (e.g. the include visitor's cycle-detection stack). Get/Set below
// are thin wrappers over that bag, and GetTyped adds the type assertion so
// callers don't sprinkle one through their handlers.
type Context struct {
	context.Context

	// RunID is a random identifier assigned by NewContext and copied to
	// every per-branch Context of a concurrent walk. The bundled passes do
	// not attach it to their diagnostics or log lines.
	RunID uuid.UUID

	// Concurrent opts Boolean-clause traversal into a fan-out/fan-in walk
	// over golang.org/x/sync/errgroup instead of the sequential default.
	// Clause side effects still land in source order: each goroutine
	// writes its result into a pre-allocated slot, so reassembly order
	// never depends on completion order.
	Concurrent bool

	// Depth is the current node's nesting depth (1 for the root node
	// passed to Walk). Walk maintains it automatically: every recursive
	// descent increments it on entry and restores it on return, so a
	// handler reads it directly instead of the visitor threading it
	// through its own recursion.
	Depth int

	// IncludeStack is the chain of include names currently being
	// expanded, innermost last. Walk restores it to its pre-call value
	// on return from every node, so a handler (the include visitor, in
	// particular) can push a name for the subtree it hands back to Walk
	// without that push leaking into a later sibling.
	IncludeStack []string

	mu     *sync.RWMutex
	values map[string]any
}

// NewContext creates a Context derived from parent (use context.Background()
// when the caller has no existing context to thread through).
func NewContext(parent context.Context) *Context {
	if parent == nil {
		parent = context.Background()
	}
	return &Context{Context: parent, RunID: uuid.New(), mu: &sync.RWMutex{}, values: make(map[string]any)}
}

// Set stores val under key, visible to every handler later in the chain
// and to nested traversal.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = val
}

// Get retrieves the raw value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Delete removes key, if present.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// GetTyped fetches key and asserts it to T, reporting false on a missing
// key or a type mismatch rather than panicking.
func GetTyped[T any](c *Context, key string) (T, bool) {
	var zero T
	raw, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
