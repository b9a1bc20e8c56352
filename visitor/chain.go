package visitor

import (
	"sort"

	"github.com/lucenequery/lucene/ast"
)

// HandlerFunc is invoked for every node of the registered type as the
// chain walks past it. Returning a non-nil, different node replaces it for
// every later handler in the chain and for the default recursive descent
// that follows.
type HandlerFunc[T ast.Node] func(ctx *Context, n T) (ast.Node, error)

type handler struct {
	kind     ast.Kind
	priority int
	run      func(ctx *Context, n ast.Node) (ast.Node, error)
}

// Chain is a priority-ordered, type-dispatched sequence of handlers. A
// zero-value Chain is usable; construct with NewChain for clarity.
type Chain struct {
	handlers []handler
}

// NewChain returns an empty chain.
func NewChain() *Chain { return &Chain{} }

// kindOf recovers the ast.Kind a generic node type corresponds to without
// needing a live instance: every Kind method in package ast has a pointer
// receiver that never touches its fields, so calling it on a nil *T is
// safe.
func kindOf[T ast.Node]() ast.Kind {
	var zero T
	return zero.Kind()
}

// Add registers fn to run on every node of type T, in priority order
// (lower runs first); handlers registered at equal priority run in
// registration order.
func Add[T ast.Node](c *Chain, priority int, fn HandlerFunc[T]) {
	c.handlers = append(c.handlers, handler{
		kind:     kindOf[T](),
		priority: priority,
		run: func(ctx *Context, n ast.Node) (ast.Node, error) {
			typed, ok := n.(T)
			if !ok {
				return n, nil
			}
			return fn(ctx, typed)
		},
	})
	c.resort()
}

// Remove drops every handler registered for node type T.
func Remove[T ast.Node](c *Chain) {
	kind := kindOf[T]()
	kept := c.handlers[:0]
	for _, h := range c.handlers {
		if h.kind != kind {
			kept = append(kept, h)
		}
	}
	c.handlers = kept
}

// Replace removes every existing handler for T and installs fn in their
// place at priority.
func Replace[T ast.Node](c *Chain, priority int, fn HandlerFunc[T]) {
	Remove[T](c)
	Add[T](c, priority, fn)
}

// Before inserts fn so it runs ahead of every handler currently
// registered for T.
func Before[T ast.Node](c *Chain, fn HandlerFunc[T]) {
	min := 0
	kind := kindOf[T]()
	for _, h := range c.handlers {
		if h.kind == kind && h.priority < min {
			min = h.priority
		}
	}
	Add[T](c, min-1, fn)
}

// After inserts fn so it runs behind every handler currently registered
// for T.
func After[T ast.Node](c *Chain, fn HandlerFunc[T]) {
	max := 0
	kind := kindOf[T]()
	for _, h := range c.handlers {
		if h.kind == kind && h.priority > max {
			max = h.priority
		}
	}
	Add[T](c, max+1, fn)
}

func (c *Chain) resort() {
	sort.SliceStable(c.handlers, func(i, j int) bool {
		return c.handlers[i].priority < c.handlers[j].priority
	})
}

// run executes every handler registered for n's kind, in order, threading
// replacements through.
func (c *Chain) run(ctx *Context, n ast.Node) (ast.Node, error) {
	kind := n.Kind()
	result := n
	for _, h := range c.handlers {
		if h.kind != kind {
			continue
		}
		next, err := h.run(ctx, result)
		if err != nil {
			return nil, err
		}
		if next != nil {
			result = next
		}
	}
	return result, nil
}
