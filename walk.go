// SPDX-License-Identifier: MIT
package idtree

import (
	"context"

	"golang.org/x/exp/constraints"
)

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal

const walkBufferSize = 10

// DownForEach performs level-order traversal from id, invoking fn for id & its descendants.
//
// Every node at depth d is visited before any node at depth d+1; siblings follow insertion
// order. An id absent from the store gets no callback, its registered children are still
// walked.
func (t *Tree[K, V]) DownForEach(id K, fn func(Visit[K, V]), options ...QueryOption) {
	t.descend(id, newQuery(options), func(v Visit[K, V]) bool {
		fn(v)
		return true
	})
}

// DownMap collects id & its descendants in [Tree.DownForEach] order.
func (t *Tree[K, V]) DownMap(id K, options ...QueryOption) []Visit[K, V] {
	return DownMapFunc(t, id, identity[Visit[K, V]], options...)
}

// DownMapFunc collects fn's results for id & its descendants in [Tree.DownForEach] order.
func DownMapFunc[K constraints.Integer, V, R any](t *Tree[K, V], id K, fn func(Visit[K, V]) R, options ...QueryOption) (results []R) {
	results = make([]R, 0)
	t.DownForEach(id, func(v Visit[K, V]) { results = append(results, fn(v)) }, options...)

	return
}

// Walk streams id & its descendants in [Tree.DownForEach] order.
//
// The channel is closed once the walk ends or ctx is canceled. Adding to the Tree while
// walking is unsupported.
func (t *Tree[K, V]) Walk(ctx context.Context, id K, options ...QueryOption) <-chan Visit[K, V] {
	walkChan := make(chan Visit[K, V], walkBufferSize)
	q := newQuery(options)

	go func() {
		defer close(walkChan)

		t.descend(id, q, func(v Visit[K, V]) bool {
			select {
			case <-ctx.Done():
				// Received context cancellation.
				return false
			case walkChan <- v:
				return true
			}
		})
	}()

	return walkChan
}

// descend performs the level-order traversal, stopping once visit returns false.
func (t *Tree[K, V]) descend(id K, q *query, visit func(Visit[K, V]) bool) {
	if q.stopDepth < 0 {
		return
	}

	if node, ok := t.nodes[id]; ok && q.reports(0) {
		if !visit(Visit[K, V]{Node: node}) {
			return
		}
	}

	// Level order traversal, keyed by identifier rather than store presence.
	queue := []K{id}
	for depth := 1; depth <= q.stopDepth && len(queue) > 0; depth++ {
		var next []K
		for _, parent := range queue {
			for _, childID := range t.children[parent] {
				if q.reports(depth) && !visit(Visit[K, V]{Node: t.nodes[childID], Depth: depth}) {
					return
				}
				next = append(next, childID)
			}
		}
		queue = next
	}
}

// UpForEach invokes fn for id & its ancestors, ascending to the root.
//
// The ascent stops silently at a root or at a parent missing from the store.
func (t *Tree[K, V]) UpForEach(id K, fn func(Node[K, V]), options ...QueryOption) {
	q := newQuery(options)

	for depth, current := 0, &id; current != nil && depth <= q.stopDepth; depth++ {
		node, ok := t.nodes[*current]
		if !ok {
			return
		}

		if q.reports(depth) {
			fn(node)
		}
		current = node.ParentID
	}
}

// UpMap collects id & its ancestors in [Tree.UpForEach] order.
func (t *Tree[K, V]) UpMap(id K, options ...QueryOption) []Node[K, V] {
	return UpMapFunc(t, id, identity[Node[K, V]], options...)
}

// UpMapFunc collects fn's results for id & its ancestors in [Tree.UpForEach] order.
func UpMapFunc[K constraints.Integer, V, R any](t *Tree[K, V], id K, fn func(Node[K, V]) R, options ...QueryOption) (results []R) {
	results = make([]R, 0)
	t.UpForEach(id, func(n Node[K, V]) { results = append(results, fn(n)) }, options...)

	return
}
