// SPDX-License-Identifier: MIT
package idtree

import "golang.org/x/exp/constraints"

// Branch defines a nested subtree built by [Tree.Get].
type Branch[R any] struct {
	Value R            `yaml:"value"`
	Child []*Branch[R] `yaml:"child"`
}

// Get builds the nested subtree rooted at id.
//
// ok is false for an absent id or a negative [StopDepth]. Children deeper than [StopDepth]
// are left out, the boundary level holding an empty Child list.
func (t *Tree[K, V]) Get(id K, options ...QueryOption) (*Branch[Node[K, V]], bool) {
	return GetFunc(t, id, identity[Node[K, V]], options...)
}

// GetFunc builds the nested subtree rooted at id, transforming every node with fn.
func GetFunc[K constraints.Integer, V, R any](t *Tree[K, V], id K, fn func(Node[K, V]) R, options ...QueryOption) (*Branch[R], bool) {
	q := newQuery(options)
	if q.stopDepth < 0 {
		return nil, false
	}

	node, ok := t.nodes[id]
	if !ok {
		return nil, false
	}

	return &Branch[R]{
		Value: fn(node),
		Child: branches(t, id, 1, q, fn),
	}, true
}

// branches builds the children of id sitting at depth.
func branches[K constraints.Integer, V, R any](t *Tree[K, V], id K, depth int, q *query, fn func(Node[K, V]) R) []*Branch[R] {
	if depth > q.stopDepth {
		return []*Branch[R]{}
	}

	children := t.children[id]
	child := make([]*Branch[R], len(children))
	for index, childID := range children {
		child[index] = &Branch[R]{
			Value: fn(t.nodes[childID]),
			Child: branches(t, childID, depth+1, q, fn),
		}
	}

	return child
}

func identity[T any](v T) T { return v }
