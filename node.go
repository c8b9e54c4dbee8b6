// SPDX-License-Identifier: MIT
package idtree

import "golang.org/x/exp/constraints"

type (
	// Node defines a record stored in a [Tree]: an identifier, an optional parent identifier &
	// the caller's payload.
	//
	// A nil ParentID marks a root.
	Node[K constraints.Integer, V any] struct {
		ID       K  `yaml:"id"`
		ParentID *K `yaml:"parentId,omitempty"`
		Value    V  `yaml:"value"`
	}

	// Visit is a [Node] annotated with its depth relative to the start of a descent.
	Visit[K constraints.Integer, V any] struct {
		Node[K, V]

		Depth int
	}
)

// NewRoot instantiates a parentless [Node].
func NewRoot[K constraints.Integer, V any](id K, value V) Node[K, V] {
	return Node[K, V]{ID: id, Value: value}
}

// NewChild instantiates a [Node] referencing parent.
func NewChild[K constraints.Integer, V any](id, parent K, value V) Node[K, V] {
	return Node[K, V]{ID: id, ParentID: &parent, Value: value}
}

// Parent retrieves the parent identifier, ok is false for a root.
func (n Node[K, V]) Parent() (parent K, ok bool) {
	if n.ParentID == nil {
		return
	}

	return *n.ParentID, true
}

// IsRoot reports whether the [Node] lacks a parent.
func (n Node[K, V]) IsRoot() bool { return n.ParentID == nil }

// NodeID implements [Builder].
func (n Node[K, V]) NodeID() K { return n.ID }

// NodeParent implements [Builder].
func (n Node[K, V]) NodeParent() (K, bool) { return n.Parent() }

// NodeValue implements [Builder].
func (n Node[K, V]) NodeValue() V { return n.Value }

// detach copies the ParentID so the stored node doesn't alias caller memory.
func (n Node[K, V]) detach() Node[K, V] {
	if n.ParentID != nil {
		parent := *n.ParentID
		n.ParentID = &parent
	}

	return n
}
