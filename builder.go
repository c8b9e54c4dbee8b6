// SPDX-License-Identifier: MIT
package idtree

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

type (
	// Builder defines an interface for entities that can be read into a [Tree].
	Builder[K constraints.Integer, V any] interface {
		// NodeID obtains the identifier stored by the Builder.
		NodeID() K
		// NodeParent obtains the parent identifier stored by the Builder, ok is false for a root.
		NodeParent() (parent K, ok bool)
		// NodeValue obtains the payload stored by the Builder.
		NodeValue() V
	}

	// BuildSource is a wrapper type for []Builder used to generate a [Tree].
	BuildSource[K constraints.Integer, V any] struct {
		debug  bool
		logger logrus.FieldLogger

		list      []Builder[K, V]
		isOrdered bool
	}

	// BuildOption defines the BuildSource functional option type.
	BuildOption[K constraints.Integer, V any] func(*BuildSource[K, V])
)

// Tree building errors.
var (
	ErrBuildTree = errors.New("failed to build tree")

	ErrEmptyBuildSrc = errors.New("empty build source")
	ErrLocateParents = errors.New("unable to locate parent(s)")

	ErrPanicked = errors.New("recovery from panic")
)

// NewBuildSource instantiates a BuildSource.
func NewBuildSource[K constraints.Integer, V any](options ...BuildOption[K, V]) *BuildSource[K, V] {
	b := &BuildSource[K, V]{
		list:   []Builder[K, V]{},
		logger: logrus.New(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// WithBuilders configures the underlying list.
func WithBuilders[K constraints.Integer, V any](list []Builder[K, V]) BuildOption[K, V] {
	return func(b *BuildSource[K, V]) { b.list = list }
}

// WithNodes configures the underlying list from [Node]s.
func WithNodes[K constraints.Integer, V any](nodes ...Node[K, V]) BuildOption[K, V] {
	return func(b *BuildSource[K, V]) {
		b.list = make([]Builder[K, V], len(nodes))
		for index := range nodes {
			b.list[index] = nodes[index]
		}
	}
}

// WithOrdered marks the source as topologically ordered, parents preceding children.
//
// An ordered source is added in a single pass.
func WithOrdered[K constraints.Integer, V any]() BuildOption[K, V] {
	return func(b *BuildSource[K, V]) { b.isOrdered = true }
}

// WithBuildLogger configures the logger option.
func WithBuildLogger[K constraints.Integer, V any](logger logrus.FieldLogger) BuildOption[K, V] {
	return func(b *BuildSource[K, V]) { b.logger = logger }
}

// WithBuildDebug configures the debug option.
func WithBuildDebug[K constraints.Integer, V any](debug bool) BuildOption[K, V] {
	return func(b *BuildSource[K, V]) { b.debug = debug }
}

// Len retrieves the length of the BuildSource.
func (b *BuildSource[K, V]) Len() int { return len(b.list) }

// Cut a value at some index from the BuildSource.
func (b *BuildSource[K, V]) Cut(index int) {
	if index == 0 {
		b.list = b.list[1:]
		return
	}

	// Cut upto (excluding) `index`, cut from (including) `index+1`.
	b.list = append(b.list[:index], b.list[index+1:]...)
}

// Build generates a [Tree] from the BuildSource, consuming it.
//
// Unordered sources are added over multiple passes, each adding the records whose parent is
// present. The remnants stay in the BuildSource on error.
func (b *BuildSource[K, V]) Build(ctx context.Context, options ...Option) (t *Tree[K, V], err error) {
	defer func() {
		if err != nil {
			t, err = nil, fmt.Errorf("%w: %w", ErrBuildTree, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		// Skip expensive operation if not debug.
		if err != nil && b.debug {
			b.logger.Debugf("current tree: %s \nsource remnants: %s", spew.Sdump(t), spew.Sprint(b.list))
		}
	}()

	if b.Len() < 1 {
		err = ErrEmptyBuildSrc
		return
	}

	t = New[K, V](options...)
	for b.Len() > 0 {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		prevLen := b.Len()
		for index := 0; index < b.Len(); {
			record := b.list[index]

			// Parent not in tree yet.
			if !b.isOrdered && !t.resolvable(record) {
				index++
				continue
			}

			if err = t.Add(nodeOf(record)); err != nil {
				return
			}

			// Remove added node from the build source.
			b.Cut(index)
		}

		if b.Len() == prevLen {
			err = fmt.Errorf("%w for: %s", ErrLocateParents, spew.Sprint(b.list))
			return
		}
		if b.debug {
			b.logger.Debugf("added %d node(s), %d remaining", prevLen-b.Len(), b.Len())
		}
	}

	return
}

// resolvable reports whether record may be added without a missing parent.
//
// Self-parenting records are resolvable so that Add rejects them.
func (t *Tree[K, V]) resolvable(record Builder[K, V]) bool {
	parent, ok := record.NodeParent()
	if !ok || parent == record.NodeID() {
		return true
	}

	_, ok = t.nodes[parent]
	return ok
}

func nodeOf[K constraints.Integer, V any](record Builder[K, V]) Node[K, V] {
	if n, ok := record.(Node[K, V]); ok {
		return n
	}

	n := Node[K, V]{ID: record.NodeID(), Value: record.NodeValue()}
	if parent, ok := record.NodeParent(); ok {
		n.ParentID = &parent
	}

	return n
}
