// SPDX-License-Identifier: MIT
package idtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"gitlab.com/fisherprime/idtree/internal/metrics"
)

// REF: https://en.wikipedia.org/wiki/Adjacency_list
//
// The node store owns every Node; the child index & root list only hold identifiers.

type (
	// Tree defines a forest rebuilt from parent-pointer records.
	//
	// Synchronization is unnecessary, the type is designed for single write multiple read:
	// reads may run concurrently only while no Add or Clear is in progress.
	Tree[K constraints.Integer, V any] struct {
		// cfg contains the Tree's configuration.
		cfg *Config

		// nodes holds every stored Node keyed by its identifier.
		nodes map[K]Node[K, V]

		// children holds the identifiers of a parent's direct children, in insertion order.
		children map[K][]K

		// roots holds the identifiers of parentless nodes, in insertion order.
		roots []K

		// depth is the highest chain length observed across insertions.
		depth int
	}

	// Config defines configuration options for a [Tree]'s operations.
	Config struct {
		// Logger for [Tree] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger

		// Name labels the Tree's metrics.
		Name string

		// PoolSize bounds the goroutines used by [Tree.Forest].
		PoolSize int

		Debug bool

		// Replace enables update semantics for re-inserted identifiers.
		Replace bool
	}

	// Option defines the [Tree] functional option type.
	Option func(*Config)
)

const (
	// DefaultName is the metrics label of a Tree lacking a name.
	DefaultName = "default"

	// DefaultPoolSize is the default [Config.PoolSize].
	DefaultPoolSize = 8

	unbounded = math.MaxInt
)

// Errors encountered when adding to a [Tree].
var (
	ErrSelfParent    = errors.New("is its own parent")
	ErrMissingParent = errors.New("not found")
	ErrCycleDetected = errors.New("forms a cycle")
	ErrDuplicateID   = errors.New("already exists")
)

// DefConfig obtains the package's [Tree] default configuration.
func DefConfig() *Config {
	return &Config{
		Logger:   logrus.New(),
		Name:     DefaultName,
		PoolSize: DefaultPoolSize,
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.PoolSize < 1 {
		c.PoolSize = DefaultPoolSize
	}
}

// WithConfig replaces the [Tree]'s Config with a copy of cfg.
func WithConfig(cfg *Config) Option {
	return func(c *Config) { *c = *cfg }
}

// WithLogger configures the [Tree]'s logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithDebug toggles debug output.
func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

// WithName configures the [Tree]'s metrics label.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithPoolSize configures the goroutine bound of [Tree.Forest].
func WithPoolSize(size int) Option {
	return func(c *Config) { c.PoolSize = size }
}

// WithReplace allows re-inserting an existing identifier.
//
// The stored node is overwritten & relinked under its new parent; a node keeps its sibling
// position when its parent is unchanged.
func WithReplace() Option {
	return func(c *Config) { c.Replace = true }
}

// New instantiates an empty [Tree].
func New[K constraints.Integer, V any](options ...Option) *Tree[K, V] {
	cfg := DefConfig()
	for _, opt := range options {
		opt(cfg)
	}
	cfg.Validate()

	return &Tree[K, V]{
		cfg:      cfg,
		nodes:    make(map[K]Node[K, V]),
		children: make(map[K][]K),
	}
}

// Config retrieves the [Tree]'s Config.
func (t *Tree[K, V]) Config() *Config { return t.cfg }

// Add validates & stores a [Node].
//
// The parent has to be present; records are expected in topological order. The Tree is left
// unmodified on error.
func (t *Tree[K, V]) Add(n Node[K, V]) (err error) {
	defer func() {
		if err == nil {
			return
		}

		metrics.InsertionsRejected.WithLabelValues(t.cfg.Name, rejectReason(err)).Inc()
		if t.cfg.Debug {
			t.cfg.Logger.WithFields(logrus.Fields{
				"id":     n.ID,
				"parent": parentField(n),
			}).Debugf("rejected node: %v", err)
		}
	}()

	if parent, ok := n.Parent(); ok && parent == n.ID {
		return fmt.Errorf("(%v) %w", n.ID, ErrSelfParent)
	}

	old, exists := t.nodes[n.ID]
	if exists && !t.cfg.Replace {
		return fmt.Errorf("(%v) %w", n.ID, ErrDuplicateID)
	}

	chain, err := t.chainLength(n.ID, n.ParentID)
	if err != nil {
		return
	}

	n = n.detach()
	t.nodes[n.ID] = n

	if exists {
		t.relink(old, n)

		// The node's subtree moved along with it.
		chain += t.height(n.ID)
	} else {
		t.link(n)
	}

	if chain > t.depth {
		t.depth = chain
		metrics.MaxDepth.WithLabelValues(t.cfg.Name).Set(float64(chain))
	}
	metrics.NodesAdded.WithLabelValues(t.cfg.Name).Inc()

	return
}

// AddAll adds nodes in order, stopping at the first failure.
func (t *Tree[K, V]) AddAll(nodes ...Node[K, V]) (err error) {
	for index := range nodes {
		if err = t.Add(nodes[index]); err != nil {
			return fmt.Errorf("node %d: %w", index, err)
		}
	}

	return
}

// chainLength counts the nodes from id up to its root, walking the claimed ancestors.
func (t *Tree[K, V]) chainLength(id K, parentID *K) (length int, err error) {
	length = 1
	for parent := parentID; parent != nil; {
		ancestor, ok := t.nodes[*parent]
		if !ok {
			return 0, fmt.Errorf("(%v) parent (%v) %w", id, *parent, ErrMissingParent)
		}
		if ancestor.ID == id {
			return 0, fmt.Errorf("(%v) %w with parent (%v)", id, ErrCycleDetected, *parentID)
		}

		length++
		parent = ancestor.ParentID
	}

	return
}

// link appends a new node to its parent's children or to the roots.
func (t *Tree[K, V]) link(n Node[K, V]) {
	parent, ok := n.Parent()
	if !ok {
		t.roots = append(t.roots, n.ID)
		return
	}

	t.children[parent] = append(t.children[parent], n.ID)
}

// unlink removes a node from its parent's children or from the roots.
func (t *Tree[K, V]) unlink(n Node[K, V]) {
	parent, ok := n.Parent()
	if !ok {
		if index := slices.Index(t.roots, n.ID); index > -1 {
			t.roots = slices.Delete(t.roots, index, index+1)
		}
		return
	}

	peers := t.children[parent]
	index := slices.Index(peers, n.ID)
	if index < 0 {
		return
	}

	if peers = slices.Delete(peers, index, index+1); len(peers) < 1 {
		delete(t.children, parent)
		return
	}
	t.children[parent] = peers
}

// relink moves a replaced node when its parent changed.
func (t *Tree[K, V]) relink(old, n Node[K, V]) {
	oldParent, oldOK := old.Parent()
	newParent, newOK := n.Parent()
	if oldOK == newOK && oldParent == newParent {
		return
	}

	t.unlink(old)
	t.link(n)
}

// height counts the levels below id.
func (t *Tree[K, V]) height(id K) (levels int) {
	for level := t.children[id]; len(level) > 0; levels++ {
		var next []K
		for _, child := range level {
			next = append(next, t.children[child]...)
		}
		level = next
	}

	return
}

// Clear empties the [Tree].
func (t *Tree[K, V]) Clear() {
	t.nodes = make(map[K]Node[K, V])
	t.children = make(map[K][]K)
	t.roots = nil
	t.depth = 0

	metrics.Clears.WithLabelValues(t.cfg.Name).Inc()
	metrics.MaxDepth.WithLabelValues(t.cfg.Name).Set(0)
}

// Depth retrieves the highest chain length observed across insertions, the root counted as 1.
func (t *Tree[K, V]) Depth() int { return t.depth }

// NodeDepth counts the nodes from id up to its root; 0 for an absent id.
func (t *Tree[K, V]) NodeDepth(id K) (depth int) {
	for current := &id; current != nil; depth++ {
		node, ok := t.nodes[*current]
		if !ok {
			break
		}
		current = node.ParentID
	}

	return
}

// NodeGet retrieves a stored [Node].
func (t *Tree[K, V]) NodeGet(id K) (n Node[K, V], ok bool) {
	n, ok = t.nodes[id]
	return
}

// Len retrieves the number of stored nodes.
func (t *Tree[K, V]) Len() int { return len(t.nodes) }

// Roots lists the parentless nodes' identifiers in insertion order.
func (t *Tree[K, V]) Roots() []K { return slices.Clone(t.roots) }

// Children lists the identifiers of id's direct children in insertion order.
func (t *Tree[K, V]) Children(id K) []K { return slices.Clone(t.children[id]) }

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrSelfParent):
		return metrics.ReasonSelfParent
	case errors.Is(err, ErrMissingParent):
		return metrics.ReasonMissingParent
	case errors.Is(err, ErrCycleDetected):
		return metrics.ReasonCycle
	case errors.Is(err, ErrDuplicateID):
		return metrics.ReasonDuplicateID
	default:
		return metrics.ReasonOther
	}
}

func parentField[K constraints.Integer, V any](n Node[K, V]) interface{} {
	if parent, ok := n.Parent(); ok {
		return parent
	}

	return nil
}
