// SPDX-License-Identifier: MIT
package idtree

type (
	// QueryOption defines the functional option type for read operations.
	QueryOption func(*query)

	// query bounds the depths a read operation reports; depth 0 is the starting node.
	query struct {
		startDepth int
		stopDepth  int
	}
)

// StartDepth suppresses results shallower than depth; descent still passes through them.
//
// Has no effect on [Tree.Get].
func StartDepth(depth int) QueryOption {
	return func(q *query) { q.startDepth = depth }
}

// StopDepth omits results deeper than depth.
//
// A negative depth yields no results.
func StopDepth(depth int) QueryOption {
	return func(q *query) { q.stopDepth = depth }
}

func newQuery(options []QueryOption) *query {
	q := &query{stopDepth: unbounded}
	for _, opt := range options {
		opt(q)
	}

	return q
}

// reports whether a result at depth is within bounds.
func (q *query) reports(depth int) bool { return q.startDepth <= depth && depth <= q.stopDepth }
