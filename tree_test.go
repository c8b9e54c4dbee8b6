// SPDX-License-Identifier: MIT
package idtree

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fisherprime/idtree/internal/metrics"
)

// sampleTree holds 1 -> {2 -> {4}, 3}.
func sampleTree(t *testing.T, options ...Option) *Tree[int, string] {
	t.Helper()

	tree := New[int, string](options...)
	require.NoError(t, tree.AddAll(
		NewRoot(1, "a"),
		NewChild(2, 1, "b"),
		NewChild(3, 1, "c"),
		NewChild(4, 2, "d"),
	))

	return tree
}

func TestTree_Add(t *testing.T) {
	tests := []struct {
		name    string
		node    Node[int, string]
		wantErr error
	}{
		{name: "valid root", node: NewRoot(5, "e")},
		{name: "valid child", node: NewChild(5, 4, "e")},
		{name: "self parent", node: NewChild(5, 5, "e"), wantErr: ErrSelfParent},
		{name: "missing parent", node: NewChild(5, 9, "e"), wantErr: ErrMissingParent},
		{name: "duplicate root", node: NewRoot(1, "z"), wantErr: ErrDuplicateID},
		{name: "duplicate child", node: NewChild(4, 3, "z"), wantErr: ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree(t)

			err := tree.Add(tt.node)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				// Validation precedes mutation.
				assert.Equal(t, 4, tree.Len())
				assert.Equal(t, 3, tree.Depth())
				assert.Equal(t, []int{1}, tree.Roots())
				assert.Equal(t, []int{2, 3}, tree.Children(1))
				assert.Equal(t, []int{4}, tree.Children(2))
				return
			}

			require.NoError(t, err)
			got, ok := tree.NodeGet(tt.node.ID)
			require.True(t, ok)
			assert.Equal(t, tt.node, got)
		})
	}
}

func TestTree_AddTopological(t *testing.T) {
	tree := New[int, string]()

	require.ErrorIs(t, tree.Add(NewChild(2, 1, "b")), ErrMissingParent)
	require.NoError(t, tree.Add(NewRoot(1, "a")))
	require.NoError(t, tree.Add(NewChild(2, 1, "b")))

	assert.Equal(t, []int{2}, tree.Children(1))
}

func TestTree_AddAll(t *testing.T) {
	tree := New[int, string]()

	err := tree.AddAll(NewRoot(1, "a"), NewChild(2, 1, "b"), NewChild(3, 7, "c"), NewChild(4, 1, "d"))
	require.ErrorIs(t, err, ErrMissingParent)
	assert.Contains(t, err.Error(), "node 2")

	// Nodes preceding the failure remain.
	assert.Equal(t, 2, tree.Len())
	_, ok := tree.NodeGet(4)
	assert.False(t, ok)
}

func TestTree_AddDetachesParent(t *testing.T) {
	tree := New[int, string]()
	require.NoError(t, tree.Add(NewRoot(1, "a")))
	require.NoError(t, tree.Add(NewRoot(2, "b")))

	parent := 1
	require.NoError(t, tree.Add(Node[int, string]{ID: 3, ParentID: &parent, Value: "c"}))
	parent = 2

	got, _ := tree.NodeGet(3)
	gotParent, ok := got.Parent()
	require.True(t, ok)
	assert.Equal(t, 1, gotParent)
}

func TestTree_Depth(t *testing.T) {
	tree := New[uint16, struct{}]()
	require.NoError(t, tree.AddAll(
		NewRoot[uint16](10, struct{}{}),
		NewChild[uint16](11, 10, struct{}{}),
		NewChild[uint16](12, 11, struct{}{}),
		NewChild[uint16](13, 12, struct{}{}),
	))

	assert.Equal(t, 4, tree.Depth())
	assert.Equal(t, 4, tree.NodeDepth(13))
	assert.Equal(t, 1, tree.NodeDepth(10))

	sample := sampleTree(t)
	assert.Equal(t, 3, sample.Depth())

	tests := []struct {
		id        int
		wantDepth int
	}{
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{999, 0},
	}
	for _, tt := range tests {
		if got := sample.NodeDepth(tt.id); got != tt.wantDepth {
			t.Errorf("Tree.NodeDepth(%d) = %d, want %d", tt.id, got, tt.wantDepth)
		}
	}
}

func TestTree_NodeGet(t *testing.T) {
	tree := sampleTree(t)

	want := []Node[int, string]{
		NewRoot(1, "a"),
		NewChild(2, 1, "b"),
		NewChild(3, 1, "c"),
		NewChild(4, 2, "d"),
	}
	for _, n := range want {
		got, ok := tree.NodeGet(n.ID)
		require.True(t, ok, "node %d", n.ID)
		assert.Equal(t, n, got)
	}

	_, ok := tree.NodeGet(999)
	assert.False(t, ok)
}

func TestTree_Clear(t *testing.T) {
	tree := sampleTree(t)
	tree.Clear()

	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Roots())
	for id := 1; id <= 4; id++ {
		_, ok := tree.NodeGet(id)
		assert.False(t, ok, "node %d", id)
		assert.Empty(t, tree.Children(id))
	}

	// Usable after a reset.
	require.NoError(t, tree.Add(NewRoot(2, "b")))
	assert.Equal(t, 1, tree.Depth())
}

func TestTree_Replace(t *testing.T) {
	t.Run("same parent keeps position", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())
		require.NoError(t, tree.Add(NewChild(2, 1, "B")))

		got, _ := tree.NodeGet(2)
		assert.Equal(t, "B", got.Value)
		assert.Equal(t, []int{2, 3}, tree.Children(1))
		assert.Equal(t, []int{4}, tree.Children(2))
		assert.Equal(t, 4, tree.Len())
	})

	t.Run("new parent relinks", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())
		require.NoError(t, tree.Add(NewChild(3, 4, "c")))

		assert.Equal(t, []int{2}, tree.Children(1))
		assert.Equal(t, []int{3}, tree.Children(4))
		assert.Equal(t, 4, tree.NodeDepth(3))
		assert.Equal(t, 4, tree.Depth())
	})

	t.Run("child to root", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())
		require.NoError(t, tree.Add(NewRoot(2, "b")))

		assert.Equal(t, []int{1, 2}, tree.Roots())
		assert.Equal(t, []int{3}, tree.Children(1))
		assert.Equal(t, []int{4}, tree.Children(2))
		assert.Equal(t, 2, tree.NodeDepth(4))
	})

	t.Run("root to child", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())
		require.NoError(t, tree.AddAll(NewRoot(10, "x"), NewChild(11, 10, "y"), NewChild(12, 11, "z")))
		require.NoError(t, tree.Add(NewChild(10, 4, "x")))

		assert.Equal(t, []int{1}, tree.Roots())
		assert.Equal(t, []int{10}, tree.Children(4))
		assert.Equal(t, 6, tree.NodeDepth(12))

		// The moved subtree raises the high-water mark.
		assert.Equal(t, 6, tree.Depth())
	})

	t.Run("cycle", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())

		require.ErrorIs(t, tree.Add(NewChild(1, 4, "a")), ErrCycleDetected)
		require.ErrorIs(t, tree.Add(NewChild(2, 4, "b")), ErrCycleDetected)

		got, _ := tree.NodeGet(1)
		assert.True(t, got.IsRoot())
		assert.Equal(t, []int{1}, tree.Roots())
		assert.Equal(t, []int{4}, tree.Children(2))
	})

	t.Run("self parent", func(t *testing.T) {
		tree := sampleTree(t, WithReplace())
		require.ErrorIs(t, tree.Add(NewChild(2, 2, "b")), ErrSelfParent)
	})
}

func TestTree_Metrics(t *testing.T) {
	const name = "tree-metrics-test"

	// Collectors are process wide, counters are compared against their prior value.
	added := testutil.ToFloat64(metrics.NodesAdded.WithLabelValues(name))
	clears := testutil.ToFloat64(metrics.Clears.WithLabelValues(name))
	rejected := map[string]float64{}
	for _, reason := range []string{metrics.ReasonSelfParent, metrics.ReasonMissingParent, metrics.ReasonDuplicateID} {
		rejected[reason] = testutil.ToFloat64(metrics.InsertionsRejected.WithLabelValues(name, reason))
	}

	tree := sampleTree(t, WithName(name))

	assert.Equal(t, added+4, testutil.ToFloat64(metrics.NodesAdded.WithLabelValues(name)))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.MaxDepth.WithLabelValues(name)))

	_ = tree.Add(NewChild(9, 9, ""))
	_ = tree.Add(NewChild(9, 8, ""))
	_ = tree.Add(NewRoot(1, ""))
	for reason, prior := range rejected {
		assert.Equal(t, prior+1, testutil.ToFloat64(metrics.InsertionsRejected.WithLabelValues(name, reason)), reason)
	}
	assert.Equal(t, added+4, testutil.ToFloat64(metrics.NodesAdded.WithLabelValues(name)))

	tree.Clear()
	assert.Equal(t, clears+1, testutil.ToFloat64(metrics.Clears.WithLabelValues(name)))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.MaxDepth.WithLabelValues(name)))
}

func TestConfig_Validate(t *testing.T) {
	tree := New[int, int](WithConfig(&Config{}), WithDebug(true))

	cfg := tree.Config()
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, DefaultName, cfg.Name)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Replace)
}
