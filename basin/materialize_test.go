package basin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgscsystems/nlinkbasin/basin"
	"github.com/cgscsystems/nlinkbasin/cycles"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// fixtureLinks builds a Snapshot from an ordered adjacency map keyed by
// page_id, assigning dense NodeIds in ascending page_id order.
func fixtureLinks(t *testing.T, links map[int64][]int64, numNodes int64) *graph.Snapshot {
	t.Helper()
	b := graph.NewBuilder(int(numNodes), 0)
	for pid := int64(0); pid < numNodes; pid++ {
		b.AddNode(pid)
	}
	for pid := int64(0); pid < numNodes; pid++ {
		from, _ := b.NodeByPageID(pid)
		for range links[pid] {
			b.CountLink(from)
		}
	}
	b.Finalize()
	for pid := int64(0); pid < numNodes; pid++ {
		from, _ := b.NodeByPageID(pid)
		for _, target := range links[pid] {
			tid, ok := b.NodeByPageID(target)
			require.True(t, ok)
			b.PlaceLink(from, tid)
		}
	}
	return b.Build()
}

// Five-node fixture: at N=1, succ = {0->1, 1->0, 2->3, 3->3,
// 4->0}, giving cycles {0,1} (ID 0) and {3} (ID 3), with basin(0) = {0,1,4}
// and basin(3) = {2,3}.
var basinFixtureLinks = map[int64][]int64{
	0: {1, 2},
	1: {0, 3},
	2: {3},
	3: {3, 4},
	4: {0},
}

func TestMaterialize_BasinZero(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	result, err := basin.Materialize(succ, class, 0, basin.WithParentPointers(true))
	require.NoError(t, err)

	assert.Equal(t, graph.NodeId(0), result.CycleID)
	assert.Equal(t, 3, result.Size())
	assert.False(t, result.Truncated)
	assert.Equal(t, []int{2, 1}, result.Layers) // depth 0: {0,1}; depth 1: {4}

	var got []graph.NodeId
	for _, m := range result.Members {
		got = append(got, m.Node)
	}
	assert.ElementsMatch(t, []graph.NodeId{0, 1, 4}, got)

	for _, m := range result.Members {
		if m.Node == 4 {
			require.True(t, m.HasParent)
			assert.Equal(t, graph.NodeId(0), m.Parent)
		} else {
			assert.False(t, m.HasParent, "cycle members carry no parent")
		}
	}
}

func TestMaterialize_BasinThree(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	result, err := basin.Materialize(succ, class, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Size())
	assert.Equal(t, []int{1, 1}, result.Layers) // depth 0: {3}; depth 1: {2}
}

func TestMaterialize_UnknownCycle(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	_, err = basin.Materialize(succ, class, 999)
	assert.ErrorIs(t, err, basin.ErrCycleNotFound)
}

func TestMaterialize_MemberBudgetTruncates(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	result, err := basin.Materialize(succ, class, 0, basin.WithMemberBudget(2))
	require.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.Error(t, result.Warning)
	assert.LessOrEqual(t, result.Size(), 2)
}

func TestMaterialize_NegativeBudgetIsOptionViolation(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	_, err = basin.Materialize(succ, class, 0, basin.WithMemberBudget(-1))
	assert.ErrorIs(t, err, basin.ErrOptionViolation)
}

// TestMaterialize_MillionNodeStar checks the frontier walk at scale: one
// million nodes all pointing at a self-looping hub resolve to a single
// two-layer basin.
func TestMaterialize_MillionNodeStar(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1M-node star in -short mode")
	}
	const v = 1_000_000
	b := graph.NewBuilder(v, v)
	for pid := int64(0); pid < v; pid++ {
		b.AddNode(pid)
	}
	for id := 0; id < v; id++ {
		b.CountLink(graph.NodeId(id))
	}
	b.Finalize()
	for id := 0; id < v; id++ {
		b.PlaceLink(graph.NodeId(id), 0)
	}
	g := b.Build()

	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)
	require.Len(t, class.Cycles(), 1)

	result, err := basin.Materialize(succ, class, 0)
	require.NoError(t, err)
	assert.Equal(t, v, result.Size())
	assert.Equal(t, []int{1, v - 1}, result.Layers)
}

// TestMaterialize_LayerCountsSumToSize checks the basin-size identity
// across worker counts: the same basin, expanded with 1 and 8 workers,
// yields identical layer counts summing to the member total.
func TestMaterialize_LayerCountsSumToSize(t *testing.T) {
	g := fixtureLinks(t, basinFixtureLinks, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)
	class := cycles.Find(succ)

	var layers [][]int
	for _, workers := range []int{1, 8} {
		result, err := basin.Materialize(succ, class, 0, basin.WithMaxWorkers(workers))
		require.NoError(t, err)
		total := 0
		for _, c := range result.Layers {
			total += c
		}
		assert.Equal(t, result.Size(), total)
		layers = append(layers, result.Layers)
	}
	assert.Equal(t, layers[0], layers[1], "layer counts must not depend on worker count")
}
