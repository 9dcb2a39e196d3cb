package cycles_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// TestFind_AllHalt: at N=2 over the five-node
// fixture, every node is HALT-terminating (succ = {0->2, 1->3, 2->HALT,
// 3->4, 4->HALT}), so Find must discover zero cycles and mark every node
// depth InfiniteDepth.
func TestFind_AllHalt(t *testing.T) {
	links := map[int64][]int64{
		0: {1, 2},
		1: {0, 3},
		2: {3},
		3: {3, 4},
		4: {0},
	}
	g := fixtureLinks(t, links, 5)
	succ, err := rule.Compute(g, 2)
	require.NoError(t, err)

	c := cycles.Find(succ)
	assert.Empty(t, c.Cycles())
	for id := 0; id < 5; id++ {
		v := graph.NodeId(id)
		assert.True(t, c.IsHalt(v), "node %d", id)
		assert.Equal(t, cycles.InfiniteDepth, c.Depth(v), "node %d", id)
		_, ok := c.TerminalCycle(v)
		assert.False(t, ok, "node %d", id)
	}
}

// TestFind_TwoCyclesWithApproachDepths: at
// N=1 over the same V=5 fixture, succ = {0->1, 1->0, 2->3, 3->3, 4->0}.
// This produces two cycles — {0,1} (ID 0) and {3} (ID 3, a self-loop) —
// with 2 and 4 approaching them at depth 1.
func TestFind_TwoCyclesWithApproachDepths(t *testing.T) {
	links := map[int64][]int64{
		0: {1, 2},
		1: {0, 3},
		2: {3},
		3: {3, 4},
		4: {0},
	}
	g := fixtureLinks(t, links, 5)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)

	c := cycles.Find(succ)
	require.Len(t, c.Cycles(), 2)

	cycleZero, ok := c.CycleByID(0)
	require.True(t, ok)
	assert.ElementsMatch(t, []graph.NodeId{0, 1}, cycleZero.Members)
	assert.Equal(t, 2, cycleZero.Len())

	cycleThree, ok := c.CycleByID(3)
	require.True(t, ok)
	assert.Equal(t, []graph.NodeId{3}, cycleThree.Members)

	for _, v := range []graph.NodeId{0, 1} {
		assert.Equal(t, 0, c.Depth(v))
		id, ok := c.TerminalCycle(v)
		require.True(t, ok)
		assert.Equal(t, graph.NodeId(0), id)
	}

	assert.Equal(t, 0, c.Depth(3))

	// 2 -> 3, one step from the self-loop cycle already at depth 0.
	depth2 := c.Depth(2)
	assert.Equal(t, 1, depth2)
	id2, ok := c.TerminalCycle(2)
	require.True(t, ok)
	assert.Equal(t, graph.NodeId(3), id2)

	// 4 -> 0, one step from the {0,1} cycle.
	depth4 := c.Depth(4)
	assert.Equal(t, 1, depth4)
	id4, ok := c.TerminalCycle(4)
	require.True(t, ok)
	assert.Equal(t, graph.NodeId(0), id4)
}

// TestFind_ThreeNodeCycle covers a single length-3 cycle (0->1->2->0) at
// N=1: every member must land at depth 0 with the same CycleId, the
// minimum member NodeId.
func TestFind_ThreeNodeCycle(t *testing.T) {
	links := map[int64][]int64{
		0: {1},
		1: {2},
		2: {0},
	}
	g := fixtureLinks(t, links, 3)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)

	c := cycles.Find(succ)
	require.Len(t, c.Cycles(), 1)
	assert.Equal(t, graph.NodeId(0), c.Cycles()[0].ID)
	assert.ElementsMatch(t, []graph.NodeId{0, 1, 2}, c.Cycles()[0].Members)
	for id := 0; id < 3; id++ {
		assert.Equal(t, 0, c.Depth(graph.NodeId(id)), "node %d", id)
	}
}

// TestFind_SelfLoop covers a fixed point under f_1: a node whose only link
// points to itself is a length-1 cycle.
func TestFind_SelfLoop(t *testing.T) {
	links := map[int64][]int64{0: {0}}
	g := fixtureLinks(t, links, 1)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)

	c := cycles.Find(succ)
	require.Len(t, c.Cycles(), 1)
	assert.Equal(t, []graph.NodeId{0}, c.Cycles()[0].Members)
	assert.Equal(t, 0, c.Depth(0))
}

// TestFind_ClassifiesByFunctionalGraphNotPathLength builds a graph whose
// first links form a length-3 cycle (0->1->2->0) while each node's third
// link slot points back at itself. At N=1 the functional graph is one
// 3-cycle; at N=3 it is three independent self-loops. Find must classify
// by f_N's own structure, never by the underlying path length in the
// source graph matching the rule parameter.
func TestFind_ClassifiesByFunctionalGraphNotPathLength(t *testing.T) {
	links := map[int64][]int64{
		0: {1, 1, 0},
		1: {2, 2, 1},
		2: {0, 0, 2},
	}
	g := fixtureLinks(t, links, 3)
	succ, err := rule.Compute(g, 3)
	require.NoError(t, err)

	for id := 0; id < 3; id++ {
		assert.Equal(t, graph.NodeId(id), succ.At(graph.NodeId(id)), "node %d", id)
	}

	c := cycles.Find(succ)
	require.Len(t, c.Cycles(), 3)
	for id := 0; id < 3; id++ {
		v := graph.NodeId(id)
		cid, ok := c.TerminalCycle(v)
		require.True(t, ok)
		assert.Equal(t, v, cid)
		assert.Equal(t, 0, c.Depth(v))
	}
}

// TestFind_MutualTwoNodeOrbit covers a plain 2-cycle (0->1->0) at N=1.
func TestFind_MutualTwoNodeOrbit(t *testing.T) {
	links := map[int64][]int64{
		0: {1},
		1: {0},
	}
	g := fixtureLinks(t, links, 2)
	succ, err := rule.Compute(g, 1)
	require.NoError(t, err)

	c := cycles.Find(succ)
	require.Len(t, c.Cycles(), 1)
	assert.Equal(t, graph.NodeId(0), c.Cycles()[0].ID)
	assert.ElementsMatch(t, []graph.NodeId{0, 1}, c.Cycles()[0].Members)
}

// TestFind_RandomGraphInvariants checks the classification laws over a
// pseudo-random graph at several N: cycle ids are the minimum member,
// cycle members sit at depth 0, and every non-cycle resolver steps one
// depth closer to its terminal per f_N hop.
func TestFind_RandomGraphInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const v = 5000
	links := make(map[int64][]int64, v)
	for pid := int64(0); pid < v; pid++ {
		deg := rng.Intn(4)
		for k := 0; k < deg; k++ {
			links[pid] = append(links[pid], rng.Int63n(v))
		}
	}
	g := fixtureLinks(t, links, v)

	for _, n := range []int{1, 2, 3} {
		succ, err := rule.Compute(g, n)
		require.NoError(t, err)
		c := cycles.Find(succ)

		inCycle := make(map[graph.NodeId]bool)
		for _, cyc := range c.Cycles() {
			minMember := cyc.Members[0]
			for _, m := range cyc.Members {
				if m < minMember {
					minMember = m
				}
				require.False(t, inCycle[m], "n=%d: node %d in two cycles", n, m)
				inCycle[m] = true
				assert.Equal(t, 0, c.Depth(m), "n=%d", n)
			}
			assert.Equal(t, minMember, cyc.ID, "n=%d", n)
		}

		for id := 0; id < v; id++ {
			node := graph.NodeId(id)
			if c.IsHalt(node) {
				assert.Equal(t, cycles.InfiniteDepth, c.Depth(node))
				continue
			}
			term, ok := c.TerminalCycle(node)
			require.True(t, ok)
			if c.Depth(node) == 0 {
				assert.True(t, inCycle[node], "n=%d: depth-0 node %d not in any cycle", n, id)
				continue
			}
			next := succ.At(node)
			nextTerm, ok := c.TerminalCycle(next)
			require.True(t, ok, "n=%d: resolver %d steps to unresolved node", n, id)
			assert.Equal(t, term, nextTerm, "n=%d", n)
			assert.Equal(t, c.Depth(node)-1, c.Depth(next), "n=%d", n)
		}
	}
}
