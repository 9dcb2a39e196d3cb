package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// buildFixture builds a five-node fixture:
// 0 -> [1,2], 1 -> [0,3], 2 -> [3], 3 -> [3,4], 4 -> [0]
func buildFixture(t *testing.T) *graph.Snapshot {
	t.Helper()
	b := graph.NewBuilder(5, 8)
	for pid := int64(0); pid < 5; pid++ {
		b.AddNode(pid)
	}
	links := map[int64][]int64{
		0: {1, 2},
		1: {0, 3},
		2: {3},
		3: {3, 4},
		4: {0},
	}
	for pid := int64(0); pid < 5; pid++ {
		from, _ := b.NodeByPageID(pid)
		for range links[pid] {
			b.CountLink(from)
		}
	}
	b.Finalize()
	for pid := int64(0); pid < 5; pid++ {
		from, _ := b.NodeByPageID(pid)
		for _, target := range links[pid] {
			tid, _ := b.NodeByPageID(target)
			b.PlaceLink(from, tid)
		}
	}
	return b.Build()
}

func TestCompute_RejectsNLessThanOne(t *testing.T) {
	g := buildFixture(t)
	_, err := rule.Compute(g, 0)
	assert.ErrorIs(t, err, rule.ErrInvalidN)
}

// TestCompute_N2: at N=2, succ =
// {0->2, 1->3, 2->HALT, 3->4, 4->HALT}.
func TestCompute_N2(t *testing.T) {
	g := buildFixture(t)
	s, err := rule.Compute(g, 2)
	assert.NoError(t, err)

	assert.Equal(t, graph.NodeId(2), s.At(0))
	assert.Equal(t, graph.NodeId(3), s.At(1))
	assert.True(t, s.IsHalt(2))
	assert.Equal(t, graph.NodeId(4), s.At(3))
	assert.True(t, s.IsHalt(4))
}

// TestCompute_N1: at N=1, succ =
// {0->1, 1->0, 2->3, 3->3, 4->0}.
func TestCompute_N1(t *testing.T) {
	g := buildFixture(t)
	s, err := rule.Compute(g, 1)
	assert.NoError(t, err)

	assert.Equal(t, graph.NodeId(1), s.At(0))
	assert.Equal(t, graph.NodeId(0), s.At(1))
	assert.Equal(t, graph.NodeId(3), s.At(2))
	assert.Equal(t, graph.NodeId(3), s.At(3))
	assert.Equal(t, graph.NodeId(0), s.At(4))
}

func TestCompute_OutDegreeExactlyNMinusOneHalts(t *testing.T) {
	g := buildFixture(t)
	s, err := rule.Compute(g, 3)
	assert.NoError(t, err)
	// node 0 has out-degree 2, so N=3 must HALT.
	assert.True(t, s.IsHalt(0))
}

func TestCompute_OutDegreeExactlyNHasSuccessor(t *testing.T) {
	g := buildFixture(t)
	s, err := rule.Compute(g, 2)
	assert.NoError(t, err)
	// node 0 has out-degree 2, so N=2 must resolve.
	assert.False(t, s.IsHalt(0))
}

// TestCompute_MatchesOutlinkSlot cross-checks succ against the CSR
// directly: wherever out-degree >= N, the successor is the N-th slot of
// the node's outlink list, else HALT.
func TestCompute_MatchesOutlinkSlot(t *testing.T) {
	g := buildFixture(t)
	for n := 1; n <= 3; n++ {
		s, err := rule.Compute(g, n)
		assert.NoError(t, err)
		for id := 0; id < g.NumNodes(); id++ {
			v := graph.NodeId(id)
			out := g.Outlinks(v)
			if len(out) >= n {
				assert.Equal(t, out[n-1], s.At(v), "n=%d node=%d", n, id)
			} else {
				assert.True(t, s.IsHalt(v), "n=%d node=%d", n, id)
			}
		}
	}
}
