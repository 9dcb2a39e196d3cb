package basin

import (
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// reverseGraph is the predecessor adjacency of one rule.Successors table:
// for each node u, predecessors(u) lists every v with succ.At(v) == u.
// Basin membership only covers nodes resolving to a cycle, so edges into
// HALT are never counted.
//
// Built in the same count-then-scatter shape as graph.Builder: one pass to
// count in-degree, a prefix sum for offsets, one pass to scatter sources
// into their reserved row — a transpose driven by succ[V] instead of a
// CSR's target list.
type reverseGraph struct {
	offsets []uint64
	sources []graph.NodeId
}

func buildReverseGraph(succ *rule.Successors) *reverseGraph {
	v := succ.Len()
	halt := succ.Halt()

	inDegree := make([]uint64, v)
	for i := 0; i < v; i++ {
		node := graph.NodeId(i)
		if t := succ.At(node); t != halt {
			inDegree[t]++
		}
	}

	offsets := make([]uint64, v+1)
	for i := 0; i < v; i++ {
		offsets[i+1] = offsets[i] + inDegree[i]
	}

	cursor := append([]uint64(nil), offsets[:v]...)
	sources := make([]graph.NodeId, offsets[v])
	for i := 0; i < v; i++ {
		node := graph.NodeId(i)
		if t := succ.At(node); t != halt {
			pos := cursor[t]
			sources[pos] = node
			cursor[t] = pos + 1
		}
	}

	return &reverseGraph{offsets: offsets, sources: sources}
}

// predecessors returns every node whose f_N step lands on u.
func (r *reverseGraph) predecessors(u graph.NodeId) []graph.NodeId {
	return r.sources[r.offsets[u]:r.offsets[u+1]]
}
