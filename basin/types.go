package basin

import "github.com/cgscsystems/nlinkbasin/graph"

// Member is one node in a materialized basin.
type Member struct {
	Node  graph.NodeId
	Depth int

	// Parent is the node this one steps to under f_N (its reverse-BFS
	// parent), valid only when Materialize was called WithParentPointers.
	// Cycle members (Depth == 0) have no parent within the basin walk.
	Parent    graph.NodeId
	HasParent bool
}

// Result is the materialized basin of attraction for one cycle: every
// discovered member, stratified by depth, plus summary counts.
type Result struct {
	CycleID graph.NodeId

	// Members lists every discovered node. Order is level-by-level
	// (depth ascending), and ascending by NodeId within a level: each
	// level is sorted after its concurrent expansion, so the order does
	// not depend on the worker count.
	Members []Member

	// Layers[d] is the number of members at depth d; Layers[0] is the
	// cycle's own size.
	Layers []int

	// Truncated is true if a configured member budget cut the walk short
	// before the basin was fully explored. Warning explains why.
	Truncated bool
	Warning   error
}

// Size reports the total number of members discovered (len(Members)).
func (r *Result) Size() int {
	return len(r.Members)
}
