package cycles

import "github.com/cgscsystems/nlinkbasin/graph"

// Cycle is a maximal closed orbit under f_N.
type Cycle struct {
	// ID is the minimum NodeId among Members.
	ID graph.NodeId
	// Members lists the cycle's nodes in traversal (orbit) order.
	Members []graph.NodeId
}

// Len reports the cycle's length.
func (c Cycle) Len() int {
	return len(c.Members)
}

// InfiniteDepth is the sentinel Depth value for HALT-terminating nodes,
// whose trajectory never reaches a cycle.
const InfiniteDepth = -1

// Classification is the result of classifying every node of one f_N: for
// each node, its terminal (a CycleId or HALT) and its depth (steps to the
// first cycle member it reaches, or InfiniteDepth).
type Classification struct {
	halt     graph.NodeId
	terminal []graph.NodeId
	depth    []int32
	cycles   []Cycle
	byID     map[graph.NodeId]int
}

// NumNodes reports V, the number of nodes classified.
func (c *Classification) NumNodes() int {
	return len(c.terminal)
}

// IsHalt reports whether v is HALT-terminating under f_N.
func (c *Classification) IsHalt(v graph.NodeId) bool {
	return c.terminal[v] == c.halt
}

// TerminalCycle returns the CycleId that v's trajectory resolves to, and
// true, or the zero value and false if v is HALT-terminating.
func (c *Classification) TerminalCycle(v graph.NodeId) (graph.NodeId, bool) {
	t := c.terminal[v]
	if t == c.halt {
		return 0, false
	}
	return t, true
}

// Depth returns the number of f_N steps from v to the first cycle member it
// reaches: 0 for cycle members, InfiniteDepth for HALT-terminating nodes.
func (c *Classification) Depth(v graph.NodeId) int {
	return int(c.depth[v])
}

// Cycles returns every discovered cycle, sorted ascending by CycleId —
// a total order independent of discovery order.
func (c *Classification) Cycles() []Cycle {
	return c.cycles
}

// CycleByID looks up a cycle by its identifier.
func (c *Classification) CycleByID(id graph.NodeId) (Cycle, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Cycle{}, false
	}
	return c.cycles[idx], true
}
