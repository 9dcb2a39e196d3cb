package multiplex

import "github.com/cgscsystems/nlinkbasin/graph"

// TerminalKind distinguishes a multiplex row that resolves to a cycle from
// one that is HALT-terminating.
type TerminalKind uint8

const (
	TerminalCycle TerminalKind = iota
	TerminalHalt
)

func (k TerminalKind) String() string {
	if k == TerminalHalt {
		return "halt"
	}
	return "cycle"
}

// Assignment is one row of the long multiplex table: a single
// (page, N) -> (cycle, depth) fact.
type Assignment struct {
	Node    graph.NodeId
	N       int
	CycleID graph.NodeId // valid only when Kind == TerminalCycle
	Depth   int32        // valid only when Kind == TerminalCycle
	Kind    TerminalKind
}

// TunnelType classifies why a tunnel node's cycle assignment changes
// across N.
type TunnelType uint8

const (
	// TunnelProgressive means the assignment changes at most once as N
	// ascends through N_set.
	TunnelProgressive TunnelType = iota
	// TunnelAlternating means the assignment flips more than once.
	TunnelAlternating
)

func (t TunnelType) String() string {
	if t == TunnelAlternating {
		return "alternating"
	}
	return "progressive"
}

// TunnelMechanism further classifies a single transition within a tunnel
// node's N-ordered assignment sequence.
type TunnelMechanism uint8

const (
	// SameCycleMembership means the node lands on a cycle identity it
	// already resolved to at some N <= the prior N in its own assignment
	// history.
	SameCycleMembership TunnelMechanism = iota
	// StructuralReattachment means the node lands on HALT, or on a cycle
	// identity that does not appear in its own assignment history at any
	// N <= the prior N.
	StructuralReattachment
)

func (m TunnelMechanism) String() string {
	if m == StructuralReattachment {
		return "structural-reattachment"
	}
	return "same-cycle-membership"
}

// Tunnel is one row of the tunnel_nodes artifact: a page whose cycle_id
// assignment is not constant across N_set.
type Tunnel struct {
	Node            graph.NodeId
	NDistinctCycles int
	Transitions     int
	Score           float64
	Type            TunnelType
}

// Transition is one step of a node's N-ordered assignment change (for any
// node, tunnel or not, including cycle<->HALT flips), feeding both the
// tunnel transition count above and the basin-flow edge list.
type Transition struct {
	Node       graph.NodeId
	NFrom, NTo int
	FromCycle  graph.NodeId
	FromHalt   bool
	ToCycle    graph.NodeId
	ToHalt     bool
	Mechanism  TunnelMechanism
}

// FlowEdge aggregates Transitions into the (N1,cycle)->(N2,cycle) edge list
// a Sankey-style flow view is drawn from.
type FlowEdge struct {
	NFrom, NTo         int
	FromCycle, ToCycle graph.NodeId
	FromHalt, ToHalt   bool
	Count              int64
}

// LayerCell is one (N_src, N_dst) entry of the layer connectivity matrix.
type LayerCell struct {
	NSrc, NDst     int
	SameCycleCount int64
	DiffCycleCount int64
}

// Result is the full multiplex build for a configured N_set.
type Result struct {
	NSet        []int
	Assignments []Assignment // sorted by Node, then N ascending
	Tunnels     []Tunnel     // sorted by Score descending, ties by NodeId
	Transitions []Transition
	FlowEdges   []FlowEdge
	Layer       []LayerCell // len(NSet)^2, row-major over NSet order
}
