package rule

import (
	"fmt"

	"github.com/cgscsystems/nlinkbasin/graph"
)

// Successors holds the flat array succ[V] derived for one fixed N: the
// N-link rule's successor function f_N, total over V -> V ∪ {HALT}.
type Successors struct {
	n    int
	succ []graph.NodeId
	halt graph.NodeId
}

// N reports the rule parameter this table was computed for.
func (s *Successors) N() int {
	return s.n
}

// At returns f_N(v): either a NodeId or the HALT sentinel (Successors.Halt()).
// Complexity: O(1).
func (s *Successors) At(v graph.NodeId) graph.NodeId {
	return s.succ[v]
}

// IsHalt reports whether f_N(v) is the HALT sentinel.
func (s *Successors) IsHalt(v graph.NodeId) bool {
	return s.succ[v] == s.halt
}

// Halt returns the sentinel value used for nodes with out-degree < N.
func (s *Successors) Halt() graph.NodeId {
	return s.halt
}

// Len reports V, the number of nodes the table covers.
func (s *Successors) Len() int {
	return len(s.succ)
}

// Compute derives f_N for the given snapshot: a single pass over the CSR
// offsets, indexing position N-1 of each node's ordered outlink slice when
// it exists, else HALT.
//
// Complexity: O(V) time, O(V) space for the returned table.
func Compute(g *graph.Snapshot, n int) (*Successors, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidN, n)
	}

	v := g.NumNodes()
	halt := g.Halt()
	succ := make([]graph.NodeId, v)
	for id := 0; id < v; id++ {
		node := graph.NodeId(id)
		if target, ok := g.NthLink(node, n); ok {
			succ[id] = target
		} else {
			succ[id] = halt
		}
	}

	return &Successors{n: n, succ: succ, halt: halt}, nil
}
