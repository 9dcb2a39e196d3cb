package multiplex

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cgscsystems/nlinkbasin/cycles"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// Build runs B+C for every N in nSet, independently and in
// parallel (each N owns its own rule.Successors/cycles.Classification, both
// scoped to the call and released once joined), then reduces the results
// into the multiplex Result: assignments, tunnel nodes, transitions,
// basin-flow edges, and the layer connectivity matrix.
//
// nSet is de-duplicated and sorted ascending before use, so multiplex
// output order never depends on caller input order.
func Build(ctx context.Context, g *graph.Snapshot, nSet []int) (*Result, error) {
	nSet = sortedUnique(nSet)

	perN := make([]*cycles.Classification, len(nSet))
	grp, gctx := errgroup.WithContext(ctx)
	for i, n := range nSet {
		i, n := i, n
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			succ, err := rule.Compute(g, n)
			if err != nil {
				return err
			}
			perN[i] = cycles.Find(succ)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	v := g.NumNodes()
	assignments := make([]Assignment, 0, v*len(nSet))
	for idx, n := range nSet {
		class := perN[idx]
		for node := 0; node < v; node++ {
			nid := graph.NodeId(node)
			a := Assignment{Node: nid, N: n}
			if cid, ok := class.TerminalCycle(nid); ok {
				a.Kind = TerminalCycle
				a.CycleID = cid
				a.Depth = int32(class.Depth(nid))
			} else {
				a.Kind = TerminalHalt
			}
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Node != assignments[j].Node {
			return assignments[i].Node < assignments[j].Node
		}
		return assignments[i].N < assignments[j].N
	})

	byNode := groupByNode(assignments, v, len(nSet))
	transitions := buildTransitions(byNode, nSet)
	tunnels := buildTunnels(byNode, transitions)
	flow := buildFlowEdges(transitions)
	layer := buildLayerMatrix(byNode, nSet)

	return &Result{
		NSet:        nSet,
		Assignments: assignments,
		Tunnels:     tunnels,
		Transitions: transitions,
		FlowEdges:   flow,
		Layer:       layer,
	}, nil
}

// groupByNode reslices the sorted assignment table into one contiguous,
// N-ascending run per node, using the fact that Build already sorted by
// (Node, N).
func groupByNode(assignments []Assignment, v, nCount int) [][]Assignment {
	byNode := make([][]Assignment, v)
	for i := 0; i < v; i++ {
		lo := i * nCount
		hi := lo + nCount
		if hi > len(assignments) {
			hi = len(assignments)
		}
		byNode[i] = assignments[lo:hi]
	}
	return byNode
}

// buildTransitions walks each node's N-ascending assignment run and emits
// one Transition per adjacent pair whose cycle identity changes, following
// the nearest-available-N graph: node-local HALT rows are not "an
// assignment change" by themselves relative to the same-N row — only
// consecutive *distinct non-halt* cycle identities, or a halt<->cycle flip,
// count as a transition.
func buildTransitions(byNode [][]Assignment, nSet []int) []Transition {
	var out []Transition
	for _, row := range byNode {
		for i := 1; i < len(row); i++ {
			prev, cur := row[i-1], row[i]
			if sameTerminal(prev, cur) {
				continue
			}
			out = append(out, Transition{
				Node:      prev.Node,
				NFrom:     prev.N,
				NTo:       cur.N,
				FromCycle: prev.CycleID,
				FromHalt:  prev.Kind == TerminalHalt,
				ToCycle:   cur.CycleID,
				ToHalt:    cur.Kind == TerminalHalt,
				Mechanism: classifyMechanism(byNode, prev, cur),
			})
		}
	}
	return out
}

func sameTerminal(a, b Assignment) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == TerminalHalt {
		return true
	}
	return a.CycleID == b.CycleID
}

// classifyMechanism decides whether a transition is explained by landing
// on a cycle identity that was already present in this node's own
// assignment history (same-cycle-membership) or genuinely represents a new
// orbit the node had never resolved to before at this node (structural-
// reattachment). "Already present" is checked against every N <= prev.N in
// this node's run.
func classifyMechanism(byNode [][]Assignment, prev, cur Assignment) TunnelMechanism {
	if cur.Kind == TerminalHalt {
		return StructuralReattachment
	}
	row := byNode[prev.Node]
	for _, a := range row {
		if a.N > prev.N {
			break
		}
		if a.Kind == TerminalCycle && a.CycleID == cur.CycleID {
			return SameCycleMembership
		}
	}
	return StructuralReattachment
}

// buildTunnels groups transitions by node and classifies progressive vs
// alternating, then scores each tunnel as n_distinct_cycles x
// log(1 + n_transitions) x (constant / mean_depth), ties broken by NodeId.
func buildTunnels(byNode [][]Assignment, transitions []Transition) []Tunnel {
	const scoreConstant = 1.0

	transitionsByNode := make(map[graph.NodeId]int)
	for _, t := range transitions {
		transitionsByNode[t.Node]++
	}

	var tunnels []Tunnel
	for _, row := range byNode {
		if len(row) == 0 {
			continue
		}
		distinct := make(map[graph.NodeId]bool)
		var depthSum int64
		var depthCount int64
		for _, a := range row {
			if a.Kind == TerminalCycle {
				distinct[a.CycleID] = true
				depthSum += int64(a.Depth)
				depthCount++
			}
		}
		if len(distinct) < 2 {
			continue
		}
		nTrans := transitionsByNode[row[0].Node]
		meanDepth := 1.0
		if depthCount > 0 {
			meanDepth = float64(depthSum) / float64(depthCount)
			if meanDepth == 0 {
				meanDepth = 1.0
			}
		}
		score := float64(len(distinct)) * math.Log(1+float64(nTrans)) * (scoreConstant / meanDepth)
		tunnels = append(tunnels, Tunnel{
			Node:            row[0].Node,
			NDistinctCycles: len(distinct),
			Transitions:     nTrans,
			Score:           score,
			Type:            tunnelType(nTrans),
		})
	}

	sort.Slice(tunnels, func(i, j int) bool {
		if tunnels[i].Score != tunnels[j].Score {
			return tunnels[i].Score > tunnels[j].Score
		}
		return tunnels[i].Node < tunnels[j].Node
	})
	return tunnels
}

func tunnelType(nTransitions int) TunnelType {
	if nTransitions > 1 {
		return TunnelAlternating
	}
	return TunnelProgressive
}

// buildFlowEdges aggregates individual per-node Transitions into the
// (N1,cycle)->(N2,cycle) edge list a Sankey view is drawn from.
func buildFlowEdges(transitions []Transition) []FlowEdge {
	type key struct {
		nFrom, nTo         int
		fromCycle, toCycle graph.NodeId
		fromHalt, toHalt   bool
	}
	counts := make(map[key]int64)
	for _, t := range transitions {
		k := key{t.NFrom, t.NTo, t.FromCycle, t.ToCycle, t.FromHalt, t.ToHalt}
		counts[k]++
	}
	edges := make([]FlowEdge, 0, len(counts))
	for k, c := range counts {
		edges = append(edges, FlowEdge{
			NFrom: k.nFrom, NTo: k.nTo,
			FromCycle: k.fromCycle, ToCycle: k.toCycle,
			FromHalt: k.fromHalt, ToHalt: k.toHalt,
			Count: c,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].NFrom != edges[j].NFrom {
			return edges[i].NFrom < edges[j].NFrom
		}
		if edges[i].NTo != edges[j].NTo {
			return edges[i].NTo < edges[j].NTo
		}
		if edges[i].FromCycle != edges[j].FromCycle {
			return edges[i].FromCycle < edges[j].FromCycle
		}
		return edges[i].ToCycle < edges[j].ToCycle
	})
	return edges
}

// buildLayerMatrix counts, for every ordered pair (N1,N2) in nSet, how many
// pages keep the same cycle identity vs. resolve differently.
func buildLayerMatrix(byNode [][]Assignment, nSet []int) []LayerCell {
	idxOf := make(map[int]int, len(nSet))
	for i, n := range nSet {
		idxOf[n] = i
	}
	k := len(nSet)
	cells := make([]LayerCell, k*k)
	for i, nSrc := range nSet {
		for j, nDst := range nSet {
			cells[i*k+j] = LayerCell{NSrc: nSrc, NDst: nDst}
		}
	}

	for _, row := range byNode {
		for _, a := range row {
			for _, b := range row {
				i, j := idxOf[a.N], idxOf[b.N]
				cell := &cells[i*k+j]
				if sameTerminal(a, b) {
					cell.SameCycleCount++
				} else {
					cell.DiffCycleCount++
				}
			}
		}
	}
	return cells
}

func sortedUnique(nSet []int) []int {
	seen := make(map[int]bool, len(nSet))
	out := make([]int, 0, len(nSet))
	for _, n := range nSet {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
