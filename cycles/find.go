package cycles

import (
	"sort"

	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// Color constants for the walk's per-node visitation state, matching the
// white/gray/black marking dfs cycle detection uses for general graphs.
const (
	white uint8 = 0
	gray  uint8 = 1
	black uint8 = 2
)

// Find classifies every node of f_N in one O(V) pass: from every WHITE
// node, walk successors pushing each node onto a per-walk stack and marking
// it GRAY, until the walk reaches a BLACK node (inherit its classification,
// offsetting depth), HALT (mark the whole stack HALT-terminating), or a
// GRAY node already on the current stack (the suffix from the repeat to the
// top is a newly discovered cycle).
//
// Complexity: O(V) time; O(cycle-length + max-walk-depth) auxiliary stack,
// reused across walks.
func Find(succ *rule.Successors) *Classification {
	v := succ.Len()
	halt := succ.Halt()

	color := make([]uint8, v)
	terminal := make([]graph.NodeId, v)
	depth := make([]int32, v)
	stackPos := make([]int32, v)
	for i := range stackPos {
		stackPos[i] = -1
	}

	var cycles []Cycle
	stack := make([]graph.NodeId, 0, 64)

	// markHalt marks stack[lo:hi] (inclusive of hi) HALT-terminating.
	markHalt := func(lo, hi int) {
		for i := hi; i >= lo; i-- {
			terminal[stack[i]] = halt
			depth[stack[i]] = InfiniteDepth
			color[stack[i]] = black
			stackPos[stack[i]] = -1
		}
	}
	// markCycleMembers marks stack[lo:hi] (inclusive of hi) as members of
	// cycle t, all at depth 0.
	markCycleMembers := func(lo, hi int, t graph.NodeId) {
		for i := hi; i >= lo; i-- {
			terminal[stack[i]] = t
			depth[stack[i]] = 0
			color[stack[i]] = black
			stackPos[stack[i]] = -1
		}
	}
	// markApproach marks stack[lo:hi] (inclusive of hi) as resolving to
	// cycle t, with depth increasing by one per step away from hi, where
	// stack[hi] is exactly one step from a node already known to be at
	// depth tailDepth.
	markApproach := func(lo, hi int, t graph.NodeId, tailDepth int32) {
		for i := hi; i >= lo; i-- {
			terminal[stack[i]] = t
			depth[stack[i]] = tailDepth + int32(hi-i) + 1
			color[stack[i]] = black
			stackPos[stack[i]] = -1
		}
	}

	for start := 0; start < v; start++ {
		if color[start] != white {
			continue
		}

		cur := graph.NodeId(start)
	walk:
		for {
			color[cur] = gray
			stackPos[cur] = int32(len(stack))
			stack = append(stack, cur)

			next := succ.At(cur)
			if next == halt {
				markHalt(0, len(stack)-1)
				stack = stack[:0]
				break walk
			}

			switch color[next] {
			case white:
				cur = next
				continue walk
			case gray:
				idx := int(stackPos[next])
				members := append([]graph.NodeId(nil), stack[idx:]...)
				cid := minNodeID(members)
				cycles = append(cycles, Cycle{ID: cid, Members: members})
				markCycleMembers(idx, len(stack)-1, cid)
				if idx > 0 {
					// Nodes before the cycle entry approach it: the entry
					// itself (stack[idx]) is the "tail" already at depth 0.
					markApproach(0, idx-1, cid, 0)
				}
				stack = stack[:0]
				break walk
			default: // black: inherit the already-resolved classification
				t := terminal[next]
				d := depth[next]
				if t == halt {
					markHalt(0, len(stack)-1)
				} else {
					markApproach(0, len(stack)-1, t, d)
				}
				stack = stack[:0]
				break walk
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].ID < cycles[j].ID })
	byID := make(map[graph.NodeId]int, len(cycles))
	for i, c := range cycles {
		byID[c.ID] = i
	}

	return &Classification{
		halt:     halt,
		terminal: terminal,
		depth:    depth,
		cycles:   cycles,
		byID:     byID,
	}
}

func minNodeID(ids []graph.NodeId) graph.NodeId {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}
