package branch

import (
	"fmt"
	"math"
	"sort"

	"github.com/cgscsystems/nlinkbasin/basin"
	"github.com/cgscsystems/nlinkbasin/graph"
)

// tree is the reverse-BFS parent tree restricted to one basin.Result,
// indexed for repeated subtree-size queries.
type tree struct {
	children map[graph.NodeId][]graph.NodeId
	isMember map[graph.NodeId]bool
}

func buildTree(result *basin.Result) (*tree, error) {
	t := &tree{
		children: make(map[graph.NodeId][]graph.NodeId),
		isMember: make(map[graph.NodeId]bool, len(result.Members)),
	}
	hasAnyParent := false
	for _, m := range result.Members {
		t.isMember[m.Node] = true
		if m.HasParent {
			hasAnyParent = true
			t.children[m.Parent] = append(t.children[m.Parent], m.Node)
		}
	}
	if !hasAnyParent && len(result.Layers) > 0 && len(result.Members) > result.Layers[0] {
		// result.Layers[0] cycle members exist at depth 0; if there are
		// deeper members but no parent pointers were recorded, the caller
		// forgot basin.WithParentPointers.
		return nil, ErrNoParentPointers
	}
	return t, nil
}

// subtreeSize counts node and every descendant reachable through t's
// children map, using an explicit stack rather than recursion so basins
// with long dominant chains do not rely on Go's goroutine stack growth.
func subtreeSize(t *tree, node graph.NodeId) int64 {
	var total int64
	stack := []graph.NodeId{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, t.children[n]...)
	}
	return total
}

// Decompose computes the trunkiness vector and dominance metrics for the
// branch rooted at entry. entry must be a depth-0 member of
// result (a cycle-entry node with at least one non-cycle predecessor).
func Decompose(result *basin.Result, entry graph.NodeId) (*Result, error) {
	if !isCycleMember(result, entry) {
		return nil, fmt.Errorf("%w: node %d", ErrNotCycleMember, entry)
	}

	t, err := buildTree(result)
	if err != nil {
		return nil, err
	}

	children := t.children[entry]
	subtrees := make([]Subtree, 0, len(children))
	var branchSize int64
	for _, c := range children {
		sz := subtreeSize(t, c)
		subtrees = append(subtrees, Subtree{Root: c, Size: sz})
		branchSize += sz
	}
	sort.Slice(subtrees, func(i, j int) bool {
		if subtrees[i].Size != subtrees[j].Size {
			return subtrees[i].Size > subtrees[j].Size
		}
		return subtrees[i].Root < subtrees[j].Root
	})

	return &Result{
		Entry:     entry,
		Subtrees:  subtrees,
		Dominance: dominance(subtrees, branchSize),
	}, nil
}

func dominance(subtrees []Subtree, branchSize int64) Dominance {
	d := Dominance{BranchSize: branchSize}
	if branchSize == 0 || len(subtrees) == 0 {
		return d
	}
	d.LargestShare = float64(subtrees[0].Size) / float64(branchSize)
	d.Gini = giniCoefficient(subtrees)
	return d
}

// giniCoefficient computes the Gini-style concentration of the subtree
// size distribution: the mean absolute difference between every pair of
// sizes, normalized by twice the mean (the standard discrete Gini
// formula), 0 when sizes are uniform, approaching 1 when one subtree
// dominates.
func giniCoefficient(subtrees []Subtree) float64 {
	n := len(subtrees)
	if n < 2 {
		return 0
	}
	var sum, sumAbsDiff float64
	sizes := make([]float64, n)
	for i, s := range subtrees {
		sizes[i] = float64(s.Size)
		sum += sizes[i]
	}
	if sum == 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sumAbsDiff += math.Abs(sizes[i] - sizes[j])
		}
	}
	mean := sum / float64(n)
	return sumAbsDiff / (2 * float64(n) * float64(n) * mean)
}

func isCycleMember(result *basin.Result, node graph.NodeId) bool {
	for _, m := range result.Members {
		if m.Node == node {
			return m.Depth == 0
		}
	}
	return false
}
