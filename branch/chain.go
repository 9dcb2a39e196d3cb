package branch

import (
	"fmt"

	"github.com/cgscsystems/nlinkbasin/basin"
	"github.com/cgscsystems/nlinkbasin/graph"
)

// DefaultDominanceThreshold is the dominance ratio below which
// DominantChain stops walking.
const DefaultDominanceThreshold = 0.5

// DominantChain walks the "source of the Nile" path from seed: at each
// step it takes the child (immediate predecessor in the reverse-BFS tree)
// whose own subtree is largest, breaking ties by ascending NodeId, and
// stops once that child's share of the current node's subtree falls below
// threshold or the current node has no children left.
//
// seed must be a member of result; it need not be a cycle-entry node.
func DominantChain(result *basin.Result, seed graph.NodeId, threshold float64) ([]ChainStep, error) {
	if threshold <= 0 {
		threshold = DefaultDominanceThreshold
	}

	t, err := buildTree(result)
	if err != nil {
		return nil, err
	}
	if !t.isMember[seed] {
		return nil, fmt.Errorf("branch: seed node %d is not a basin member", seed)
	}

	memo := make(map[graph.NodeId]int64, len(result.Members))
	computeSizes(t, seed, memo)

	var chain []ChainStep
	cur := seed
	for {
		kids := t.children[cur]
		if len(kids) == 0 {
			break
		}
		best := kids[0]
		for _, k := range kids[1:] {
			if memo[k] > memo[best] || (memo[k] == memo[best] && k < best) {
				best = k
			}
		}
		ratio := float64(memo[best]) / float64(memo[cur])
		if ratio < threshold {
			break
		}
		chain = append(chain, ChainStep{Node: best, SubtreeSize: memo[best], DominanceRatio: ratio})
		cur = best
	}
	return chain, nil
}

// computeSizes fills memo with the subtree size (node count, self
// included) of root and every descendant, via an iterative post-order walk
// so chain steps that revisit nearby nodes never recompute a subtree twice.
func computeSizes(t *tree, root graph.NodeId, memo map[graph.NodeId]int64) int64 {
	type frame struct {
		node     graph.NodeId
		childIdx int
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := t.children[top.node]
		if top.childIdx < len(kids) {
			child := kids[top.childIdx]
			top.childIdx++
			if _, done := memo[child]; !done {
				stack = append(stack, frame{node: child})
			}
			continue
		}
		var total int64 = 1
		for _, c := range kids {
			total += memo[c]
		}
		memo[top.node] = total
		stack = stack[:len(stack)-1]
	}
	return memo[root]
}

