package branch

import "github.com/cgscsystems/nlinkbasin/graph"

// Subtree is one depth-1 subtree of a branch: the immediate predecessor of
// the entry node, and the total size of everything reachable from it
// through the reverse-BFS tree (itself included).
type Subtree struct {
	Root graph.NodeId
	Size int64
}

// Dominance summarizes how concentrated a branch's mass is in its largest
// depth-1 subtree.
type Dominance struct {
	// BranchSize is the total number of non-cycle nodes in the branch
	// (the entry node itself is excluded, since it is a cycle member).
	BranchSize int64

	// LargestShare is Subtrees[0].Size / BranchSize, or 0 if the branch
	// has no non-cycle members.
	LargestShare float64

	// Gini is a Gini-style concentration coefficient over the depth-1
	// subtree size distribution, in [0, 1]: 0 means every subtree is the
	// same size, close to 1 means nearly all mass sits in one subtree.
	Gini float64
}

// ChainStep is one hop of the dominant upstream chain.
type ChainStep struct {
	Node           graph.NodeId
	SubtreeSize    int64
	DominanceRatio float64
}

// Result is the full decomposition of one cycle-entry node's branch.
type Result struct {
	Entry graph.NodeId

	// Subtrees lists every depth-1 subtree rooted at an immediate
	// predecessor of Entry, sorted by Size descending, ties broken by
	// ascending NodeId.
	Subtrees []Subtree

	Dominance Dominance

	// Chain is a slot for the dominant upstream chain ("source of the
	// Nile"). Decompose leaves it empty; DominantChain returns the chain
	// for a given seed node as its own value.
	Chain []ChainStep
}
