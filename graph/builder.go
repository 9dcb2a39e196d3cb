package graph

// Builder assembles a Snapshot in four phases, matching the count-then-
// scatter construction of a CSR adjacency from an edge list that isn't
// guaranteed to reference only already-seen nodes (article links
// routinely point forward to a higher page_id):
//
//  1. AddNode once per node, in final NodeId order (ascending page_id),
//     to establish the page_id <-> NodeId bijection and V.
//  2. CountLink once per candidate edge, after all nodes are known, to
//     accumulate each node's out-degree.
//  3. Finalize, which turns per-node degree counts into CSR offsets via
//     a prefix sum and allocates the targets array.
//  4. PlaceLink once per edge — in the same order as the CountLink pass
//     — to scatter each target into its node's reserved CSR row.
//
// Build then returns the finished, immutable Snapshot. Builder is not
// safe for concurrent use.
type Builder struct {
	pageID []int64
	byPage map[int64]NodeId

	outDegree []uint64
	offsets   []uint64
	targets   []NodeId
	cursor    []uint64

	finalized bool
}

// NewBuilder returns an empty Builder with capacity hints for the
// expected node and edge counts, to avoid incremental slice growth at
// ~18M/~240M scale.
func NewBuilder(nodeHint, edgeHint int) *Builder {
	if nodeHint < 0 {
		nodeHint = 0
	}
	if edgeHint < 0 {
		edgeHint = 0
	}
	return &Builder{
		pageID:    make([]int64, 0, nodeHint),
		byPage:    make(map[int64]NodeId, nodeHint),
		outDegree: make([]uint64, 0, nodeHint),
	}
}

// AddNode declares the next dense NodeId for external pageID and returns
// it. Nodes must be added in the final NodeId order (ascending page_id).
func (b *Builder) AddNode(pageID int64) NodeId {
	id := NodeId(len(b.pageID))
	b.pageID = append(b.pageID, pageID)
	b.byPage[pageID] = id
	b.outDegree = append(b.outDegree, 0)
	return id
}

// NumNodesSoFar reports how many nodes have been added so far.
func (b *Builder) NumNodesSoFar() int {
	return len(b.pageID)
}

// NodeByPageID resolves an already-added page_id to its NodeId.
func (b *Builder) NodeByPageID(pageID int64) (NodeId, bool) {
	id, ok := b.byPage[pageID]
	return id, ok
}

// CountLink registers one outgoing edge of from, to be placed by a later
// PlaceLink(from, ...) call. Must be called only after every node has
// been added and before Finalize.
func (b *Builder) CountLink(from NodeId) {
	b.outDegree[from]++
}

// Finalize computes CSR offsets from the accumulated out-degrees and
// allocates the targets array. No further CountLink or AddNode calls are
// permitted afterward.
func (b *Builder) Finalize() {
	v := len(b.pageID)
	offsets := make([]uint64, v+1)
	for i := 0; i < v; i++ {
		offsets[i+1] = offsets[i] + b.outDegree[i]
	}
	b.offsets = offsets
	b.targets = make([]NodeId, offsets[v])
	b.cursor = append([]uint64(nil), offsets[:v]...)
	b.finalized = true
}

// PlaceLink scatters target into from's reserved CSR row at the next
// free slot. Calls for a fixed from must occur in the same relative
// order as the matching CountLink calls were made, to preserve prose
// order among from's outgoing links.
func (b *Builder) PlaceLink(from NodeId, target NodeId) {
	pos := b.cursor[from]
	b.targets[pos] = target
	b.cursor[from] = pos + 1
}

// Build closes the builder and returns the finished Snapshot, calling
// Finalize first if it has not been called; the Builder must not be
// reused afterward.
func (b *Builder) Build() *Snapshot {
	if !b.finalized {
		b.Finalize()
	}
	return &Snapshot{
		offsets: b.offsets,
		targets: b.targets,
		pageID:  b.pageID,
		byPage:  b.byPage,
	}
}
