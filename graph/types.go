package graph

// NodeId is a dense identifier for a node, assigned in [0, V). External
// page identifiers (int64 page_id, possibly sparse) are held in a side
// table and mapped in/out only at I/O boundaries.
type NodeId uint32

// Snapshot is the immutable compressed-sparse-row representation of the
// article-link graph for one frozen ingestion run.
//
// Memory layout: targets stored as u32, offsets as u64, so the footprint is
// approximately 4*E + 8*V bytes.
type Snapshot struct {
	// offsets has length V+1. offsets[v]:offsets[v+1] is the slice of
	// targets that are v's ordered outgoing links.
	offsets []uint64

	// targets has length E = offsets[V]; targets[offsets[v]+k] is the
	// (k+1)-th outgoing link of v, in prose order. Duplicates within one
	// node's list are preserved: the N-th link means the N-th slot, not
	// the N-th distinct target.
	targets []NodeId

	// pageID maps NodeId -> external page_id, indexed by NodeId.
	pageID []int64

	// byPage is the inverse of pageID, built once at load time.
	byPage map[int64]NodeId
}

// NumNodes reports V, the number of nodes in the snapshot.
func (s *Snapshot) NumNodes() int {
	return len(s.pageID)
}

// NumEdges reports E, the total number of resolved outgoing links.
func (s *Snapshot) NumEdges() int {
	return len(s.targets)
}

// OutDegree reports the number of outgoing links of v.
// Complexity: O(1).
func (s *Snapshot) OutDegree(v NodeId) int {
	return int(s.offsets[v+1] - s.offsets[v])
}

// Outlinks returns v's ordered outgoing link targets as a read-only slice
// into the underlying CSR storage; callers must not mutate it.
// Complexity: O(1) to obtain the slice header.
func (s *Snapshot) Outlinks(v NodeId) []NodeId {
	return s.targets[s.offsets[v]:s.offsets[v+1]]
}

// NthLink returns the target at 1-based position n in v's outgoing link
// list and true, or the zero value and false if v has fewer than n links.
// Complexity: O(1).
func (s *Snapshot) NthLink(v NodeId, n int) (NodeId, bool) {
	if n < 1 || s.OutDegree(v) < n {
		return 0, false
	}
	return s.targets[s.offsets[v]+uint64(n-1)], true
}

// PageID returns the external page_id for NodeId v.
func (s *Snapshot) PageID(v NodeId) int64 {
	return s.pageID[v]
}

// NodeByPageID resolves an external page_id to its dense NodeId.
func (s *Snapshot) NodeByPageID(pageID int64) (NodeId, bool) {
	id, ok := s.byPage[pageID]
	return id, ok
}

// Halt returns the sentinel NodeId (equal to V) that every package in this
// module uses internally to represent the HALT terminal condition: a node
// with fewer outgoing links than the rule's N requires.
func (s *Snapshot) Halt() NodeId {
	return NodeId(s.NumNodes())
}

// IsHalt reports whether v is the HALT sentinel for this snapshot.
func (s *Snapshot) IsHalt(v NodeId) bool {
	return int(v) == s.NumNodes()
}
