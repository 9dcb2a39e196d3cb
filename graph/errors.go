package graph

import "errors"

// Sentinel errors for the graph package. Callers should use errors.Is to
// branch on semantics; sentinels are never wrapped with formatted strings
// at the definition site — context is attached with fmt.Errorf("%w: ...")
// at the call site instead.
var (
	// ErrBadSnapshot indicates the input tables violated a structural
	// invariant required to build a Snapshot: unsorted positions, a
	// non-positive position, or a from_page_id absent from pages.
	ErrBadSnapshot = errors.New("graph: malformed snapshot input")

	// ErrNodeNotFound indicates a NodeId or page_id outside the Snapshot's
	// known range was requested.
	ErrNodeNotFound = errors.New("graph: node not found")
)
