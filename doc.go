// Package nlinkbasin analyzes the functional graph induced on a large
// directed link graph by the N-link rule family: for a fixed N, every
// node's outlink list is reduced to at most one successor (its N-th
// outgoing link, or HALT if it has fewer than N), turning the graph into
// a pure functional graph whose structure decomposes into cycles,
// basins of attraction, and predecessor trees rooted at cycle members.
//
// The engine is organized as a pipeline of small packages, one per
// component:
//
//	graph      — immutable CSR snapshot of the source link graph
//	loader     — streams (pages, nlink_sequences) tables into a graph.Snapshot
//	rule       — derives f_N, the N-link successor function, for one N
//	cycles     — classifies every node under f_N: its cycle or HALT, and depth
//	basin      — materializes a cycle's full basin of attraction via reverse BFS
//	branch     — decomposes a basin into depth-1 subtrees and a dominant chain
//	multiplex  — joins basin/cycle structure across several N values at once
//	sink       — exports batch artifacts and serves point queries
//	controller — drives a Plan through the pipeline, per-N, with checkpointing
//
// A typical run loads one snapshot, then asks controller.Run to derive
// cycle/basin/branch structure for one or more N values and write the
// resulting tables and point-query index to an output directory.
package nlinkbasin
