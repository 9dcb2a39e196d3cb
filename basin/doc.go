// Package basin materializes the full membership of a single cycle's basin
// of attraction: every node whose f_N trajectory resolves to that cycle,
// stratified by depth.
//
// The walk runs over a predecessor graph built once from a rule.Successors
// table (see reverse.go) rather than re-deriving edges from the original
// graph.Snapshot, since f_N's own successor function is what basin
// membership is defined over. Depth 0 is the cycle's own members; depth d+1
// is every node whose only step is into a depth-d node, discovered by a
// multi-source, level-synchronous reverse breadth-first search (see
// materialize.go), matching the CSR-masked-BFS idiom used elsewhere in this
// module for large frontiers.
package basin
