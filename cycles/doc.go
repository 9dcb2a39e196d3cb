// Package cycles classifies every node of a functional graph f_N into
// exactly one of IN_CYCLE, IN_BASIN, or HALT-terminating, using the
// three-color (white/gray/black) walk adapted from dfs cycle detection: the
// functional-graph specialization visits each node exactly once because
// every node has at most one outgoing edge, so the walk never branches.
//
// A cycle's identity (CycleId) is defined as the minimum NodeId among its
// members, a total function of the orbit independent of traversal order or
// thread scheduling, which keeps output comparable across runs
// and across N.
package cycles
