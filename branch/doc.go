// Package branch decomposes a single cycle-entry node's basin of attraction
// into its depth-1 subtrees: the trunkiness vector, a
// dominance/concentration summary, and the "source of the Nile" dominant
// upstream chain obtained by repeatedly following the largest subtree.
//
// Branch operates on a basin.Result already materialized WithParentPointers,
// so it never re-walks the reverse graph itself; it only groups and sorts
// the members Materialize already discovered.
package branch
