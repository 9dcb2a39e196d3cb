// Package rule computes f_N, the N-link rule's successor function, over a
// graph.Snapshot: every node with at least N outgoing links maps to the
// target at position N in its ordered outlink list; every other node maps
// to HALT.
//
// f_N is derived with a single cache-friendly pass over the CSR offsets and
// is pure and idempotent: recomputing it for the same (snapshot, N) always
// yields byte-identical output, independent of thread count.
package rule
