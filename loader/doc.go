// Package loader materializes an immutable graph.Snapshot from two
// streaming input tables: pages (page_id, title, namespace, is_redirect)
// and nlink_sequences (from_page_id, position, to_page_id), the latter
// sorted ascending by (from_page_id, position) with dense 1-based
// positions per page.
//
// NodeId assignment follows ascending page_id over namespace-0,
// non-redirect pages only; links targeting a filtered-out or unknown
// page are dropped and the remaining positions are implicitly re-packed,
// since graph.Builder records position purely by append order. Malformed
// input (unsorted sequences, non-positive positions, a from_page_id
// absent from pages) fails the whole load with ErrBadSnapshot: a
// snapshot is loaded whole or not at all.
package loader
