// Package graph defines the immutable, dense-NodeId, compressed-sparse-row
// (CSR) representation of the article-link graph that every other package
// in this module consumes.
//
// A Snapshot is built once (see the loader package, via Builder) and never
// mutated afterward: every exported method is read-only, so a *Snapshot may
// be shared across goroutines without locking.
//
// NodeId is a dense uint32 in [0, V); external page identifiers are kept in
// a side table and mapped in/out only at I/O boundaries (loader and sink).
package graph
