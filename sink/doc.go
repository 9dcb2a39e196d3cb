// Package sink is the Result Sink: it writes the engine's columnar output
// artifacts with stable schemas and answers the stateless point-query
// surface (trace, basin_of, cycles, layer_matrix) against them.
//
// Batch artifacts are plain CSV (encoding/csv), written with a
// write-then-rename discipline so a reader never observes a partial file.
// The point-query surface is backed by an embedded
// github.com/dgraph-io/badger/v4 store: a durable local index keyed by a
// canonical byte encoding that supports range scans — so basin_of and
// cycles don't need the full per-N in-memory arrays to stay resident
// after a batch export.
package sink
