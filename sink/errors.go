package sink

import "errors"

// ErrClosed is returned by the index-backed Sink methods
// (IndexClassification, Cycles, BasinOf, LayerMatrix) called after Close.
// The CSV Write* methods do not use the index and do not check it.
var ErrClosed = errors.New("sink: sink is closed")

// ErrCycleNotFound is returned by point queries against a (N, cycle_id)
// pair that was never indexed.
var ErrCycleNotFound = errors.New("sink: cycle id not found for this N")

// ErrNodeNotFound is returned by Trace when the requested page_id was
// never assigned a NodeId in the snapshot.
var ErrNodeNotFound = errors.New("sink: page_id not found")

// ErrIO wraps a batch-export write failure that persisted after one retry.
var ErrIO = errors.New("sink: io error writing artifact")
