// Package controller drives a Plan through phases A-H:
// load a snapshot once, then for each requested N run the successor/cycle
// phases sequentially, fan D/E out over a bounded worker pool per
// materialized cycle, join the multiplex phase across N_set, and write
// every artifact through a sink.Sink. Each Run is tagged with a v7 RunID
// and checkpoints its per-N progress so a restarted Run skips Ns whose
// recorded checkpoint hash matches the plan; the output files of a
// skipped N are not checked.
package controller
