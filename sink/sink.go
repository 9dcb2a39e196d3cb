package sink

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/cgscsystems/nlinkbasin/basin"
	"github.com/cgscsystems/nlinkbasin/branch"
	"github.com/cgscsystems/nlinkbasin/cycles"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/multiplex"
)

// Sink is the Result Sink: it owns one run's output directory (batch CSV
// artifacts) and one embedded badger index (point-query backing store).
type Sink struct {
	dir    string
	db     *badger.DB
	closed bool
}

// Open creates (if needed) dir and opens the badger index at
// dir/.index. Batch artifacts are written directly under dir.
func Open(dir string) (*Sink, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, ".index"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening index: %v", ErrIO, err)
	}
	return &Sink{dir: dir, db: db}, nil
}

// Close closes the badger index; a second call is a no-op. Afterward the
// index-backed methods return ErrClosed.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Sink) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// IndexClassification writes every node's (N, page_id) -> (cycle_or_halt,
// depth) fact and every cycle member row into the badger index, so
// BasinOf/Cycles/LayerMatrix can answer later without the in-memory
// cycles.Classification staying resident.
func (s *Sink) IndexClassification(n int, g *graph.Snapshot, class *cycles.Classification) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	v := g.NumNodes()
	for id := 0; id < v; id++ {
		node := graph.NodeId(id)
		pageID := g.PageID(node)
		if cid, ok := class.TerminalCycle(node); ok {
			cyclePageID := g.PageID(cid)
			depth := int32(class.Depth(node))
			if err := wb.Set(keyAssignment(n, pageID), encodeAssignmentValue(cyclePageID, depth, kindCycle)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err := wb.Set(keyBasinMember(n, cyclePageID, depth, pageID), nil); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
		} else {
			if err := wb.Set(keyAssignment(n, pageID), encodeAssignmentValue(0, 0, kindHalt)); err != nil {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
		}
	}
	for _, c := range class.Cycles() {
		cyclePageID := g.PageID(c.ID)
		if err := wb.Set(keyCycleInfo(n, cyclePageID), encodeCycleInfoValue(c.Len())); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// WriteCycles emits cycles_n={N}: one row per cycle member,
// ordered by ascending CycleId then member order within the orbit.
func (s *Sink) WriteCycles(n int, g *graph.Snapshot, class *cycles.Classification) error {
	cs := append([]cycles.Cycle(nil), class.Cycles()...)
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })

	return atomicWriteCSV(s.dir, fmt.Sprintf("cycles_n=%d.csv", n),
		[]string{"cycle_id", "length", "member_page_id", "member_order"},
		func(w csvWriter) error {
			for _, c := range cs {
				cycleID := g.PageID(c.ID)
				for order, m := range c.Members {
					if err := w.Write([]string{i64(cycleID), iInt(c.Len()), i64(g.PageID(m)), iInt(order)}); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

// WriteBasinAssignments emits basin_assignments_n={N}: one
// row per node, sorted ascending by page_id.
func (s *Sink) WriteBasinAssignments(n int, g *graph.Snapshot, class *cycles.Classification) error {
	v := g.NumNodes()
	order := make([]graph.NodeId, v)
	for i := range order {
		order[i] = graph.NodeId(i)
	}
	sort.Slice(order, func(i, j int) bool { return g.PageID(order[i]) < g.PageID(order[j]) })

	return atomicWriteCSV(s.dir, fmt.Sprintf("basin_assignments_n=%d.csv", n),
		[]string{"page_id", "cycle_id", "depth", "terminal_kind"},
		func(w csvWriter) error {
			for _, node := range order {
				pageID := g.PageID(node)
				if cid, ok := class.TerminalCycle(node); ok {
					row := []string{i64(pageID), i64(g.PageID(cid)), iInt(class.Depth(node)), "cycle"}
					if err := w.Write(row); err != nil {
						return err
					}
				} else {
					if err := w.Write([]string{i64(pageID), "", "", "halt"}); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

// WriteBasinLayers emits basin_layers_n={N}_cycle={id}.
func (s *Sink) WriteBasinLayers(n int, g *graph.Snapshot, cycleID graph.NodeId, result *basin.Result) error {
	cyclePageID := g.PageID(cycleID)
	return atomicWriteCSV(s.dir, fmt.Sprintf("basin_layers_n=%d_cycle=%d.csv", n, cyclePageID),
		[]string{"depth", "count"},
		func(w csvWriter) error {
			for depth, count := range result.Layers {
				if err := w.Write([]string{iInt(depth), iInt(count)}); err != nil {
					return err
				}
			}
			return nil
		})
}

// WriteBranches emits branches_n={N}_cycle={id}: one row per
// depth-1 subtree, rank 0 being the largest.
func (s *Sink) WriteBranches(n int, g *graph.Snapshot, cycleID graph.NodeId, result *branch.Result) error {
	entryPageID := g.PageID(result.Entry)
	cyclePageID := g.PageID(cycleID)
	return atomicWriteCSV(s.dir, fmt.Sprintf("branches_n=%d_cycle=%d.csv", n, cyclePageID),
		[]string{"entry_page_id", "subtree_root_page_id", "subtree_size", "rank"},
		func(w csvWriter) error {
			for rank, st := range result.Subtrees {
				row := []string{i64(entryPageID), i64(g.PageID(st.Root)), i64(st.Size), iInt(rank)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

// WriteMultiplexBasinAssignments emits multiplex_basin_assignments, one
// row per (page, N).
func (s *Sink) WriteMultiplexBasinAssignments(g *graph.Snapshot, result *multiplex.Result) error {
	return atomicWriteCSV(s.dir, "multiplex_basin_assignments.csv",
		[]string{"page_id", "N", "cycle_id", "depth", "terminal_kind"},
		func(w csvWriter) error {
			for _, a := range result.Assignments {
				pageID := g.PageID(a.Node)
				if a.Kind == multiplex.TerminalCycle {
					row := []string{i64(pageID), iInt(a.N), i64(g.PageID(a.CycleID)), i32(a.Depth), "cycle"}
					if err := w.Write(row); err != nil {
						return err
					}
				} else {
					if err := w.Write([]string{i64(pageID), iInt(a.N), "", "", "halt"}); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

// WriteTunnelNodes emits tunnel_nodes.
func (s *Sink) WriteTunnelNodes(g *graph.Snapshot, result *multiplex.Result) error {
	return atomicWriteCSV(s.dir, "tunnel_nodes.csv",
		[]string{"page_id", "n_distinct_cycles", "transitions", "score", "type"},
		func(w csvWriter) error {
			for _, t := range result.Tunnels {
				row := []string{i64(g.PageID(t.Node)), iInt(t.NDistinctCycles), iInt(t.Transitions), f64(t.Score), t.Type.String()}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

// WriteLayerConnectivity emits layer_connectivity.
func (s *Sink) WriteLayerConnectivity(result *multiplex.Result) error {
	return atomicWriteCSV(s.dir, "layer_connectivity.csv",
		[]string{"n_src", "n_dst", "same_cycle_count", "diff_cycle_count"},
		func(w csvWriter) error {
			for _, c := range result.Layer {
				row := []string{iInt(c.NSrc), iInt(c.NDst), i64(c.SameCycleCount), i64(c.DiffCycleCount)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

// WriteBasinFlow emits the basin-flow edge list, the aggregation a
// Sankey-style layer view is drawn from, derived from the same multiplex
// join as the tunnel tables.
func (s *Sink) WriteBasinFlow(g *graph.Snapshot, result *multiplex.Result) error {
	return atomicWriteCSV(s.dir, "basin_flow.csv",
		[]string{"n_from", "n_to", "from_cycle_id", "from_halt", "to_cycle_id", "to_halt", "count"},
		func(w csvWriter) error {
			for _, e := range result.FlowEdges {
				from, to := "", ""
				if !e.FromHalt {
					from = i64(g.PageID(e.FromCycle))
				}
				if !e.ToHalt {
					to = i64(g.PageID(e.ToCycle))
				}
				row := []string{iInt(e.NFrom), iInt(e.NTo), from, boolStr(e.FromHalt), to, boolStr(e.ToHalt), i64(e.Count)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

type csvWriter interface {
	Write(record []string) error
}
