package sink

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// TraceResult is the outcome of one trace(page_id, N, max_steps) query.
type TraceResult struct {
	Path    []int64 // page_id at each step, seed first
	Steps   int
	IsCycle bool
	IsHalt  bool
	CycleID int64 // valid only if IsCycle
}

// Trace walks f_N from pageID for up to maxSteps hops and reports whether
// it lands in a cycle or HALTs, together with the visited path prefix.
// This is a live computation over succ rather than an index lookup, since
// the truncated path prefix it must return (path_prefix_up_to_K) is not
// something the batch-indexed classification retains.
func Trace(g *graph.Snapshot, succ *rule.Successors, pageID int64, maxSteps int) (*TraceResult, error) {
	start, ok := g.NodeByPageID(pageID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, pageID)
	}

	seen := map[graph.NodeId]int{start: 0}
	path := []int64{pageID}
	cur := start
	for steps := 0; steps < maxSteps; steps++ {
		if succ.IsHalt(cur) {
			return &TraceResult{Path: path, Steps: steps, IsHalt: true}, nil
		}
		next := succ.At(cur)
		path = append(path, g.PageID(next))
		if firstSeenAt, ok := seen[next]; ok {
			// The orbit is path[firstSeenAt:] minus the repeated tail
			// element; its identity is the minimum NodeId among members,
			// matching the cycle_id every other surface reports.
			minNode := next
			for _, pid := range path[firstSeenAt : len(path)-1] {
				if node, ok := g.NodeByPageID(pid); ok && node < minNode {
					minNode = node
				}
			}
			return &TraceResult{Path: path, Steps: steps + 1, IsCycle: true, CycleID: g.PageID(minNode)}, nil
		}
		seen[next] = steps + 1
		cur = next
	}
	return &TraceResult{Path: path, Steps: maxSteps}, nil
}

// Cycles lists every cycle discovered for N, sorted ascending by
// cycle_id, read from the index written by IndexClassification.
func (s *Sink) Cycles(n int) ([]CycleInfo, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	prefix := keyCycleInfoPrefix(n)
	var out []CycleInfo
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			cyclePageID := int64(binary.BigEndian.Uint64(item.KeyCopy(nil)[len(prefix):]))
			var length int
			if err := item.Value(func(v []byte) error {
				length = decodeCycleInfoValue(v)
				return nil
			}); err != nil {
				return err
			}
			out = append(out, CycleInfo{CycleID: cyclePageID, Length: length})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CycleID < out[j].CycleID })
	return out, nil
}

// CycleInfo is one row of a Cycles() result.
type CycleInfo struct {
	CycleID int64
	Length  int
}

// BasinOf streams every (page_id, depth) member of (N, cycleID)'s basin,
// ordered ascending by depth then page_id, calling fn for each until fn
// returns an error, maxRows rows are emitted (0 means unlimited), or the
// basin is exhausted.
func (s *Sink) BasinOf(n int, cycleID int64, maxRows int, fn func(pageID int64, depth int32) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, err := s.cycleInfo(n, cycleID); err != nil {
		return err
	}

	prefix := keyBasinMemberPrefix(n, cycleID)
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		emitted := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if maxRows > 0 && emitted >= maxRows {
				return nil
			}
			depth, pageID := decodeBasinMemberKey(it.Item().KeyCopy(nil))
			if err := fn(pageID, depth); err != nil {
				return err
			}
			emitted++
		}
		return nil
	})
}

func (s *Sink) cycleInfo(n int, cycleID int64) (CycleInfo, error) {
	key := keyCycleInfo(n, cycleID)
	var info CycleInfo
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: n=%d cycle_id=%d", ErrCycleNotFound, n, cycleID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			info = CycleInfo{CycleID: cycleID, Length: decodeCycleInfoValue(v)}
			return nil
		})
	})
	return info, err
}

// LayerMatrix reads every (N, page_id) assignment indexed for the Ns in
// nSet and reduces them to the same same-cycle/diff-cycle matrix
// multiplex.Build computes, without rerunning cycle discovery. Pages
// never indexed at one of the requested Ns are skipped for pairs
// involving that N.
func (s *Sink) LayerMatrix(nSet []int) ([]LayerCell, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	nSet = sortedUniqueInts(nSet)

	byPage := make(map[int64]map[int]assignmentFact)
	err := s.db.View(func(txn *badger.Txn) error {
		for _, n := range nSet {
			prefix := keyAssignmentPrefix(n)
			it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				k := it.Item().KeyCopy(nil)
				pageID := int64(binary.BigEndian.Uint64(k[len(prefix) : len(prefix)+8]))
				var fact assignmentFact
				if err := it.Item().Value(func(v []byte) error {
					cid, depth, kind := decodeAssignmentValue(v)
					fact = assignmentFact{cycleID: cid, depth: depth, isHalt: kind == kindHalt}
					return nil
				}); err != nil {
					it.Close()
					return err
				}
				if byPage[pageID] == nil {
					byPage[pageID] = make(map[int]assignmentFact, len(nSet))
				}
				byPage[pageID][n] = fact
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	idxOf := make(map[int]int, len(nSet))
	for i, n := range nSet {
		idxOf[n] = i
	}
	k := len(nSet)
	cells := make([]LayerCell, k*k)
	for i, nSrc := range nSet {
		for j, nDst := range nSet {
			cells[i*k+j] = LayerCell{NSrc: nSrc, NDst: nDst}
		}
	}
	for _, facts := range byPage {
		for _, nSrc := range nSet {
			a, ok := facts[nSrc]
			if !ok {
				continue
			}
			for _, nDst := range nSet {
				b, ok := facts[nDst]
				if !ok {
					continue
				}
				i, j := idxOf[nSrc], idxOf[nDst]
				cell := &cells[i*k+j]
				if sameFact(a, b) {
					cell.SameCycleCount++
				} else {
					cell.DiffCycleCount++
				}
			}
		}
	}
	return cells, nil
}

// LayerCell mirrors multiplex.LayerCell; duplicated here so the
// point-query surface doesn't need the in-memory multiplex.Result alive.
type LayerCell struct {
	NSrc, NDst     int
	SameCycleCount int64
	DiffCycleCount int64
}

type assignmentFact struct {
	cycleID int64
	depth   int32
	isHalt  bool
}

func sameFact(a, b assignmentFact) bool {
	if a.isHalt != b.isHalt {
		return false
	}
	if a.isHalt {
		return true
	}
	return a.cycleID == b.cycleID
}

func sortedUniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, n := range in {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
