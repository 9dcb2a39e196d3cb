package basin

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cgscsystems/nlinkbasin/cycles"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/rule"
)

// Materialize computes the full basin of attraction for cycleID under succ,
// as classified by class. The walk runs reverse-breadth-first over the
// predecessor graph of succ (see reverse.go), one frontier level at a time:
// level 0 is the cycle's own members, level d+1 is every node whose single
// f_N step lands on a level-d node and that has not already been claimed.
//
// Levels are expanded with up to cfg.maxWorkers goroutines sharing an
// atomic visited bitset (graph.Bitset.TestAndSetAtomic), so a node is
// claimed by exactly one worker regardless of schedule; results are
// independent of thread count. Complexity: O(V) time overall,
// O(V/8 + |basin|) space.
func Materialize(succ *rule.Successors, class *cycles.Classification, cycleID graph.NodeId, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	cyc, ok := class.CycleByID(cycleID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCycleNotFound, cycleID)
	}

	rg := buildReverseGraph(succ)
	v := succ.Len()
	visited := graph.NewBitset(v)

	result := &Result{CycleID: cycleID}

	// Level 0: the cycle's own members. Single-threaded (cycle length is
	// small relative to V) and establishes the visited baseline.
	frontier := make([]graph.NodeId, 0, len(cyc.Members))
	for _, m := range cyc.Members {
		visited.TestAndSetAtomic(m)
		frontier = append(frontier, m)
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
	depth := 0
	if !appendLevel(result, &cfg, frontier, depth, nil) {
		return truncated(result), nil
	}

	for len(frontier) > 0 {
		if err := cfg.ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		next, parentOf, err := expandLevel(cfg.ctx, rg, visited, frontier, cfg.maxWorkers)
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		depth++
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		if !appendLevel(result, &cfg, next, depth, parentOf) {
			return truncated(result), nil
		}
		frontier = next
	}

	return result, nil
}

// expandLevel fans the predecessor lookup for one frontier level out across
// up to maxWorkers goroutines, each claiming a disjoint shard of the
// frontier slice. A node is added to next exactly once: the atomic bitset
// test-and-set is the sole arbiter of ownership when two frontier members
// share a predecessor (impossible for a functional graph's reverse, since
// f_N is single-valued, but the guard costs nothing and keeps the walk
// correct if that invariant is ever relaxed).
func expandLevel(ctx context.Context, rg *reverseGraph, visited *graph.Bitset, frontier []graph.NodeId, maxWorkers int) ([]graph.NodeId, map[graph.NodeId]graph.NodeId, error) {
	type found struct {
		node   graph.NodeId
		parent graph.NodeId
	}

	shards := shardCount(len(frontier), maxWorkers)
	results := make([][]found, shards)

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(maxWorkers))
	chunk := (len(frontier) + shards - 1) / shards

	for s := 0; s < shards; s++ {
		s := s
		lo := s * chunk
		hi := lo + chunk
		if hi > len(frontier) {
			hi = len(frontier)
		}
		if lo >= hi {
			continue
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			local := make([]found, 0, hi-lo)
			for _, u := range frontier[lo:hi] {
				for _, p := range rg.predecessors(u) {
					if !visited.TestAndSetAtomic(p) {
						local = append(local, found{node: p, parent: u})
					}
				}
			}
			results[s] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	var next []graph.NodeId
	var parentOf map[graph.NodeId]graph.NodeId
	for _, shard := range results {
		for _, f := range shard {
			next = append(next, f.node)
			if parentOf == nil {
				parentOf = make(map[graph.NodeId]graph.NodeId)
			}
			parentOf[f.node] = f.parent
		}
	}
	return next, parentOf, nil
}

func shardCount(frontierLen, maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if frontierLen < maxWorkers {
		if frontierLen < 1 {
			return 1
		}
		return frontierLen
	}
	return maxWorkers
}

// appendLevel records one depth level's members into result, respecting
// the configured member budget. Returns false if the budget was hit,
// signalling the caller to stop and mark the result truncated.
func appendLevel(result *Result, cfg *config, level []graph.NodeId, depth int, parentOf map[graph.NodeId]graph.NodeId) bool {
	for len(result.Layers) <= depth {
		result.Layers = append(result.Layers, 0)
	}
	for _, node := range level {
		if cfg.memberBudget > 0 && len(result.Members) >= cfg.memberBudget {
			return false
		}
		m := Member{Node: node, Depth: depth}
		if cfg.withParents {
			if p, ok := parentOf[node]; ok {
				m.Parent = p
				m.HasParent = true
			}
		}
		result.Members = append(result.Members, m)
		result.Layers[depth]++
	}
	return true
}

func truncated(result *Result) *Result {
	result.Truncated = true
	result.Warning = ErrBudgetExceeded
	return result
}
