package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cgscsystems/nlinkbasin/basin"
	"github.com/cgscsystems/nlinkbasin/branch"
	"github.com/cgscsystems/nlinkbasin/cycles"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/internal/obslog"
	"github.com/cgscsystems/nlinkbasin/multiplex"
	"github.com/cgscsystems/nlinkbasin/rule"
	"github.com/cgscsystems/nlinkbasin/sink"
)

// Run is one execution of a Plan against a loaded snapshot: it owns the
// RunID, the output sink, the checkpoint store, and the metrics this
// execution reports through.
type Run struct {
	ID      string
	plan    *Plan
	g       *graph.Snapshot
	sink    *sink.Sink
	ckpt    *checkpointStore
	metrics *Metrics
	log     *slog.Logger
}

// NewRun opens a Run's sink and checkpoint store under plan.OutputDir and
// assigns it a time-ordered RunID. Call
// Close when done.
func NewRun(plan *Plan, g *graph.Snapshot, metrics *Metrics, log *slog.Logger) (*Run, error) {
	if err := plan.normalize(); err != nil {
		return nil, err
	}
	if log == nil {
		log = obslog.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("controller: generating run id: %w", err)
	}

	s, err := sink.Open(plan.OutputDir)
	if err != nil {
		return nil, err
	}
	ckpt, err := openCheckpointStore(plan.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &Run{
		ID:      id.String(),
		plan:    plan,
		g:       g,
		sink:    s,
		ckpt:    ckpt,
		metrics: metrics,
		log:     log.With("run_id", id.String()),
	}, nil
}

// Close releases the Run's sink and checkpoint store.
func (r *Run) Close() error {
	err1 := r.sink.Close()
	err2 := r.ckpt.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Execute drives phases A-H to completion: for each N in
// plan.NSet, sequentially derive f_N and its cycle classification, index
// and export the per-N batch artifacts, and fan the basin/branch
// materialization for plan.Cycles' requested cycles out across a bounded
// worker pool; then, if more than one N was requested, joins the
// multiplex phase across all of them. An N whose checkpoint already
// matches the plan's current schema is skipped entirely.
//
// Returns ErrCancelled if ctx is cancelled mid-run; any other error is an
// unrecoverable phase failure.
func (r *Run) Execute(ctx context.Context) error {
	start := time.Now()
	err := r.execute(ctx)

	outcome := "ok"
	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
	}
	r.metrics.RunDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}

func (r *Run) execute(ctx context.Context) error {
	for _, n := range r.plan.NSet {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		if err := r.runN(ctx, n); err != nil {
			return err
		}
	}

	if len(r.plan.NSet) > 1 {
		if err := r.runMultiplex(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runN executes phases A-E for one N, skipping entirely if a matching
// checkpoint already exists.
func (r *Run) runN(ctx context.Context, n int) error {
	hash := schemaHash(r.plan, n)
	done, err := r.ckpt.isComplete(n, hash)
	if err != nil {
		return err
	}
	if done {
		r.log.Info("controller: skipping n, checkpoint matches", "n", n)
		return nil
	}

	nLabel := nLabel(n)
	r.log.Info("controller: deriving n", "n", n)

	succ, err := rule.Compute(r.g, n)
	if err != nil {
		return err
	}
	r.metrics.PhaseNodesProcessed.WithLabelValues("succ", nLabel).Add(float64(succ.Len()))

	class := cycles.Find(succ)
	r.metrics.PhaseNodesProcessed.WithLabelValues("cycles", nLabel).Add(float64(succ.Len()))

	if err := r.sink.IndexClassification(n, r.g, class); err != nil {
		return err
	}
	if err := r.sink.WriteCycles(n, r.g, class); err != nil {
		return err
	}
	if err := r.sink.WriteBasinAssignments(n, r.g, class); err != nil {
		return err
	}

	if err := r.materializeRequested(ctx, n, succ, class); err != nil {
		return err
	}

	if err := r.ckpt.markComplete(n, hash); err != nil {
		return err
	}
	return nil
}

// materializeRequested fans basin.Materialize + branch.Decompose out
// across up to plan.MaxWorkers goroutines, one per requested cycle at n.
func (r *Run) materializeRequested(ctx context.Context, n int, succ *rule.Successors, class *cycles.Classification) error {
	pageIDs := r.plan.cyclesForN(n)
	if len(pageIDs) == 0 {
		return nil
	}
	nLabel := nLabel(n)

	grp, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(r.plan.MaxWorkers))
	r.metrics.QueueDepth.WithLabelValues(nLabel).Set(float64(len(pageIDs)))

	var acquireErr error
	for _, pageID := range pageIDs {
		pageID := pageID
		node, ok := r.g.NodeByPageID(pageID)
		if !ok {
			acquireErr = fmt.Errorf("%w: requested cycle page_id %d not in snapshot", ErrInvalidPlan, pageID)
			break
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			acquireErr = fmt.Errorf("%w: %v", ErrCancelled, err)
			break
		}
		r.metrics.QueueDepth.WithLabelValues(nLabel).Dec()
		r.metrics.ActiveWorkers.WithLabelValues(nLabel).Inc()

		grp.Go(func() error {
			defer sem.Release(1)
			defer r.metrics.ActiveWorkers.WithLabelValues(nLabel).Dec()
			return r.materializeOne(gctx, n, node, succ, class)
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}
	return acquireErr
}

func (r *Run) materializeOne(ctx context.Context, n int, cycleID graph.NodeId, succ *rule.Successors, class *cycles.Classification) error {
	result, err := basin.Materialize(succ, class, cycleID,
		basin.WithContext(ctx),
		basin.WithMaxWorkers(r.plan.MaxWorkers),
		basin.WithMemberBudget(r.plan.MemberBudget),
		basin.WithParentPointers(true),
	)
	if err != nil {
		return err
	}
	if result.Truncated {
		r.metrics.BasinsTruncated.WithLabelValues(nLabel(n)).Inc()
		r.log.Warn("controller: basin truncated", "n", n, "cycle_page_id", r.g.PageID(cycleID), "warning", result.Warning)
	}
	if err := r.sink.WriteBasinLayers(n, r.g, cycleID, result); err != nil {
		return err
	}

	br, err := branch.Decompose(result, cycleID)
	if err != nil {
		return err
	}
	return r.sink.WriteBranches(n, r.g, cycleID, br)
}

// runMultiplex runs phase F across the full N_set once every N's phases
// A-C have completed, and writes every multiplex artifact.
func (r *Run) runMultiplex(ctx context.Context) error {
	r.log.Info("controller: joining multiplex layers", "n_set", r.plan.NSet)
	result, err := multiplex.Build(ctx, r.g, r.plan.NSet)
	if err != nil {
		return err
	}
	if err := r.sink.WriteMultiplexBasinAssignments(r.g, result); err != nil {
		return err
	}
	if err := r.sink.WriteTunnelNodes(r.g, result); err != nil {
		return err
	}
	if err := r.sink.WriteLayerConnectivity(result); err != nil {
		return err
	}
	return r.sink.WriteBasinFlow(r.g, result)
}

func nLabel(n int) string {
	return fmt.Sprintf("%d", n)
}
