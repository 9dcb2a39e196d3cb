package controller_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgscsystems/nlinkbasin/controller"
	"github.com/cgscsystems/nlinkbasin/graph"
)

// fixtureGraph is the same five-node graph used by the sink tests:
// 0->[1,2], 1->[0,3], 2->[3], 3->[3,4], 4->[0].
func fixtureGraph(t *testing.T) *graph.Snapshot {
	t.Helper()
	links := map[int64][]int64{
		0: {1, 2},
		1: {0, 3},
		2: {3},
		3: {3, 4},
		4: {0},
	}
	b := graph.NewBuilder(5, 0)
	for pid := int64(0); pid < 5; pid++ {
		b.AddNode(pid)
	}
	for pid := int64(0); pid < 5; pid++ {
		from, _ := b.NodeByPageID(pid)
		for range links[pid] {
			b.CountLink(from)
		}
	}
	b.Finalize()
	for pid := int64(0); pid < 5; pid++ {
		from, _ := b.NodeByPageID(pid)
		for _, to := range links[pid] {
			toNode, _ := b.NodeByPageID(to)
			b.PlaceLink(from, toNode)
		}
	}
	return b.Build()
}

func TestRun_SingleN(t *testing.T) {
	g := fixtureGraph(t)
	dir := t.TempDir()

	plan := &controller.Plan{
		NSet:      []int{1},
		Cycles:    []controller.CycleRequest{{N: 1, CycleID: 0}, {N: 1, CycleID: 3}},
		OutputDir: dir,
	}

	run, err := controller.NewRun(plan, g, nil, nil)
	require.NoError(t, err)
	defer run.Close()

	require.NoError(t, run.Execute(context.Background()))

	for _, f := range []string{"cycles_n=1.csv", "basin_assignments_n=1.csv", "basin_layers_n=1_cycle=0.csv", "branches_n=1_cycle=0.csv", "basin_layers_n=1_cycle=3.csv"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected %s to exist", f)
	}
}

func TestRun_MultiplexJoin(t *testing.T) {
	g := fixtureGraph(t)
	dir := t.TempDir()

	plan := &controller.Plan{
		NSet:      []int{1, 2},
		OutputDir: dir,
	}

	run, err := controller.NewRun(plan, g, nil, nil)
	require.NoError(t, err)
	defer run.Close()

	require.NoError(t, run.Execute(context.Background()))

	for _, f := range []string{"multiplex_basin_assignments.csv", "tunnel_nodes.csv", "layer_connectivity.csv", "basin_flow.csv"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected %s to exist", f)
	}
}

func TestRun_ResumeSkipsCompletedN(t *testing.T) {
	g := fixtureGraph(t)
	dir := t.TempDir()
	plan := &controller.Plan{NSet: []int{1}, OutputDir: dir}

	run, err := controller.NewRun(plan, g, nil, nil)
	require.NoError(t, err)
	require.NoError(t, run.Execute(context.Background()))
	require.NoError(t, run.Close())

	// Remove a batch artifact; a resumed run whose checkpoint still
	// matches the plan's schema must not recompute or recreate it.
	require.NoError(t, os.Remove(filepath.Join(dir, "cycles_n=1.csv")))

	run2, err := controller.NewRun(plan, g, nil, nil)
	require.NoError(t, err)
	defer run2.Close()
	require.NoError(t, run2.Execute(context.Background()))

	_, err = os.Stat(filepath.Join(dir, "cycles_n=1.csv"))
	assert.True(t, os.IsNotExist(err), "resumed run should have skipped n=1, not recreated its output")
}

func TestLoadPlan_InvalidMissingNSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: /tmp/out\n"), 0o644))

	_, err := controller.LoadPlan(path)
	assert.ErrorIs(t, err, controller.ErrInvalidPlan)
}

func TestLoadPlan_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	yaml := "n_set: [2, 1, 1]\noutput_dir: " + dir + "\ncycles:\n  - n: 1\n    cycle_id: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	plan, err := controller.LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, plan.NSet)
	assert.Equal(t, 1, len(plan.Cycles))
}
