package controller

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"gopkg.in/yaml.v3"
)

// CycleRequest names one cycle, at one N, whose basin and branch
// decomposition the plan wants materialized. CycleID is the external page_id of the
// cycle's minimum-NodeId member, matching the cycle_id column emitted
// everywhere else.
type CycleRequest struct {
	N       int   `yaml:"n"`
	CycleID int64 `yaml:"cycle_id"`
}

// Plan configures one controller Run: which Ns to derive,
// which cycles within those Ns to materialize basins/branches for, where
// to write output, and how hard to push concurrency and per-basin size.
type Plan struct {
	// NSet lists every N the run derives cycle classification and
	// basin-assignment artifacts for (phases A-C, plus the multiplex
	// join when len(NSet) > 1).
	NSet []int `yaml:"n_set"`

	// Cycles lists the (N, cycle_id) pairs to materialize full basin and
	// branch artifacts for (phases D/E). A cycle not named here still
	// gets its basin_assignments/cycles rows, just no basin_layers or
	// branches file.
	Cycles []CycleRequest `yaml:"cycles"`

	// OutputDir is where the sink writes batch artifacts and its badger
	// index.
	OutputDir string `yaml:"output_dir"`

	// MaxWorkers bounds the D/E fan-out worker pool. <= 0 means
	// runtime.GOMAXPROCS(0).
	MaxWorkers int `yaml:"max_workers"`

	// MemberBudget caps basin size per materialized cycle before
	// truncating with a warning. 0 means unlimited.
	MemberBudget int `yaml:"member_budget"`

	// DominanceThreshold is a branch.DominantChain stopping ratio (<= 0
	// means branch.DefaultDominanceThreshold). It is validated but not
	// used by Run, which does not compute dominant chains.
	DominanceThreshold float64 `yaml:"dominance_threshold"`
}

// LoadPlan reads and validates a Plan from a YAML file at path.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidPlan, path, err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidPlan, path, err)
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return &p, nil
}

// normalize fills in defaults and validates the plan in place.
func (p *Plan) normalize() error {
	if len(p.NSet) == 0 {
		return fmt.Errorf("%w: n_set must not be empty", ErrInvalidPlan)
	}
	if p.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidPlan)
	}
	if p.MaxWorkers <= 0 {
		p.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if p.MemberBudget < 0 {
		return fmt.Errorf("%w: member_budget cannot be negative", ErrInvalidPlan)
	}
	if p.DominanceThreshold < 0 {
		return fmt.Errorf("%w: dominance_threshold cannot be negative", ErrInvalidPlan)
	}

	p.NSet = sortedUniqueInts(p.NSet)
	for _, c := range p.Cycles {
		if c.N < 1 {
			return fmt.Errorf("%w: cycle request has invalid n=%d", ErrInvalidPlan, c.N)
		}
	}
	return nil
}

// cyclesForN returns the CycleIDs requested for materialization at n.
func (p *Plan) cyclesForN(n int) []int64 {
	var ids []int64
	for _, c := range p.Cycles {
		if c.N == n {
			ids = append(ids, c.CycleID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
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
