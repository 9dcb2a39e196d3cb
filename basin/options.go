package basin

import (
	"context"
	"fmt"
	"runtime"
)

// Option configures Materialize via functional arguments. An invalid Option
// (e.g. a negative budget) is recorded internally and surfaced as
// ErrOptionViolation when Materialize runs.
type Option func(*config)

type config struct {
	ctx          context.Context
	maxWorkers   int
	memberBudget int
	withParents  bool
	err          error
}

// defaultConfig mirrors DefaultOptions' role in bfs/types.go: sane
// defaults with no limits and no parent tracking, since most callers only
// want layer counts.
func defaultConfig() config {
	return config{
		ctx:        context.Background(),
		maxWorkers: runtime.GOMAXPROCS(0),
	}
}

func newConfig(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return config{}, cfg.err
	}
	return cfg, nil
}

// WithContext sets a context observed at per-level granularity during the
// reverse walk, so a large basin can be cancelled between frontier levels
// rather than only at completion.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithMaxWorkers bounds the goroutine pool used to fan a frontier level's
// predecessor expansion out across workers. n <= 0 means "use GOMAXPROCS".
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithMemberBudget caps the number of members Materialize will record
// before truncating the walk early: a soft cap, not a failure. 0, the
// default, means unlimited.
func WithMemberBudget(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.err = fmt.Errorf("%w: member budget cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		c.memberBudget = n
	}
}

// WithParentPointers has Materialize record, for every non-cycle member, the
// node it steps to under f_N (its parent in the reverse-BFS tree), enabling
// path-to-cycle reconstruction. Off by default since most callers only need
// per-depth counts.
func WithParentPointers(enabled bool) Option {
	return func(c *config) {
		c.withParents = enabled
	}
}
