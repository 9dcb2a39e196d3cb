package loader

// Option customizes Load by mutating a config before the streaming pass
// begins. Constructors validate and panic on meaningless inputs; Load
// itself never panics.
type Option func(*config)

type config struct {
	nodeHint int
	edgeHint int
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithNodeHint pre-sizes the builder's per-node arrays for an expected
// node count, avoiding incremental growth at ~18M-node scale. Panics if
// n is negative.
func WithNodeHint(n int) Option {
	if n < 0 {
		panic("loader: WithNodeHint(n<0)")
	}
	return func(c *config) {
		c.nodeHint = n
	}
}

// WithEdgeHint pre-sizes the builder's target array for an expected
// resolved-edge count. Panics if n is negative.
func WithEdgeHint(n int) Option {
	if n < 0 {
		panic("loader: WithEdgeHint(n<0)")
	}
	return func(c *config) {
		c.edgeHint = n
	}
}
