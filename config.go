package particle

import "github.com/davemc0/particle/pvec"

// Option configures a Context at construction time.
type Option func(*Context)

// WithLogger replaces the default no-op Logger.
func WithLogger(log Logger) Option {
	return func(c *Context) { c.log = log }
}

// WithWorkingSetBytes sets the segmentation scheduler's initial working-set
// budget; see Context.SetWorkingSetSize.
func WithWorkingSetBytes(bytes int) Option {
	return func(c *Context) { c.SetWorkingSetSize(bytes) }
}

// WithSeed deterministically seeds the Context's PRNG at construction,
// instead of leaving it on the zero-value default seed.
func WithSeed(seed uint32) Option {
	return func(c *Context) { c.rng = pvec.NewRng(seed) }
}
