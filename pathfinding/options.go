package pathfinding

type options struct {
	maxNodes      int
	recordVisited bool
}

// Option configures a search.
type Option func(*options)

// WithMaxNodes caps how many cells a search may expand. A search that runs
// out fails with ErrBudgetExhausted. Zero or less means no cap.
func WithMaxNodes(n int) Option {
	return func(o *options) { o.maxNodes = n }
}

// WithVisited records the expansion order in Result.Visited.
func WithVisited() Option {
	return func(o *options) { o.recordVisited = true }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
