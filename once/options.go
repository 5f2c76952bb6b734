package once

import "github.com/crystalcld/atomic-try-update/internal/obslog"

// Option configures a Cell at construction time.
type Option func(*config)

type config struct {
	logger *obslog.Logger
}

func newConfig(opts []Option) config {
	c := config{logger: obslog.Default()}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithLogger overrides the diagnostic logger (default: obslog.Default()).
func WithLogger(l *obslog.Logger) Option {
	return func(c *config) { c.logger = l }
}
