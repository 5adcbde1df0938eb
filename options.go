package cubestate

import (
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/movetable"
)

// Option configures cubes and table builds.
type Option func(*config)

type config struct {
	variant     Variant
	workers     int
	denseLimit  uint32
	logger      logrus.FieldLogger
	moveHistory bool
}

func defaultConfig() *config {
	return &config{
		variant:    Standard,
		denseLimit: movetable.DefaultDenseLimit,
	}
}

func newConfig(opts []Option) *config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) builderOptions() []movetable.Option {
	opts := []movetable.Option{
		movetable.WithVariant(c.variant),
		movetable.WithDenseLimit(c.denseLimit),
	}
	if c.workers > 0 {
		opts = append(opts, movetable.WithWorkers(c.workers))
	}
	if c.logger != nil {
		opts = append(opts, movetable.WithLogger(c.logger))
	}
	return opts
}

// Variant selects the puzzle modelled.
type Variant = cube.Variant

const (
	Standard    = cube.Standard    // 3x3x3: corners and edges
	CornersOnly = cube.CornersOnly // 2x2x2: corners only
)

// WithVariant selects the puzzle variant. Default is Standard.
func WithVariant(v Variant) Option {
	return func(c *config) {
		c.variant = v
	}
}

// WithWorkers sets the number of goroutines that build tables.
// Zero or less uses one per CPU.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithDenseLimit sets the largest coordinate domain stored as a dense table.
// Larger families are computed on demand.
func WithDenseLimit(n uint32) Option {
	return func(c *config) {
		c.denseLimit = n
	}
}

// WithLogger routes build logging to l. Builds are silent by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMoveHistory enables or disables move history on cubes.
// When enabled, applied moves are accessible via Moves().
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.moveHistory = enabled
	}
}
