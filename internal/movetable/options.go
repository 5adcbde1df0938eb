package movetable

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// DefaultDenseLimit is the largest domain materialized as a dense array by
// default. It covers the three corner and edge-orientation families and
// leaves edge permutation (12!) to on-demand computation.
const DefaultDenseLimit = 1 << 20

// DefaultChunkSize is the number of coordinates a worker handles per job.
const DefaultChunkSize = 1 << 14

// DefaultMemoryLimit caps the bytes all dense tables of one build may hold.
const DefaultMemoryLimit = 1 << 30

// Option configures a Builder.
type Option func(*config)

type config struct {
	variant     cube.Variant
	workers     int
	denseLimit  uint32
	chunkSize   uint32
	memoryLimit uint64
	families    []cube.Family
	moves       []types.Move
	logger      logrus.FieldLogger
	progress    func(Progress)
}

func defaultConfig() *config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &config{
		variant:     cube.Standard,
		workers:     runtime.NumCPU(),
		denseLimit:  DefaultDenseLimit,
		chunkSize:   DefaultChunkSize,
		memoryLimit: DefaultMemoryLimit,
		logger:      discard,
	}
}

// WithVariant selects the puzzle variant. CornersOnly builds only the two
// corner families.
func WithVariant(v cube.Variant) Option {
	return func(c *config) {
		c.variant = v
	}
}

// WithWorkers sets the number of goroutines filling tables.
// Values below 1 fall back to one worker.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithDenseLimit sets the largest domain stored as a dense array. Families
// with larger domains are computed on demand.
func WithDenseLimit(n uint32) Option {
	return func(c *config) {
		c.denseLimit = n
	}
}

// WithChunkSize sets how many coordinates a worker handles per job.
func WithChunkSize(n uint32) Option {
	return func(c *config) {
		if n == 0 {
			n = DefaultChunkSize
		}
		c.chunkSize = n
	}
}

// WithMemoryLimit caps the bytes all dense tables of one build may hold.
func WithMemoryLimit(bytes uint64) Option {
	return func(c *config) {
		c.memoryLimit = bytes
	}
}

// WithFamilies restricts the build to the given families.
func WithFamilies(families ...cube.Family) Option {
	return func(c *config) {
		c.families = append([]cube.Family(nil), families...)
	}
}

// WithMoves restricts the build to the given moves.
func WithMoves(moves ...types.Move) Option {
	return func(c *config) {
		c.moves = append([]types.Move(nil), moves...)
	}
}

// WithLogger sets the logger receiving per-table build events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress registers a callback invoked as chunks complete. Calls are
// serialized.
func WithProgress(fn func(Progress)) Option {
	return func(c *config) {
		c.progress = fn
	}
}
