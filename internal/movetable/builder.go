package movetable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// ErrMemoryBudget is returned when a plan's dense tables would exceed the
// memory limit.
var ErrMemoryBudget = errors.New("movetable: dense tables exceed memory limit")

// Progress reports build advancement for the table currently being filled.
// Computed tables report once, complete, since they hold no entries.
type Progress struct {
	Move     types.Move
	Family   cube.Family
	Strategy Strategy
	Done     uint64 // entries of this table filled so far
	Total    uint64 // entries of this table
	Table    int    // 1-based index of this table in the plan
	Tables   int    // tables in the plan
}

// Plan describes one table a Builder will produce.
type Plan struct {
	Move     types.Move
	Family   cube.Family
	Strategy Strategy
	Size     uint32
	Bytes    uint64
}

// Builder enumerates coordinate domains and records successors.
type Builder struct {
	cfg *config
}

// NewBuilder creates a Builder. Without options it builds all 18 moves for
// every family of the standard cube.
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Builder{cfg: cfg}
}

// Workers returns the configured worker count.
func (b *Builder) Workers() int {
	return b.cfg.workers
}

// DenseLimit returns the largest domain the builder stores densely.
func (b *Builder) DenseLimit() uint32 {
	return b.cfg.denseLimit
}

// Variant returns the configured puzzle variant.
func (b *Builder) Variant() cube.Variant {
	return b.cfg.variant
}

func (b *Builder) families() ([]cube.Family, error) {
	if len(b.cfg.families) == 0 {
		return b.cfg.variant.Families(), nil
	}
	var seen [cube.NumFamilies]bool
	out := make([]cube.Family, 0, len(b.cfg.families))
	for _, f := range b.cfg.families {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %d", cube.ErrUnknownFamily, int(f))
		}
		if f.IsEdge() && !b.cfg.variant.HasEdges() {
			return nil, fmt.Errorf("%w: %s on %s", cube.ErrFamilyUnavailable, f, b.cfg.variant)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func (b *Builder) moves() ([]types.Move, error) {
	if len(b.cfg.moves) == 0 {
		return cube.MoveTokens(), nil
	}
	var seen [types.NumTokens]bool
	out := make([]types.Move, 0, len(b.cfg.moves))
	for _, m := range b.cfg.moves {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %+v", cube.ErrUnknownMove, m)
		}
		if seen[m.Token()] {
			continue
		}
		seen[m.Token()] = true
		out = append(out, m)
	}
	return out, nil
}

// Plan lists the tables Build will produce, family by family, and checks
// them against the memory limit.
func (b *Builder) Plan() ([]Plan, error) {
	families, err := b.families()
	if err != nil {
		return nil, err
	}
	moves, err := b.moves()
	if err != nil {
		return nil, err
	}

	var plans []Plan
	var total uint64
	for _, f := range families {
		for _, m := range moves {
			p := Plan{Move: m, Family: f, Size: f.Size(), Strategy: Computed}
			if p.Size <= b.cfg.denseLimit {
				p.Strategy = Dense
				p.Bytes = uint64(p.Size) * entryBytes(p.Size)
			}
			total += p.Bytes
			plans = append(plans, p)
		}
	}
	if total > b.cfg.memoryLimit {
		return nil, fmt.Errorf("%w: %d bytes planned, limit %d", ErrMemoryBudget, total, b.cfg.memoryLimit)
	}
	return plans, nil
}

// entryBytes picks the narrowest storage that holds every coordinate below size.
func entryBytes(size uint32) uint64 {
	if size <= 1<<16 {
		return 2
	}
	return 4
}

// Build produces every planned table. The returned Set is complete; no
// table is visible before all of them are filled.
func (b *Builder) Build(ctx context.Context) (*Set, error) {
	plans, err := b.Plan()
	if err != nil {
		return nil, err
	}
	families, _ := b.families()
	moves, _ := b.moves()

	set := newSet(b.cfg.variant, moves, families)
	start := time.Now()
	for i, p := range plans {
		t, err := b.buildTable(ctx, p, i+1, len(plans))
		if err != nil {
			return nil, err
		}
		set.put(t)
	}

	b.cfg.logger.WithFields(logrus.Fields{
		"tables":   len(plans),
		"variant":  b.cfg.variant.String(),
		"workers":  b.cfg.workers,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Info("transition tables built")
	return set, nil
}

// BuildTable produces a single table using the builder's strategy rules.
func (b *Builder) BuildTable(ctx context.Context, move types.Move, family cube.Family) (Table, error) {
	if !family.Valid() {
		return nil, fmt.Errorf("%w: %d", cube.ErrUnknownFamily, int(family))
	}
	p := Plan{Move: move, Family: family, Size: family.Size(), Strategy: Computed}
	if p.Size <= b.cfg.denseLimit {
		p.Strategy = Dense
		p.Bytes = uint64(p.Size) * entryBytes(p.Size)
		if p.Bytes > b.cfg.memoryLimit {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrMemoryBudget, p.Bytes, b.cfg.memoryLimit)
		}
	}
	return b.buildTable(ctx, p, 1, 1)
}

func (b *Builder) buildTable(ctx context.Context, p Plan, index, count int) (Table, error) {
	m, err := cube.MoveFor(p.Move)
	if err != nil {
		return nil, err
	}
	log := b.cfg.logger.WithFields(logrus.Fields{
		"move":     p.Move.Notation(),
		"family":   p.Family.String(),
		"strategy": p.Strategy.String(),
		"entries":  p.Size,
	})

	if p.Strategy == Computed {
		log.Debug("transition table computed on demand")
		if b.cfg.progress != nil {
			b.cfg.progress(Progress{
				Move:     p.Move,
				Family:   p.Family,
				Strategy: Computed,
				Done:     uint64(p.Size),
				Total:    uint64(p.Size),
				Table:    index,
				Tables:   count,
			})
		}
		return &computedTable{move: p.Move, m: m, family: p.Family}, nil
	}

	var (
		mu   sync.Mutex
		done uint64
	)
	report := func(n uint64) {
		mu.Lock()
		defer mu.Unlock()
		done += n
		if b.cfg.progress != nil {
			b.cfg.progress(Progress{
				Move:     p.Move,
				Family:   p.Family,
				Strategy: Dense,
				Done:     done,
				Total:    uint64(p.Size),
				Table:    index,
				Tables:   count,
			})
		}
	}

	start := time.Now()
	var t Table
	if entryBytes(p.Size) == 2 {
		t, err = fillDense[uint16](ctx, b.cfg, p, m, report)
	} else {
		t, err = fillDense[uint32](ctx, b.cfg, p, m, report)
	}
	if err != nil {
		return nil, fmt.Errorf("building %s/%s: %w", p.Move, p.Family, err)
	}
	log.WithField("duration", time.Since(start).Round(time.Microsecond).String()).Debug("transition table built")
	return t, nil
}

func fillDense[T entry](ctx context.Context, cfg *config, p Plan, m cube.Move, report func(uint64)) (*denseTable[T], error) {
	next := make([]T, p.Size)
	err := runChunks(ctx, cfg.workers, 0, uint64(p.Size), uint64(cfg.chunkSize), func(lo, hi uint64) error {
		for c := lo; c < hi; c++ {
			n, err := cube.StepCoordinate(p.Family, uint32(c), m)
			if err != nil {
				return err
			}
			next[c] = T(n)
		}
		report(hi - lo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &denseTable[T]{move: p.Move, family: p.Family, next: next}, nil
}

// Stream enumerates the whole domain of one (move, family) pair in ascending
// coordinate order and hands successors to fn in consecutive slices. Chunks
// are computed in parallel; at most workers x chunk size entries are held at
// once, whatever the domain size, and never more than the memory limit
// allows. fn must not retain the slice.
func (b *Builder) Stream(ctx context.Context, move types.Move, family cube.Family, fn func(start uint32, next []uint32) error) error {
	if !family.Valid() {
		return fmt.Errorf("%w: %d", cube.ErrUnknownFamily, int(family))
	}
	m, err := cube.MoveFor(move)
	if err != nil {
		return err
	}

	chunk := uint64(b.cfg.chunkSize)
	window := uint64(b.cfg.workers) * chunk
	if limit := b.cfg.memoryLimit / 4; window > limit {
		window = max(limit, 1)
	}
	size := uint64(family.Size())
	if window > size {
		window = size
	}
	buf := make([]uint32, window)

	for lo := uint64(0); lo < size; lo += window {
		hi := lo + window
		if hi > size {
			hi = size
		}
		err := runChunks(ctx, b.cfg.workers, lo, hi, chunk, func(a, z uint64) error {
			for c := a; c < z; c++ {
				n, err := cube.StepCoordinate(family, uint32(c), m)
				if err != nil {
					return err
				}
				buf[c-lo] = n
			}
			return nil
		})
		if err != nil {
			return err
		}
		if err := fn(uint32(lo), buf[:hi-lo]); err != nil {
			return err
		}
	}
	return nil
}

// runChunks splits [lo, hi) into chunks and runs work on them with a fixed
// pool of goroutines. Each chunk is handled by exactly one worker. The first
// error stops further dispatch and is returned after all workers exit.
func runChunks(ctx context.Context, workers int, lo, hi, chunk uint64, work func(lo, hi uint64) error) error {
	if workers < 1 {
		workers = 1
	}
	if chunk == 0 {
		chunk = DefaultChunkSize
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	jobs := make(chan uint64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range jobs {
				if failed() {
					continue
				}
				end := start + chunk
				if end > hi {
					end = hi
				}
				if err := work(start, end); err != nil {
					fail(err)
				}
			}
		}()
	}

dispatch:
	for start := lo; start < hi; start += chunk {
		if failed() {
			break
		}
		select {
		case jobs <- start:
		case <-ctx.Done():
			fail(ctx.Err())
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return firstErr
}
