package cubestate

import (
	"context"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/movetable"
)

// Family identifies one of the four coordinate families.
type Family = cube.Family

const (
	CornerOrientation = cube.CornerOrientation
	CornerPermutation = cube.CornerPermutation
	EdgeOrientation   = cube.EdgeOrientation
	EdgePermutation   = cube.EdgePermutation
)

// Tables holds one transition table per (move, family) pair of a variant.
type Tables struct {
	set     *movetable.Set
	builder *movetable.Builder
}

// BuildTables builds the transition tables for every legal face turn.
// The build stops early when ctx is cancelled.
func BuildTables(ctx context.Context, opts ...Option) (*Tables, error) {
	b := movetable.NewBuilder(newConfig(opts).builderOptions()...)
	set, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	return &Tables{set: set, builder: b}, nil
}

// Variant returns the variant the tables were built for.
func (t *Tables) Variant() Variant {
	return t.set.Variant()
}

// Step returns the coordinates after applying m.
func (t *Tables) Step(c Coordinates, m Move) (Coordinates, error) {
	return t.set.Step(c, m)
}

// Next returns the successor of one coordinate under m.
func (t *Tables) Next(m Move, f Family, c uint32) (uint32, error) {
	table, err := t.set.Table(m, f)
	if err != nil {
		return 0, err
	}
	return movetable.Lookup(table, c)
}

// Bytes returns the memory held by dense tables.
func (t *Tables) Bytes() uint64 {
	return t.set.Bytes()
}

// Checksum returns the hex SHA3-256 digest of one table. Computed tables are
// streamed in chunks.
func (t *Tables) Checksum(ctx context.Context, m Move, f Family) (string, error) {
	table, err := t.set.Table(m, f)
	if err != nil {
		return "", err
	}
	if table.Strategy() == movetable.Dense {
		return movetable.Checksum(table), nil
	}
	return t.builder.ChecksumStream(ctx, m, f)
}

// Verify checks every table against direct computation, inverse moves and
// the orientation and parity laws. samples bounds the coordinates checked per
// table; zero checks every coordinate of dense tables.
func (t *Tables) Verify(ctx context.Context, samples uint32) error {
	return movetable.VerifySet(ctx, t.set, samples)
}
