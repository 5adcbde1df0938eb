// Package movetable builds transition tables that map a coordinate to its
// successor under one face turn, so search code can step between states
// without materializing cubes.
package movetable

import (
	"errors"
	"fmt"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// Sentinel errors for the movetable package.
var (
	ErrTableMissing = errors.New("movetable: table not built")
	ErrInconsistent = errors.New("movetable: table inconsistent")
	ErrOutOfRange   = errors.New("movetable: coordinate out of range")
)

// Strategy describes how a table answers lookups.
type Strategy int

const (
	Dense    Strategy = iota // array indexed by coordinate
	Computed                 // unrank, apply, rank on every lookup
)

func (s Strategy) String() string {
	switch s {
	case Dense:
		return "dense"
	case Computed:
		return "computed"
	default:
		return "?"
	}
}

// Table is a total function from coordinate to successor coordinate for one
// (move, family) pair. Next panics on coordinates at or above Size.
type Table interface {
	Move() types.Move
	Family() cube.Family
	Size() uint32
	Strategy() Strategy
	Next(c uint32) uint32
}

// entry is the storage type of a dense table.
type entry interface {
	~uint16 | ~uint32
}

type denseTable[T entry] struct {
	move   types.Move
	family cube.Family
	next   []T
}

func (t *denseTable[T]) Move() types.Move     { return t.move }
func (t *denseTable[T]) Family() cube.Family  { return t.family }
func (t *denseTable[T]) Size() uint32         { return uint32(len(t.next)) }
func (t *denseTable[T]) Strategy() Strategy   { return Dense }
func (t *denseTable[T]) Next(c uint32) uint32 { return uint32(t.next[c]) }

type computedTable struct {
	move   types.Move
	m      cube.Move
	family cube.Family
}

func (t *computedTable) Move() types.Move    { return t.move }
func (t *computedTable) Family() cube.Family { return t.family }
func (t *computedTable) Size() uint32        { return t.family.Size() }
func (t *computedTable) Strategy() Strategy  { return Computed }

func (t *computedTable) Next(c uint32) uint32 {
	next, err := cube.StepCoordinate(t.family, c, t.m)
	if err != nil {
		panic(fmt.Sprintf("movetable: %s/%s: %v", t.move, t.family, err))
	}
	return next
}

// Lookup is Next with a bounds check instead of a panic.
func Lookup(t Table, c uint32) (uint32, error) {
	if c >= t.Size() {
		return 0, fmt.Errorf("%w: %s=%d, domain %d", ErrOutOfRange, t.Family(), c, t.Size())
	}
	return t.Next(c), nil
}

// Bytes returns the memory a table holds for its entries.
func Bytes(t Table) uint64 {
	switch d := t.(type) {
	case *denseTable[uint16]:
		return uint64(len(d.next)) * 2
	case *denseTable[uint32]:
		return uint64(len(d.next)) * 4
	}
	return 0
}
