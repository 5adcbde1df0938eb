package movetable

import (
	"fmt"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// Set is a complete collection of tables produced by one Build. It is
// read-only and safe for concurrent use.
type Set struct {
	variant  cube.Variant
	moves    []types.Move
	families []cube.Family
	tables   [types.NumTokens][cube.NumFamilies]Table
}

func newSet(v cube.Variant, moves []types.Move, families []cube.Family) *Set {
	return &Set{
		variant:  v,
		moves:    append([]types.Move(nil), moves...),
		families: append([]cube.Family(nil), families...),
	}
}

func (s *Set) put(t Table) {
	s.tables[t.Move().Token()][t.Family()] = t
}

// Variant returns the variant the set was built for.
func (s *Set) Variant() cube.Variant { return s.variant }

// Moves returns the moves the set covers, in build order.
func (s *Set) Moves() []types.Move { return append([]types.Move(nil), s.moves...) }

// Families returns the families the set covers.
func (s *Set) Families() []cube.Family { return append([]cube.Family(nil), s.families...) }

// Table returns the table for one (move, family) pair.
func (s *Set) Table(m types.Move, f cube.Family) (Table, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %+v", cube.ErrUnknownMove, m)
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", cube.ErrUnknownFamily, int(f))
	}
	t := s.tables[m.Token()][f]
	if t == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrTableMissing, m, f)
	}
	return t, nil
}

// Tables returns every table in family-major, move-minor order.
func (s *Set) Tables() []Table {
	out := make([]Table, 0, len(s.moves)*len(s.families))
	for _, f := range s.families {
		for _, m := range s.moves {
			if t := s.tables[m.Token()][f]; t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// Bytes returns the memory held by all dense tables.
func (s *Set) Bytes() uint64 {
	var n uint64
	for _, t := range s.Tables() {
		n += Bytes(t)
	}
	return n
}

// Step advances every family the set covers by one move. Families outside
// the set are copied unchanged.
func (s *Set) Step(c cube.Coordinates, m types.Move) (cube.Coordinates, error) {
	for _, f := range s.families {
		t, err := s.Table(m, f)
		if err != nil {
			return cube.Coordinates{}, err
		}
		next, err := Lookup(t, c.Get(f))
		if err != nil {
			return cube.Coordinates{}, err
		}
		c = c.With(f, next)
	}
	return c, nil
}

// StepAll applies a sequence of moves with Step.
func (s *Set) StepAll(c cube.Coordinates, moves []types.Move) (cube.Coordinates, error) {
	for i, m := range moves {
		var err error
		c, err = s.Step(c, m)
		if err != nil {
			return cube.Coordinates{}, fmt.Errorf("move %d (%s): %w", i, m, err)
		}
	}
	return c, nil
}
