package cubestate

import (
	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/notation"
)

// Coordinates are the four coordinate values of a cube state. Edge values
// are zero on the corners-only variant.
type Coordinates = cube.Coordinates

// State is an immutable explicit cubie state.
type State = cube.State

// Cube is a mutable handle over an explicit cubie state.
type Cube struct {
	variant Variant
	state   State
	history bool
	moves   []Move
}

// NewCube creates a solved cube.
func NewCube(opts ...Option) *Cube {
	cfg := newConfig(opts)
	return &Cube{
		variant: cfg.variant,
		state:   cube.New(cfg.variant),
		history: cfg.moveHistory,
	}
}

// Apply applies moves in order. On error the cube is unchanged.
func (c *Cube) Apply(moves ...Move) error {
	next, err := c.state.ApplySequence(moves)
	if err != nil {
		return err
	}
	c.state = next
	if c.history {
		c.moves = append(c.moves, moves...)
	}
	return nil
}

// ApplyNotation parses algorithm notation and applies it.
func (c *Cube) ApplyNotation(s string) error {
	moves, err := notation.Parse(s)
	if err != nil {
		return err
	}
	return c.Apply(moves...)
}

// Reset returns the cube to solved and clears the history.
func (c *Cube) Reset() {
	c.state = cube.New(c.variant)
	c.moves = nil
}

// IsSolved reports whether the cube is solved.
func (c *Cube) IsSolved() bool {
	return c.state.IsSolved()
}

// Coordinates returns the coordinates of the current state.
func (c *Cube) Coordinates() Coordinates {
	return c.state.Coordinates()
}

// State returns the current explicit state.
func (c *Cube) State() State {
	return c.state
}

// Variant returns the puzzle variant.
func (c *Cube) Variant() Variant {
	return c.variant
}

// Moves returns the applied moves. Empty unless WithMoveHistory is set.
func (c *Cube) Moves() []Move {
	return append([]Move(nil), c.moves...)
}

func (c *Cube) String() string {
	return c.state.String()
}

// CubeFromCoordinates returns a cube in the state the coordinates stand for.
func CubeFromCoordinates(coords Coordinates, opts ...Option) (*Cube, error) {
	c := NewCube(opts...)
	s, err := cube.FromCoordinates(c.variant, coords)
	if err != nil {
		return nil, err
	}
	c.state = s
	return c, nil
}
