package cubestate

// FastCube tracks a cube in coordinate form, stepping through transition
// tables without rebuilding explicit states.
type FastCube struct {
	tables  *Tables
	coords  Coordinates
	history bool
	moves   []Move
}

// NewFastCube creates a solved coordinate-form cube over tables.
// Only WithMoveHistory applies.
func NewFastCube(tables *Tables, opts ...Option) *FastCube {
	return &FastCube{
		tables:  tables,
		history: newConfig(opts).moveHistory,
	}
}

// Apply applies moves in order. On error the cube is unchanged.
func (c *FastCube) Apply(moves ...Move) error {
	next, err := c.tables.set.StepAll(c.coords, moves)
	if err != nil {
		return err
	}
	c.coords = next
	if c.history {
		c.moves = append(c.moves, moves...)
	}
	return nil
}

// Coordinates returns the current coordinates.
func (c *FastCube) Coordinates() Coordinates {
	return c.coords
}

// IsSolved reports whether every coordinate is zero.
func (c *FastCube) IsSolved() bool {
	return c.coords.IsZero()
}

// Reset returns the cube to solved and clears the history.
func (c *FastCube) Reset() {
	c.coords = Coordinates{}
	c.moves = nil
}

// Moves returns the applied moves. Empty unless WithMoveHistory is set.
func (c *FastCube) Moves() []Move {
	return append([]Move(nil), c.moves...)
}

// State expands the coordinates into an explicit state.
func (c *FastCube) State() (State, error) {
	cube, err := CubeFromCoordinates(c.coords, WithVariant(c.tables.Variant()))
	if err != nil {
		return State{}, err
	}
	return cube.State(), nil
}
