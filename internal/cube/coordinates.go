package cube

import (
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubestate/internal/coord"
	"github.com/SeamusWaldron/cubestate/internal/group"
)

// Family identifies one of the four coordinate families.
type Family int

const (
	CornerOrientation Family = iota
	CornerPermutation
	EdgeOrientation
	EdgePermutation
)

// NumFamilies is the number of coordinate families.
const NumFamilies = 4

// Families lists every coordinate family.
var Families = []Family{CornerOrientation, CornerPermutation, EdgeOrientation, EdgePermutation}

// Domain sizes of each family.
const (
	CornerOrientationSize = 6561      // 3^8
	CornerPermutationSize = 40320     // 8!
	EdgeOrientationSize   = 4096      // 2^12
	EdgePermutationSize   = 479001600 // 12!
)

func (f Family) String() string {
	switch f {
	case CornerOrientation:
		return "co"
	case CornerPermutation:
		return "cp"
	case EdgeOrientation:
		return "eo"
	case EdgePermutation:
		return "ep"
	default:
		return "?"
	}
}

// DisplayName returns a human-readable family name.
func (f Family) DisplayName() string {
	switch f {
	case CornerOrientation:
		return "Corner orientation"
	case CornerPermutation:
		return "Corner permutation"
	case EdgeOrientation:
		return "Edge orientation"
	case EdgePermutation:
		return "Edge permutation"
	default:
		return "Unknown"
	}
}

// ParseFamily accepts the short names produced by String.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "co":
		return CornerOrientation, nil
	case "cp":
		return CornerPermutation, nil
	case "eo":
		return EdgeOrientation, nil
	case "ep":
		return EdgePermutation, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Size returns the number of coordinate values in the family's domain.
func (f Family) Size() uint32 {
	switch f {
	case CornerOrientation:
		return CornerOrientationSize
	case CornerPermutation:
		return CornerPermutationSize
	case EdgeOrientation:
		return EdgeOrientationSize
	case EdgePermutation:
		return EdgePermutationSize
	default:
		return 0
	}
}

// IsEdge reports whether the family describes edge pieces.
func (f Family) IsEdge() bool {
	return f == EdgeOrientation || f == EdgePermutation
}

// Valid reports whether f is one of the four families.
func (f Family) Valid() bool {
	return f >= CornerOrientation && f <= EdgePermutation
}

// Families returns the coordinate families a variant models.
func (v Variant) Families() []Family {
	if v.HasEdges() {
		return append([]Family(nil), Families...)
	}
	return []Family{CornerOrientation, CornerPermutation}
}

// Coordinates is the compact form of a state. The solved state is all zero.
type Coordinates struct {
	CornerOrientation uint32
	CornerPermutation uint32
	EdgeOrientation   uint32
	EdgePermutation   uint32
}

// Get returns the coordinate of one family.
func (c Coordinates) Get(f Family) uint32 {
	switch f {
	case CornerOrientation:
		return c.CornerOrientation
	case CornerPermutation:
		return c.CornerPermutation
	case EdgeOrientation:
		return c.EdgeOrientation
	case EdgePermutation:
		return c.EdgePermutation
	default:
		return 0
	}
}

// With returns a copy of c with one family replaced.
func (c Coordinates) With(f Family, v uint32) Coordinates {
	switch f {
	case CornerOrientation:
		c.CornerOrientation = v
	case CornerPermutation:
		c.CornerPermutation = v
	case EdgeOrientation:
		c.EdgeOrientation = v
	case EdgePermutation:
		c.EdgePermutation = v
	}
	return c
}

// IsZero reports whether every coordinate is zero, i.e. the solved state.
func (c Coordinates) IsZero() bool {
	return c == Coordinates{}
}

func (c Coordinates) String() string {
	return fmt.Sprintf("co=%d cp=%d eo=%d ep=%d",
		c.CornerOrientation, c.CornerPermutation, c.EdgeOrientation, c.EdgePermutation)
}

// Coordinates ranks s into its compact form. Edge coordinates are zero for
// CornersOnly states.
func (s State) Coordinates() Coordinates {
	c := Coordinates{
		CornerOrientation: s.coordinate(CornerOrientation),
		CornerPermutation: s.coordinate(CornerPermutation),
	}
	if s.variant.HasEdges() {
		c.EdgeOrientation = s.coordinate(EdgeOrientation)
		c.EdgePermutation = s.coordinate(EdgePermutation)
	}
	return c
}

// Coordinate ranks a single family of s.
func (s State) Coordinate(f Family) (uint32, error) {
	if !f.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFamily, int(f))
	}
	if f.IsEdge() && !s.variant.HasEdges() {
		return 0, fmt.Errorf("%w: %s on %s", ErrFamilyUnavailable, f, s.variant)
	}
	return s.coordinate(f), nil
}

func (s State) coordinate(f Family) uint32 {
	switch f {
	case CornerOrientation:
		return uint32(coord.RankOrientation(group.Orientation{Radix: CornerTwists, Values: s.co[:]}))
	case CornerPermutation:
		return uint32(coord.RankPermutation(s.cp[:]))
	case EdgeOrientation:
		return uint32(coord.RankOrientation(group.Orientation{Radix: EdgeFlips, Values: s.eo[:]}))
	case EdgePermutation:
		return uint32(coord.RankPermutation(s.ep[:]))
	}
	return 0
}

// FromCoordinates unranks c into an explicit state. Edge coordinates must be
// zero for CornersOnly.
func FromCoordinates(v Variant, c Coordinates) (State, error) {
	if v != Standard && v != CornersOnly {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	s := New(v)
	for _, f := range Families {
		value := c.Get(f)
		if f.IsEdge() && !v.HasEdges() {
			if value != 0 {
				return State{}, fmt.Errorf("%w: %s=%d on %s", ErrFamilyUnavailable, f, value, v)
			}
			continue
		}
		if err := s.setCoordinate(f, value); err != nil {
			return State{}, err
		}
	}
	return s, nil
}

func (s *State) setCoordinate(f Family, value uint32) error {
	var err error
	switch f {
	case CornerOrientation:
		err = coord.UnrankOrientationInto(s.co[:], CornerTwists, uint64(value))
	case CornerPermutation:
		err = coord.UnrankPermutationInto(s.cp[:], uint64(value))
	case EdgeOrientation:
		err = coord.UnrankOrientationInto(s.eo[:], EdgeFlips, uint64(value))
	case EdgePermutation:
		err = coord.UnrankPermutationInto(s.ep[:], uint64(value))
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownFamily, int(f))
	}
	if err != nil {
		return fmt.Errorf("%s coordinate %d: %w", f, value, err)
	}
	return nil
}

// StepCoordinate computes the successor of one coordinate under m directly:
// it unranks a state in which only family f differs from solved, applies m
// and ranks the result. Tables are checked against this function.
func StepCoordinate(f Family, c uint32, m Move) (uint32, error) {
	v := CornersOnly
	if f.IsEdge() {
		v = Standard
	}
	s := New(v)
	if err := s.setCoordinate(f, c); err != nil {
		return 0, err
	}
	return s.Apply(m).coordinate(f), nil
}

// StepCoordinates advances all families the variant models by one move.
func StepCoordinates(v Variant, c Coordinates, m Move) (Coordinates, error) {
	s, err := FromCoordinates(v, c)
	if err != nil {
		return Coordinates{}, err
	}
	return s.Apply(m).Coordinates(), nil
}
