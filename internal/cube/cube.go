// Package cube provides the cubie-level model of a Rubik's cube: explicit
// permutation and orientation state, face-turn moves, and the four
// coordinate families used for table-driven search.
//
// Corner slots follow the order URF, ULF, ULB, URB, DRF, DLF, DLB, DRB.
// Edge slots follow UF, UL, UB, UR, FR, FL, BL, BR, DF, DL, DB, DR.
package cube

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubestate/internal/group"
)

const (
	NumCorners = 8
	NumEdges   = 12

	CornerTwists = 3 // orientation states per corner
	EdgeFlips    = 2 // orientation states per edge
)

// Sentinel errors for the cube package.
var (
	ErrInvalidState      = errors.New("cube: invalid state")
	ErrInvalidMove       = errors.New("cube: invalid move")
	ErrUnknownMove       = errors.New("cube: unknown move")
	ErrUnknownFamily     = errors.New("cube: unknown coordinate family")
	ErrFamilyUnavailable = errors.New("cube: coordinate family not modelled by variant")
	ErrUnknownVariant    = errors.New("cube: unknown variant")
)

// Variant selects which pieces a State models.
type Variant int

const (
	Standard    Variant = iota // corners and edges (3x3x3)
	CornersOnly                // corners only (2x2x2)
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case CornersOnly:
		return "corners"
	default:
		return "?"
	}
}

// HasEdges reports whether states of this variant carry edge pieces.
func (v Variant) HasEdges() bool {
	return v == Standard
}

// ParseVariant parses the names produced by Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "3x3", "333":
		return Standard, nil
	case "corners", "2x2", "222":
		return CornersOnly, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// State is a cube in explicit form. It is a value type: Apply and the other
// operations return new states and never modify the receiver.
type State struct {
	variant Variant
	cp      [NumCorners]uint8
	co      [NumCorners]uint8
	ep      [NumEdges]uint8
	eo      [NumEdges]uint8
}

// New returns the solved state of the given variant.
func New(v Variant) State {
	s := State{variant: v}
	for i := range s.cp {
		s.cp[i] = uint8(i)
	}
	if v.HasEdges() {
		for i := range s.ep {
			s.ep[i] = uint8(i)
		}
	}
	return s
}

// FromComponents builds a state from explicit arrays. Nil or empty components
// default to their solved value; edge components must be empty for
// CornersOnly.
func FromComponents(v Variant, cp group.Permutation, co group.Orientation, ep group.Permutation, eo group.Orientation) (State, error) {
	if v != Standard && v != CornersOnly {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	s := New(v)

	if len(cp) > 0 {
		if err := checkPermutation(cp, NumCorners, "corner permutation"); err != nil {
			return State{}, err
		}
		copy(s.cp[:], cp)
	}
	if len(co.Values) > 0 {
		if err := checkOrientation(co, NumCorners, CornerTwists, "corner orientation"); err != nil {
			return State{}, err
		}
		copy(s.co[:], co.Values)
	}

	if !v.HasEdges() {
		if len(ep) > 0 || len(eo.Values) > 0 {
			return State{}, fmt.Errorf("%w: edges given for %s variant", ErrFamilyUnavailable, v)
		}
		return s, nil
	}
	if len(ep) > 0 {
		if err := checkPermutation(ep, NumEdges, "edge permutation"); err != nil {
			return State{}, err
		}
		copy(s.ep[:], ep)
	}
	if len(eo.Values) > 0 {
		if err := checkOrientation(eo, NumEdges, EdgeFlips, "edge orientation"); err != nil {
			return State{}, err
		}
		copy(s.eo[:], eo.Values)
	}
	return s, nil
}

func checkPermutation(p group.Permutation, n int, what string) error {
	if len(p) != n {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalidState, what, len(p), n)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidState, what, err)
	}
	return nil
}

func checkOrientation(o group.Orientation, n int, radix uint8, what string) error {
	if len(o.Values) != n {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalidState, what, len(o.Values), n)
	}
	if o.Radix != radix {
		return fmt.Errorf("%w: %s radix %d, want %d", ErrInvalidState, what, o.Radix, radix)
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidState, what, err)
	}
	return nil
}

// Variant returns the piece set this state models.
func (s State) Variant() Variant {
	return s.variant
}

// CornerPermutation returns a copy of the corner permutation.
func (s State) CornerPermutation() group.Permutation {
	return append(group.Permutation(nil), s.cp[:]...)
}

// CornerOrientation returns a copy of the corner orientation (mod 3).
func (s State) CornerOrientation() group.Orientation {
	return group.Orientation{Radix: CornerTwists, Values: append([]uint8(nil), s.co[:]...)}
}

// EdgePermutation returns a copy of the edge permutation, or nil for
// CornersOnly states.
func (s State) EdgePermutation() group.Permutation {
	if !s.variant.HasEdges() {
		return nil
	}
	return append(group.Permutation(nil), s.ep[:]...)
}

// EdgeOrientation returns a copy of the edge orientation (mod 2). It is
// empty for CornersOnly states.
func (s State) EdgeOrientation() group.Orientation {
	if !s.variant.HasEdges() {
		return group.Orientation{Radix: EdgeFlips}
	}
	return group.Orientation{Radix: EdgeFlips, Values: append([]uint8(nil), s.eo[:]...)}
}

// Apply returns the state reached by turning m. For every destination slot i
// the piece is taken from slot m.cp[i] of s and its orientation is the
// source orientation plus m.co[i]. Edges follow the same rule mod 2.
func (s State) Apply(m Move) State {
	next := State{variant: s.variant}
	for i := 0; i < NumCorners; i++ {
		src := m.cp[i]
		next.cp[i] = s.cp[src]
		next.co[i] = (s.co[src] + m.co[i]) % CornerTwists
	}
	if s.variant.HasEdges() {
		for i := 0; i < NumEdges; i++ {
			src := m.ep[i]
			next.ep[i] = s.ep[src]
			next.eo[i] = (s.eo[src] + m.eo[i]) % EdgeFlips
		}
	}
	return next
}

// ApplyAll applies moves in order.
func (s State) ApplyAll(moves ...Move) State {
	for _, m := range moves {
		s = s.Apply(m)
	}
	return s
}

// ToMove freezes the state as a move: applying the result to the solved
// state reproduces s. CornersOnly states yield moves that leave edges alone.
func (s State) ToMove() Move {
	m := Move{cp: s.cp, co: s.co, ep: s.ep, eo: s.eo}
	if !s.variant.HasEdges() {
		for i := range m.ep {
			m.ep[i] = uint8(i)
			m.eo[i] = 0
		}
	}
	return m
}

// Equal reports whether both states model the same pieces in the same places.
func (s State) Equal(o State) bool {
	return s == o
}

// IsSolved reports whether s is the solved state of its variant.
func (s State) IsSolved() bool {
	return s == New(s.variant)
}

// CornerTwist returns the corner orientation sum mod 3. It is 0 for every
// state reachable by face turns.
func (s State) CornerTwist() int {
	sum := 0
	for _, v := range s.co {
		sum += int(v)
	}
	return sum % CornerTwists
}

// EdgeFlip returns the edge orientation sum mod 2. It is 0 for every state
// reachable by face turns.
func (s State) EdgeFlip() int {
	sum := 0
	for _, v := range s.eo {
		sum += int(v)
	}
	return sum % EdgeFlips
}

// PermutationParityMatches reports whether corner and edge permutations have
// equal parity, which holds for every reachable Standard state.
func (s State) PermutationParityMatches() bool {
	if !s.variant.HasEdges() {
		return true
	}
	return group.Permutation(s.cp[:]).Parity() == group.Permutation(s.ep[:]).Parity()
}

// String returns the explicit arrays, e.g. "cp=[0 1 ...] co=[...] ep=[...] eo=[...]".
func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cp=%v co=%v", s.cp, s.co)
	if s.variant.HasEdges() {
		fmt.Fprintf(&b, " ep=%v eo=%v", s.ep, s.eo)
	}
	return b.String()
}
