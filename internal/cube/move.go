package cube

import (
	"fmt"

	"github.com/SeamusWaldron/cubestate/internal/group"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// Move is a face turn expressed as a delta: cp[i] is the slot whose piece
// moves into slot i and co[i] is the twist added on the way; ep and eo do the
// same for edges. Moves are only built by NewMove, State.ToMove and this
// package's tables, so every index is in range.
type Move struct {
	name string
	cp   [NumCorners]uint8
	co   [NumCorners]uint8
	ep   [NumEdges]uint8
	eo   [NumEdges]uint8
}

// NewMove validates and builds a move. Nil edge components default to the
// identity so corner-only moves can be expressed directly.
func NewMove(name string, cp group.Permutation, co group.Orientation, ep group.Permutation, eo group.Orientation) (Move, error) {
	s, err := FromComponents(Standard, cp, co, ep, eo)
	if err != nil {
		return Move{}, fmt.Errorf("%w %q: %v", ErrInvalidMove, name, err)
	}
	m := s.ToMove()
	m.name = name
	return m, nil
}

// Name returns the notation of the move, e.g. "R'".
func (m Move) Name() string {
	return m.name
}

// String returns the notation of the move.
func (m Move) String() string {
	return m.name
}

// CornerPermutation returns the source slot of each corner destination.
func (m Move) CornerPermutation() group.Permutation {
	return append(group.Permutation(nil), m.cp[:]...)
}

// CornerTwist returns the twist added to each corner destination.
func (m Move) CornerTwist() group.Orientation {
	return group.Orientation{Radix: CornerTwists, Values: append([]uint8(nil), m.co[:]...)}
}

// EdgePermutation returns the source slot of each edge destination.
func (m Move) EdgePermutation() group.Permutation {
	return append(group.Permutation(nil), m.ep[:]...)
}

// EdgeFlip returns the flip added to each edge destination.
func (m Move) EdgeFlip() group.Orientation {
	return group.Orientation{Radix: EdgeFlips, Values: append([]uint8(nil), m.eo[:]...)}
}

// Quarter turns, taken from ksolve's 3x3x3 definition.
var (
	baseU = Move{
		name: "U",
		cp:   [8]uint8{3, 0, 1, 2, 4, 5, 6, 7},
		ep:   [12]uint8{3, 0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11},
	}
	baseR = Move{
		name: "R",
		co:   [8]uint8{1, 0, 0, 2, 2, 0, 0, 1},
		cp:   [8]uint8{4, 1, 2, 0, 7, 5, 6, 3},
		eo:   [12]uint8{0, 0, 0, 1, 1, 0, 0, 1, 0, 0, 0, 1},
		ep:   [12]uint8{0, 1, 2, 4, 11, 5, 6, 3, 8, 9, 10, 7},
	}
	baseF = Move{
		name: "F",
		co:   [8]uint8{2, 1, 0, 0, 1, 2, 0, 0},
		cp:   [8]uint8{1, 5, 2, 3, 0, 4, 6, 7},
		ep:   [12]uint8{5, 1, 2, 3, 0, 8, 6, 7, 4, 9, 10, 11},
	}
	baseD = Move{
		name: "D",
		cp:   [8]uint8{0, 1, 2, 3, 5, 6, 7, 4},
		ep:   [12]uint8{0, 1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 8},
	}
	baseL = Move{
		name: "L",
		co:   [8]uint8{0, 2, 1, 0, 0, 1, 2, 0},
		cp:   [8]uint8{0, 2, 6, 3, 4, 1, 5, 7},
		eo:   [12]uint8{0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 0, 0},
		ep:   [12]uint8{0, 6, 2, 3, 4, 1, 9, 7, 8, 5, 10, 11},
	}
	baseB = Move{
		name: "B",
		co:   [8]uint8{0, 0, 2, 1, 0, 0, 1, 2},
		cp:   [8]uint8{0, 1, 3, 7, 4, 5, 2, 6},
		ep:   [12]uint8{0, 1, 7, 3, 4, 5, 2, 10, 8, 9, 6, 11},
	}
)

// faceOrder is the order in which MoveTokens lists faces.
var faceOrder = []types.Face{types.FaceU, types.FaceR, types.FaceF, types.FaceD, types.FaceL, types.FaceB}

var (
	// moveTable holds all 18 face turns indexed by types.Move.Token.
	moveTable [types.NumTokens]Move
	// moveTokens lists quarter turns, then half turns, then inverse turns.
	moveTokens []types.Move
)

func init() {
	bases := map[types.Face]Move{
		types.FaceU: baseU,
		types.FaceR: baseR,
		types.FaceF: baseF,
		types.FaceD: baseD,
		types.FaceL: baseL,
		types.FaceB: baseB,
	}

	for _, turn := range []types.Turn{types.TurnCW, types.Turn180, types.TurnCCW} {
		for _, face := range faceOrder {
			tm := types.Move{Face: face, Turn: turn}
			m := derive(bases[face], turn.QuarterTurns())
			m.name = tm.Notation()
			mustValidate(m)
			moveTable[tm.Token()] = m
			moveTokens = append(moveTokens, tm)
		}
	}
}

// derive applies a quarter turn q times to the solved cube and freezes the
// result, so half and inverse turns cannot drift from their quarter turn.
func derive(quarter Move, q int) Move {
	s := New(Standard)
	for i := 0; i < q; i++ {
		s = s.Apply(quarter)
	}
	return s.ToMove()
}

func mustValidate(m Move) {
	if _, err := FromComponents(Standard, m.cp[:], group.Orientation{Radix: CornerTwists, Values: m.co[:]},
		m.ep[:], group.Orientation{Radix: EdgeFlips, Values: m.eo[:]}); err != nil {
		panic(fmt.Sprintf("cube: malformed move %s: %v", m.name, err))
	}
	twist, flip := 0, 0
	for _, v := range m.co {
		twist += int(v)
	}
	for _, v := range m.eo {
		flip += int(v)
	}
	if twist%CornerTwists != 0 || flip%EdgeFlips != 0 {
		panic(fmt.Sprintf("cube: move %s breaks the orientation law", m.name))
	}
}

// MoveFor returns the face turn named by a token.
func MoveFor(tm types.Move) (Move, error) {
	if !tm.Valid() {
		return Move{}, fmt.Errorf("%w: %+v", ErrUnknownMove, tm)
	}
	return moveTable[tm.Token()], nil
}

// Lookup returns the face turn for a raw token in [0, types.NumTokens).
func Lookup(token uint8) (Move, error) {
	tm := types.MoveFromToken(token)
	if !tm.Valid() {
		return Move{}, fmt.Errorf("%w: token %d", ErrUnknownMove, token)
	}
	return moveTable[tm.Token()], nil
}

// MoveTokens returns the 18 legal face turns in a fixed order:
// U R F D L B, then U2 ... B2, then U' ... B'.
func MoveTokens() []types.Move {
	return append([]types.Move(nil), moveTokens...)
}

// ApplySequence applies a token sequence, as produced by a notation parser.
func (s State) ApplySequence(seq []types.Move) (State, error) {
	for _, tm := range seq {
		m, err := MoveFor(tm)
		if err != nil {
			return State{}, err
		}
		s = s.Apply(m)
	}
	return s, nil
}
