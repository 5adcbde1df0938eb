// Package types contains the move tokens exchanged between notation parsers,
// the cube model and search code.
package types

// Face represents a cube face in standard notation.
type Face string

const (
	FaceR Face = "R" // Right
	FaceL Face = "L" // Left
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
)

// Faces lists the six faces in token order.
var Faces = []Face{FaceR, FaceL, FaceU, FaceD, FaceF, FaceB}

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	TurnCW  Turn = 1  // Clockwise quarter turn
	TurnCCW Turn = -1 // Counter-clockwise quarter turn
	Turn180 Turn = 2  // 180 degree turn (half turn)
)

// NumTokens is the number of distinct face turns: six faces by three amounts.
const NumTokens = 18

// Move represents a single face turn.
type Move struct {
	Face Face `json:"face"`
	Turn Turn `json:"turn"`
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, U, U', U2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case TurnCCW:
		suffix = "'"
	case Turn180:
		suffix = "2"
	}
	return string(m.Face) + suffix
}

// String returns the notation string.
func (m Move) String() string {
	return m.Notation()
}

// Valid reports whether the move names a known face and turn amount.
func (m Move) Valid() bool {
	switch m.Face {
	case FaceR, FaceL, FaceU, FaceD, FaceF, FaceB:
	default:
		return false
	}
	switch m.Turn {
	case TurnCW, TurnCCW, Turn180:
		return true
	}
	return false
}

// QuarterTurns returns the clockwise quarter-turn count: 1, 2 or 3.
func (t Turn) QuarterTurns() int {
	switch t {
	case TurnCCW:
		return 3
	case Turn180:
		return 2
	default:
		return 1
	}
}

// TurnFromQuarters converts a clockwise quarter-turn count to a Turn.
// Multiples of four have no Turn and report false.
func TurnFromQuarters(q int) (Turn, bool) {
	switch ((q % 4) + 4) % 4 {
	case 1:
		return TurnCW, true
	case 2:
		return Turn180, true
	case 3:
		return TurnCCW, true
	}
	return 0, false
}

// Inverse returns the inverse of this move.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
	// Turn180 is its own inverse
	}
	return inv
}

// IsCancellation returns true if the other move cancels this move.
func (m Move) IsCancellation(other Move) bool {
	if m.Face != other.Face {
		return false
	}
	return m.Turn == -other.Turn ||
		(m.Turn == Turn180 && other.Turn == Turn180)
}

// CanMerge returns true if two adjacent same-face moves can be merged.
func (m Move) CanMerge(other Move) bool {
	return m.Face == other.Face
}

// Merge combines two same-face moves into one (or returns nil if they cancel).
// Returns nil if the moves cannot be merged or if they cancel out completely.
func (m Move) Merge(other Move) *Move {
	if m.Face != other.Face {
		return nil
	}

	turn, ok := TurnFromQuarters(m.Turn.QuarterTurns() + other.Turn.QuarterTurns())
	if !ok {
		return nil // Moves cancel out
	}
	return &Move{Face: m.Face, Turn: turn}
}

// Token encodes the move as a single byte usable as an array index.
// Encoding: face*3 + turn_code where:
//   - face: R=0, L=1, U=2, D=3, F=4, B=5
//   - turn_code: CCW=0, CW=1, 180=2
func (m Move) Token() uint8 {
	var faceCode uint8
	switch m.Face {
	case FaceR:
		faceCode = 0
	case FaceL:
		faceCode = 1
	case FaceU:
		faceCode = 2
	case FaceD:
		faceCode = 3
	case FaceF:
		faceCode = 4
	case FaceB:
		faceCode = 5
	}

	var turnCode uint8
	switch m.Turn {
	case TurnCCW:
		turnCode = 0
	case TurnCW:
		turnCode = 1
	case Turn180:
		turnCode = 2
	}

	return faceCode*3 + turnCode
}

// MoveFromToken decodes a token back into a Move. Tokens at or above
// NumTokens decode to the zero Move, which is not Valid.
func MoveFromToken(token uint8) Move {
	if token >= NumTokens {
		return Move{}
	}

	var turn Turn
	switch token % 3 {
	case 0:
		turn = TurnCCW
	case 1:
		turn = TurnCW
	case 2:
		turn = Turn180
	}

	return Move{Face: Faces[token/3], Turn: turn}
}
