package cubestate

import (
	"github.com/SeamusWaldron/cubestate/internal/notation"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// Move represents a single face turn.
type Move = types.Move

// Face represents a cube face in standard notation.
type Face = types.Face

// Turn represents the direction and magnitude of a face turn.
type Turn = types.Turn

const (
	FaceR = types.FaceR // Right
	FaceL = types.FaceL // Left
	FaceU = types.FaceU // Up
	FaceD = types.FaceD // Down
	FaceF = types.FaceF // Front
	FaceB = types.FaceB // Back
)

const (
	CW     = types.TurnCW  // Clockwise (90 degrees)
	CCW    = types.TurnCCW // Counter-clockwise (90 degrees)
	Double = types.Turn180 // Half turn (180 degrees)
)

// ParseMove parses a single face turn.
// Examples: R, R', R2, U, U', U2
func ParseMove(s string) (Move, error) {
	return notation.ParseMove(s)
}

// ParseMoves parses algorithm notation into face turns. Rotations, slice
// moves and wide moves are rewritten into face turns. Unknown tokens are an
// error wrapping ErrInvalidNotation.
// Example: "R U R' U'"
func ParseMoves(s string) ([]Move, error) {
	return notation.Parse(s)
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	return notation.Format(moves)
}

// Optimize cancels and merges adjacent turns of the same face until no
// further reduction applies.
// Example: R R R' U U becomes R U2.
func Optimize(moves []Move) []Move {
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.IsCancellation(m) {
				out = out[:n-1]
				continue
			}
			if last.CanMerge(m) {
				merged := last.Merge(m)
				if merged == nil {
					out = out[:n-1]
				} else {
					out[n-1] = *merged
				}
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
