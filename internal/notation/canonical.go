// Package notation converts between algorithm notation and face-turn tokens.
package notation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SeamusWaldron/cubestate/internal/group"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// ErrInvalidNotation is returned for tokens that are not a move, rotation,
// slice or wide move.
var ErrInvalidNotation = errors.New("notation: invalid move notation")

// ParseMove parses a single face turn in standard notation.
// Examples: R, R', R2, U, U', U2
func ParseMove(s string) (types.Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return types.Move{}, fmt.Errorf("%w: empty move", ErrInvalidNotation)
	}

	face, ok := faceLetter(rune(s[0]))
	if !ok {
		return types.Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	q, n := parseSuffix(s[1:])
	if n != len(s)-1 {
		return types.Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	turn, _ := types.TurnFromQuarters(q)
	return types.Move{Face: face, Turn: turn}, nil
}

func faceLetter(r rune) (types.Face, bool) {
	switch r {
	case 'R':
		return types.FaceR, true
	case 'L':
		return types.FaceL, true
	case 'U':
		return types.FaceU, true
	case 'D':
		return types.FaceD, true
	case 'F':
		return types.FaceF, true
	case 'B':
		return types.FaceB, true
	}
	return "", false
}

// parseSuffix reads an optional turn suffix and returns the clockwise
// quarter-turn count and the number of bytes consumed.
func parseSuffix(s string) (quarters, n int) {
	switch {
	case strings.HasPrefix(s, "2'"):
		return 2, 2
	case strings.HasPrefix(s, "2"):
		return 2, 1
	case strings.HasPrefix(s, "'"), strings.HasPrefix(s, "`"):
		return 3, 1
	case strings.HasPrefix(s, "’"):
		return 3, len("’")
	}
	return 1, 0
}

// Parse parses an algorithm into face turns. Besides face turns it accepts
// whole-cube rotations (x y z), slice moves (M E S) and wide moves
// (r l u d f b), each with an optional ' or 2 suffix. Rotations emit no
// token; they change which physical face later letters refer to. Tokens may
// be separated by whitespace or written back to back.
func Parse(alg string) ([]types.Move, error) {
	frame := group.Identity(numFaces)
	var moves []types.Move

	for i := 0; i < len(alg); {
		r, size := utf8.DecodeRuneInString(alg[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		start := i
		q, n := parseSuffix(alg[i+size:])
		i += size + n
		token := alg[start:i]

		if face, ok := faceLetter(r); ok {
			moves = append(moves, turn(frame, face, q))
			continue
		}
		if rot, ok := quarterRotations[r]; ok {
			frame = rotate(frame, rot, q)
			continue
		}
		steps, ok := compounds[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidNotation, token, start)
		}
		for _, st := range steps {
			if st.rotation != 0 {
				frame = rotate(frame, quarterRotations[st.rotation], st.quarters*q)
				continue
			}
			moves = append(moves, turn(frame, st.face, st.quarters*q))
		}
	}
	return moves, nil
}

// MustParse is like Parse but panics on invalid notation. It is meant for
// package-level algorithm literals.
func MustParse(alg string) []types.Move {
	moves, err := Parse(alg)
	if err != nil {
		panic(err)
	}
	return moves
}

// Format formats moves as a space-separated string.
func Format(moves []types.Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}
