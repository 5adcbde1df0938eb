package notation

import (
	"fmt"
	"math"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/cubestate/internal/group"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// Faces in frame order. A frame is a permutation over these indices: frame[i]
// is the physical face that the letter for face i currently refers to.
const (
	faceU = iota
	faceR
	faceF
	faceD
	faceL
	faceB
	numFaces
)

var frameFaces = [numFaces]types.Face{types.FaceU, types.FaceR, types.FaceF, types.FaceD, types.FaceL, types.FaceB}

/*
        U +y   F +z
         |   /
         |  /
         | /
 L -x ---+--- +x R
        /|
       / |
   B -z  -y D
*/
var normals = [numFaces]quaternion.Vec3{
	faceU: {X: 0, Y: 1, Z: 0},
	faceR: {X: 1, Y: 0, Z: 0},
	faceF: {X: 0, Y: 0, Z: 1},
	faceD: {X: 0, Y: -1, Z: 0},
	faceL: {X: -1, Y: 0, Z: 0},
	faceB: {X: 0, Y: 0, Z: -1},
}

// quarterRotations holds the frame update for one clockwise quarter of each
// whole-cube rotation: x turns like R, y like U, z like F.
var quarterRotations = map[rune]group.Permutation{
	'x': rotationFrame(faceR, faceF, faceU),
	'y': rotationFrame(faceU, faceF, faceL),
	'z': rotationFrame(faceF, faceU, faceR),
}

// rotationFrame derives the frame update of the quarter rotation that keeps
// the axis face in place and carries the from face onto the to face. It
// records for every face which face ends up in its place.
func rotationFrame(axis, from, to int) group.Permutation {
	for _, angle := range []float64{math.Pi / 2, -math.Pi / 2} {
		for _, q := range []quaternion.Quaternion{
			quaternion.FromEuler(angle, 0, 0),
			quaternion.FromEuler(0, angle, 0),
			quaternion.FromEuler(0, 0, angle),
		} {
			if nearestFace(normals[axis].Rotate(q)) != axis || nearestFace(normals[from].Rotate(q)) != to {
				continue
			}
			rot := make(group.Permutation, numFaces)
			for j, n := range normals {
				rot[nearestFace(n.Rotate(q))] = uint8(j)
			}
			if err := rot.Validate(); err != nil {
				panic(fmt.Sprintf("notation: rotation frame: %v", err))
			}
			return rot
		}
	}
	panic(fmt.Sprintf("notation: no quarter rotation about %s carries %s onto %s",
		frameFaces[axis], frameFaces[from], frameFaces[to]))
}

func nearestFace(v quaternion.Vec3) int {
	x, y, z := math.Round(v.X), math.Round(v.Y), math.Round(v.Z)
	for i, n := range normals {
		if n.X == x && n.Y == y && n.Z == z {
			return i
		}
	}
	return -1
}

// rotate applies a quarter rotation q times to a frame.
func rotate(frame, rot group.Permutation, q int) group.Permutation {
	for i := 0; i < mod4(q); i++ {
		frame, _ = frame.Compose(rot)
	}
	return frame
}

// turn maps a letter through the frame to a physical face turn.
func turn(frame group.Permutation, letter types.Face, q int) types.Move {
	idx := 0
	for i, f := range frameFaces {
		if f == letter {
			idx = i
			break
		}
	}
	t, _ := types.TurnFromQuarters(mod4(q))
	return types.Move{Face: frameFaces[frame[idx]], Turn: t}
}

func mod4(q int) int {
	return ((q % 4) + 4) % 4
}

// step is one component of a slice or wide move: a face turn or, when
// rotation is set, a whole-cube rotation. quarters is scaled by the suffix.
type step struct {
	face     types.Face
	rotation rune
	quarters int
}

// compounds rewrites slice and wide moves as face turns plus a rotation.
var compounds = map[rune][]step{
	'M': {{face: types.FaceR, quarters: 1}, {face: types.FaceL, quarters: 3}, {rotation: 'x', quarters: 3}},
	'E': {{face: types.FaceU, quarters: 1}, {face: types.FaceD, quarters: 3}, {rotation: 'y', quarters: 3}},
	'S': {{face: types.FaceF, quarters: 3}, {face: types.FaceB, quarters: 1}, {rotation: 'z', quarters: 1}},
	'r': {{face: types.FaceL, quarters: 1}, {rotation: 'x', quarters: 1}},
	'l': {{face: types.FaceR, quarters: 1}, {rotation: 'x', quarters: 3}},
	'u': {{face: types.FaceD, quarters: 1}, {rotation: 'y', quarters: 1}},
	'd': {{face: types.FaceU, quarters: 1}, {rotation: 'y', quarters: 3}},
	'f': {{face: types.FaceB, quarters: 1}, {rotation: 'z', quarters: 1}},
	'b': {{face: types.FaceF, quarters: 1}, {rotation: 'z', quarters: 3}},
}
