// Package coord maps permutations and orientation vectors to dense integer
// coordinates and back.
//
// Permutations are ranked by their Lehmer code, orientations by their
// mixed-radix value with the first slot most significant. Both mappings are
// bijections onto [0, n!) and [0, radix^n) respectively.
package coord

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/SeamusWaldron/cubestate/internal/group"
)

// MaxPermutationLength is the longest permutation whose rank fits in a uint64.
const MaxPermutationLength = 20

// Sentinel errors for the coord package.
var (
	ErrCoordinateOutOfRange = errors.New("coord: coordinate out of range")
	ErrLengthOutOfRange     = errors.New("coord: length out of range")
)

var factorials [MaxPermutationLength + 1]uint64

func init() {
	factorials[0] = 1
	for i := 1; i <= MaxPermutationLength; i++ {
		factorials[i] = factorials[i-1] * uint64(i)
	}
}

// Factorial returns n!. It panics if n is negative or above MaxPermutationLength.
func Factorial(n int) uint64 {
	if n < 0 || n > MaxPermutationLength {
		panic(fmt.Sprintf("coord: factorial of %d out of range", n))
	}
	return factorials[n]
}

// RankPermutation returns the Lehmer rank of p: for each position, the number
// of later positions holding a smaller value, accumulated left to right with
// decreasing radices. p must hold at most MaxPermutationLength entries.
func RankPermutation(p group.Permutation) uint64 {
	n := len(p)
	var t uint64
	for i := 0; i < n-1; i++ {
		t *= uint64(n - i)
		for j := i + 1; j < n; j++ {
			if p[i] > p[j] {
				t++
			}
		}
	}
	return t
}

// UnrankPermutation returns the permutation of length n whose rank is idx.
func UnrankPermutation(idx uint64, n int) (group.Permutation, error) {
	if n < 0 || n > MaxPermutationLength {
		return nil, fmt.Errorf("%w: permutation length %d", ErrLengthOutOfRange, n)
	}
	p := make(group.Permutation, n)
	if err := UnrankPermutationInto(p, idx); err != nil {
		return nil, err
	}
	return p, nil
}

// UnrankPermutationInto decodes idx into dst, whose length selects n.
// dst is overwritten entirely.
func UnrankPermutationInto(dst []uint8, idx uint64) error {
	n := len(dst)
	if n > MaxPermutationLength {
		return fmt.Errorf("%w: permutation length %d", ErrLengthOutOfRange, n)
	}
	if idx >= factorials[n] {
		return fmt.Errorf("%w: %d >= %d!", ErrCoordinateOutOfRange, idx, n)
	}
	if n == 0 {
		return nil
	}

	dst[n-1] = 0
	for i := n - 2; i >= 0; i-- {
		radix := uint64(n - i)
		dst[i] = uint8(idx % radix)
		idx /= radix
		for j := i + 1; j < n; j++ {
			if dst[j] >= dst[i] {
				dst[j]++
			}
		}
	}
	return nil
}

// OrientationSize returns radix^n, the number of orientation vectors of
// length n.
func OrientationSize(n int, radix uint8) (uint64, error) {
	if n < 0 || radix == 0 {
		return 0, fmt.Errorf("%w: length %d radix %d", ErrLengthOutOfRange, n, radix)
	}
	size := uint64(1)
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(size, uint64(radix))
		if hi != 0 {
			return 0, fmt.Errorf("%w: %d^%d overflows", ErrLengthOutOfRange, radix, n)
		}
		size = lo
	}
	return size, nil
}

// RankOrientation returns the mixed-radix value of o, first slot most
// significant.
func RankOrientation(o group.Orientation) uint64 {
	var t uint64
	for _, v := range o.Values {
		t = t*uint64(o.Radix) + uint64(v)
	}
	return t
}

// UnrankOrientation returns the orientation vector of length n over radix
// whose rank is idx.
func UnrankOrientation(idx uint64, n int, radix uint8) (group.Orientation, error) {
	o := group.IdentityOrientation(n, radix)
	if err := UnrankOrientationInto(o.Values, radix, idx); err != nil {
		return group.Orientation{}, err
	}
	return o, nil
}

// UnrankOrientationInto decodes idx into dst, filling from the last slot
// backwards.
func UnrankOrientationInto(dst []uint8, radix uint8, idx uint64) error {
	size, err := OrientationSize(len(dst), radix)
	if err != nil {
		return err
	}
	if idx >= size {
		return fmt.Errorf("%w: %d >= %d^%d", ErrCoordinateOutOfRange, idx, radix, len(dst))
	}
	r := uint64(radix)
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = uint8(idx % r)
		idx /= r
	}
	return nil
}
