package movetable

import (
	"context"
	"fmt"

	"github.com/SeamusWaldron/cubestate/internal/coord"
	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/group"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

// eachSample calls fn for samples coordinates spread evenly over [0, size),
// always including the last one. samples == 0 means every coordinate.
func eachSample(size, samples uint32, fn func(c uint32) error) error {
	if size == 0 {
		return nil
	}
	if samples == 0 || samples >= size {
		for c := uint32(0); c < size; c++ {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
	step := size / samples
	for i := uint32(0); i < samples; i++ {
		if err := fn(i * step); err != nil {
			return err
		}
	}
	return fn(size - 1)
}

// VerifyInverse checks that following a move's table and then its inverse
// move's table returns every sampled coordinate to itself.
func VerifyInverse(s *Set, move types.Move, family cube.Family, samples uint32) error {
	t, err := s.Table(move, family)
	if err != nil {
		return err
	}
	inv, err := s.Table(move.Inverse(), family)
	if err != nil {
		return err
	}
	return eachSample(t.Size(), samples, func(c uint32) error {
		if back := inv.Next(t.Next(c)); back != c {
			return fmt.Errorf("%w: %s then %s maps %s=%d to %d", ErrInconsistent, move, move.Inverse(), family, c, back)
		}
		return nil
	})
}

// VerifyDirect checks a table against direct computation on explicit states.
func VerifyDirect(s *Set, move types.Move, family cube.Family, samples uint32) error {
	t, err := s.Table(move, family)
	if err != nil {
		return err
	}
	m, err := cube.MoveFor(move)
	if err != nil {
		return err
	}
	return eachSample(t.Size(), samples, func(c uint32) error {
		want, err := cube.StepCoordinate(family, c, m)
		if err != nil {
			return err
		}
		if got := t.Next(c); got != want {
			return fmt.Errorf("%w: %s on %s=%d gives %d, direct %d", ErrInconsistent, move, family, c, got, want)
		}
		return nil
	})
}

// VerifyInvariants checks that every sampled transition respects the cube
// laws: orientation families keep their total twist or flip, permutation
// families change parity exactly when the move's own permutation is odd.
func VerifyInvariants(s *Set, move types.Move, family cube.Family, samples uint32) error {
	t, err := s.Table(move, family)
	if err != nil {
		return err
	}
	m, err := cube.MoveFor(move)
	if err != nil {
		return err
	}

	switch family {
	case cube.CornerOrientation, cube.EdgeOrientation:
		n, radix := cube.NumCorners, uint8(cube.CornerTwists)
		if family == cube.EdgeOrientation {
			n, radix = cube.NumEdges, cube.EdgeFlips
		}
		before := make([]uint8, n)
		after := make([]uint8, n)
		return eachSample(t.Size(), samples, func(c uint32) error {
			next := t.Next(c)
			if err := coord.UnrankOrientationInto(before, radix, uint64(c)); err != nil {
				return err
			}
			if err := coord.UnrankOrientationInto(after, radix, uint64(next)); err != nil {
				return err
			}
			sb := group.Orientation{Radix: radix, Values: before}.Sum()
			sa := group.Orientation{Radix: radix, Values: after}.Sum()
			if sb != sa {
				return fmt.Errorf("%w: %s changes %s sum from %d to %d at %d", ErrInconsistent, move, family, sb, sa, c)
			}
			return nil
		})

	case cube.CornerPermutation, cube.EdgePermutation:
		n, flip := cube.NumCorners, m.CornerPermutation().Parity()
		if family == cube.EdgePermutation {
			n, flip = cube.NumEdges, m.EdgePermutation().Parity()
		}
		before := make(group.Permutation, n)
		after := make(group.Permutation, n)
		return eachSample(t.Size(), samples, func(c uint32) error {
			next := t.Next(c)
			if err := coord.UnrankPermutationInto(before, uint64(c)); err != nil {
				return err
			}
			if err := coord.UnrankPermutationInto(after, uint64(next)); err != nil {
				return err
			}
			if before.Parity()^flip != after.Parity() {
				return fmt.Errorf("%w: %s breaks %s parity at %d", ErrInconsistent, move, family, c)
			}
			return nil
		})
	}
	return fmt.Errorf("%w: %d", cube.ErrUnknownFamily, int(family))
}

// VerifySet runs every check over every table of s. Computed tables are
// always sampled since their domain is too large to walk exhaustively here.
func VerifySet(ctx context.Context, s *Set, samples uint32) error {
	checks := []func(*Set, types.Move, cube.Family, uint32) error{
		VerifyInverse,
		VerifyDirect,
		VerifyInvariants,
	}
	for _, t := range s.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := samples
		if t.Strategy() == Computed && (n == 0 || n > computedSamples) {
			n = computedSamples
		}
		for _, check := range checks {
			if err := check(s, t.Move(), t.Family(), n); err != nil {
				return err
			}
		}
	}
	return nil
}

const computedSamples = 4096
