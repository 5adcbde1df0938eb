// Package group implements composition and inversion of permutation and
// orientation vectors, independent of any puzzle semantics.
package group

import (
	"errors"
	"fmt"
)

// Sentinel errors for the group package.
var (
	ErrLengthMismatch  = errors.New("group: length mismatch")
	ErrRadixMismatch   = errors.New("group: radix mismatch")
	ErrNotPermutation  = errors.New("group: not a permutation")
	ErrValueOutOfRange = errors.New("group: orientation value out of range")
	ErrBadRadix        = errors.New("group: radix must be at least 1")
)

// Permutation is a relabeling of the slots 0..n-1.
// p[i] names the slot whose content ends up in slot i.
type Permutation []uint8

// Identity returns the identity permutation of length n.
func Identity(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = uint8(i)
	}
	return p
}

// Len returns the number of slots.
func (p Permutation) Len() int {
	return len(p)
}

// Validate reports whether p is a bijection of {0..n-1}.
func (p Permutation) Validate() error {
	if len(p) > 256 {
		return fmt.Errorf("%w: length %d exceeds 256", ErrNotPermutation, len(p))
	}
	var seen [256]bool
	for i, v := range p {
		if int(v) >= len(p) {
			return fmt.Errorf("%w: p[%d]=%d outside 0..%d", ErrNotPermutation, i, v, len(p)-1)
		}
		if seen[v] {
			return fmt.Errorf("%w: value %d repeated", ErrNotPermutation, v)
		}
		seen[v] = true
	}
	return nil
}

// Compose returns c with c[i] = p[b[i]]: b's relabeling applied to p.
func (p Permutation) Compose(b Permutation) (Permutation, error) {
	if len(p) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(p), len(b))
	}
	c := make(Permutation, len(p))
	for i, src := range b {
		if int(src) >= len(p) {
			return nil, fmt.Errorf("%w: b[%d]=%d", ErrNotPermutation, i, src)
		}
		c[i] = p[src]
	}
	return c, nil
}

// Inverse returns q with q[p[i]] = i.
func (p Permutation) Inverse() (Permutation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	q := make(Permutation, len(p))
	for i, v := range p {
		q[v] = uint8(i)
	}
	return q, nil
}

// Equal reports whether p and b are the same arrangement.
func (p Permutation) Equal(b Permutation) bool {
	if len(p) != len(b) {
		return false
	}
	for i := range p {
		if p[i] != b[i] {
			return false
		}
	}
	return true
}

// IsIdentity reports whether p leaves every slot in place.
func (p Permutation) IsIdentity() bool {
	for i, v := range p {
		if int(v) != i {
			return false
		}
	}
	return true
}

// Parity returns 0 for an even permutation and 1 for an odd one.
// p must be valid.
func (p Permutation) Parity() int {
	var visited [256]bool
	parity := 0
	for i := range p {
		if visited[i] {
			continue
		}
		cycle := 0
		for j := i; !visited[j]; j = int(p[j]) {
			visited[j] = true
			cycle++
		}
		parity ^= (cycle - 1) & 1
	}
	return parity
}

// Clone returns an independent copy of p.
func (p Permutation) Clone() Permutation {
	return append(Permutation(nil), p...)
}

// Orientation is a vector of per-slot twist states taken modulo Radix.
type Orientation struct {
	Radix  uint8
	Values []uint8
}

// IdentityOrientation returns the all-zero orientation of length n.
func IdentityOrientation(n int, radix uint8) Orientation {
	return Orientation{Radix: radix, Values: make([]uint8, n)}
}

// Len returns the number of slots.
func (o Orientation) Len() int {
	return len(o.Values)
}

// Validate reports whether every value is below the radix.
func (o Orientation) Validate() error {
	if o.Radix == 0 {
		return ErrBadRadix
	}
	for i, v := range o.Values {
		if v >= o.Radix {
			return fmt.Errorf("%w: o[%d]=%d, radix %d", ErrValueOutOfRange, i, v, o.Radix)
		}
	}
	return nil
}

// Compose returns the elementwise sum of o and b modulo the shared radix.
func (o Orientation) Compose(b Orientation) (Orientation, error) {
	if len(o.Values) != len(b.Values) {
		return Orientation{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(o.Values), len(b.Values))
	}
	if o.Radix != b.Radix {
		return Orientation{}, fmt.Errorf("%w: %d vs %d", ErrRadixMismatch, o.Radix, b.Radix)
	}
	if o.Radix == 0 {
		return Orientation{}, ErrBadRadix
	}
	v := make([]uint8, len(o.Values))
	for i := range v {
		v[i] = uint8((int(o.Values[i]) + int(b.Values[i])) % int(o.Radix))
	}
	return Orientation{Radix: o.Radix, Values: v}, nil
}

// Inverse returns the orientation that cancels o under Compose.
func (o Orientation) Inverse() (Orientation, error) {
	if o.Radix == 0 {
		return Orientation{}, ErrBadRadix
	}
	r := int(o.Radix)
	v := make([]uint8, len(o.Values))
	for i, x := range o.Values {
		v[i] = uint8((r - int(x)%r) % r)
	}
	return Orientation{Radix: o.Radix, Values: v}, nil
}

// Sum returns the total twist modulo the radix.
func (o Orientation) Sum() int {
	if o.Radix == 0 {
		return 0
	}
	s := 0
	for _, v := range o.Values {
		s += int(v)
	}
	return s % int(o.Radix)
}

// Equal reports whether o and b have the same radix and values.
func (o Orientation) Equal(b Orientation) bool {
	if o.Radix != b.Radix || len(o.Values) != len(b.Values) {
		return false
	}
	for i := range o.Values {
		if o.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of o.
func (o Orientation) Clone() Orientation {
	return Orientation{Radix: o.Radix, Values: append([]uint8(nil), o.Values...)}
}
