package cubestate

import (
	"context"
	"errors"
	"testing"
)

func TestNewCubeIsSolved(t *testing.T) {
	c := NewCube()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if !c.Coordinates().IsZero() {
		t.Errorf("solved coordinates = %v, want zero", c.Coordinates())
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := NewCube()
	if err := c.Apply(R); err != nil {
		t.Fatal(err)
	}
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
}

func TestRRRR_ReturnsToSolved_AllFaces(t *testing.T) {
	for _, m := range []Move{R, L, U, D, F, B} {
		c := NewCube()
		if err := c.Apply(m, m, m, m); err != nil {
			t.Fatal(err)
		}
		if !c.IsSolved() {
			t.Errorf("%v x 4 should return to solved, got %v", m, c)
		}
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	c := NewCube()
	for i := 0; i < 6; i++ {
		if err := c.Apply(SexyMove...); err != nil {
			t.Fatal(err)
		}
	}
	if !c.IsSolved() {
		t.Errorf("Sexy move x 6 should return to solved, got %v", c)
	}
}

func TestTPerm(t *testing.T) {
	c := NewCube()
	if err := c.Apply(TPerm...); err != nil {
		t.Fatal(err)
	}

	got := c.Coordinates()
	want := Coordinates{CornerPermutation: 15960, EdgePermutation: 7620480}
	if got != want {
		t.Errorf("T-perm coordinates = %v, want %v", got, want)
	}

	if err := c.Apply(TPerm...); err != nil {
		t.Fatal(err)
	}
	if !c.IsSolved() {
		t.Error("T-perm twice should return to solved")
	}
}

func TestSuperflip(t *testing.T) {
	c := NewCube()
	if err := c.Apply(Superflip...); err != nil {
		t.Fatal(err)
	}
	want := Coordinates{EdgeOrientation: 4095}
	if got := c.Coordinates(); got != want {
		t.Errorf("superflip coordinates = %v, want %v", got, want)
	}
}

func TestApplyNotation(t *testing.T) {
	a := NewCube()
	if err := a.ApplyNotation("R U R' U'"); err != nil {
		t.Fatal(err)
	}
	b := NewCube()
	if err := b.Apply(SexyMove...); err != nil {
		t.Fatal(err)
	}
	if a.Coordinates() != b.Coordinates() {
		t.Errorf("notation and predefined moves disagree: %v vs %v", a.Coordinates(), b.Coordinates())
	}
}

func TestApplyNotationRotationInvariance(t *testing.T) {
	// After y the right-hand face is the old back face.
	a := NewCube()
	if err := a.ApplyNotation("y R"); err != nil {
		t.Fatal(err)
	}
	b := NewCube()
	if err := b.Apply(B); err != nil {
		t.Fatal(err)
	}
	if a.Coordinates() != b.Coordinates() {
		t.Errorf("y R = %v, want B = %v", a.Coordinates(), b.Coordinates())
	}
}

func TestApplyNotationInvalidLeavesCubeUnchanged(t *testing.T) {
	c := NewCube()
	if err := c.Apply(R); err != nil {
		t.Fatal(err)
	}
	before := c.Coordinates()

	err := c.ApplyNotation("U Q")
	if !errors.Is(err, ErrInvalidNotation) {
		t.Fatalf("expected ErrInvalidNotation, got %v", err)
	}
	if c.Coordinates() != before {
		t.Error("failed notation changed the cube")
	}
}

func TestApplyUnknownMove(t *testing.T) {
	c := NewCube()
	err := c.Apply(R, Move{Face: "Q", Turn: CW})
	if !errors.Is(err, ErrUnknownMove) {
		t.Fatalf("expected ErrUnknownMove, got %v", err)
	}
	if !c.IsSolved() {
		t.Error("failed Apply changed the cube")
	}
}

func TestMoveHistory(t *testing.T) {
	c := NewCube(WithMoveHistory(true))
	if err := c.Apply(R, U); err != nil {
		t.Fatal(err)
	}
	if got := FormatMoves(c.Moves()); got != "R U" {
		t.Errorf("history = %q, want %q", got, "R U")
	}
	c.Reset()
	if len(c.Moves()) != 0 || !c.IsSolved() {
		t.Error("Reset should clear history and state")
	}

	plain := NewCube()
	_ = plain.Apply(R)
	if len(plain.Moves()) != 0 {
		t.Error("history recorded without WithMoveHistory")
	}
}

func TestCubeFromCoordinates(t *testing.T) {
	c := NewCube()
	if err := c.Apply(TPerm...); err != nil {
		t.Fatal(err)
	}

	d, err := CubeFromCoordinates(c.Coordinates())
	if err != nil {
		t.Fatal(err)
	}
	if !d.State().Equal(c.State()) {
		t.Errorf("state from coordinates = %v, want %v", d, c)
	}

	if _, err := CubeFromCoordinates(Coordinates{EdgeOrientation: 1}, WithVariant(CornersOnly)); !errors.Is(err, ErrFamilyUnavailable) {
		t.Errorf("expected ErrFamilyUnavailable, got %v", err)
	}
}

func TestCornersOnlyCube(t *testing.T) {
	c := NewCube(WithVariant(CornersOnly))
	if err := c.Apply(R, U); err != nil {
		t.Fatal(err)
	}
	got := c.Coordinates()
	if got.EdgeOrientation != 0 || got.EdgePermutation != 0 {
		t.Errorf("corners-only cube reports edge coordinates: %v", got)
	}

	full := NewCube()
	_ = full.Apply(R, U)
	if got.CornerOrientation != full.Coordinates().CornerOrientation ||
		got.CornerPermutation != full.Coordinates().CornerPermutation {
		t.Errorf("corner coordinates differ between variants: %v vs %v", got, full.Coordinates())
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("R U2 F'")
	if err != nil {
		t.Fatal(err)
	}
	want := []Move{R, U2, FPrime}
	if len(moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(moves), len(want))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, moves[i], want[i])
		}
	}

	m, err := ParseMove("B'")
	if err != nil || m != BPrime {
		t.Errorf("ParseMove(B') = %v, %v", m, err)
	}
}

func TestOptimize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R R R' U U", "R U2"},
		{"R R'", ""},
		{"R2 R2", ""},
		{"U R R' U'", ""},
		{"R R R", "R'"},
		{"R L R", "R L R"},
		{"F2 F", "F'"},
	}
	for _, tt := range tests {
		moves, err := ParseMoves(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := FormatMoves(Optimize(moves)); got != tt.want {
			t.Errorf("Optimize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func buildTables(t *testing.T, opts ...Option) *Tables {
	t.Helper()
	tables, err := BuildTables(context.Background(), append([]Option{WithWorkers(2)}, opts...)...)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}
	return tables
}

func TestFastCubeMatchesCube(t *testing.T) {
	tables := buildTables(t)

	for _, alg := range [][]Move{SexyMove, TPerm, Sune, Superflip} {
		c := NewCube()
		if err := c.Apply(alg...); err != nil {
			t.Fatal(err)
		}
		f := NewFastCube(tables)
		if err := f.Apply(alg...); err != nil {
			t.Fatal(err)
		}
		if f.Coordinates() != c.Coordinates() {
			t.Errorf("%s: fast %v, explicit %v", FormatMoves(alg), f.Coordinates(), c.Coordinates())
		}

		s, err := f.State()
		if err != nil {
			t.Fatal(err)
		}
		if !s.Equal(c.State()) {
			t.Errorf("%s: expanded state %v, want %v", FormatMoves(alg), s, c.State())
		}
	}
}

func TestFastCubeResetAndSolved(t *testing.T) {
	tables := buildTables(t, WithVariant(CornersOnly))

	f := NewFastCube(tables, WithMoveHistory(true))
	if !f.IsSolved() {
		t.Error("new FastCube should be solved")
	}
	if err := f.Apply(R, U, RPrime); err != nil {
		t.Fatal(err)
	}
	if f.IsSolved() {
		t.Error("FastCube should not be solved after R U R'")
	}
	if len(f.Moves()) != 3 {
		t.Errorf("history has %d moves, want 3", len(f.Moves()))
	}
	if err := f.Apply(R, UPrime, RPrime); err != nil {
		t.Fatal(err)
	}
	if !f.IsSolved() {
		t.Error("R U R' R U' R' should return to solved")
	}

	_ = f.Apply(F)
	f.Reset()
	if !f.IsSolved() || len(f.Moves()) != 0 {
		t.Error("Reset should clear state and history")
	}
}

func TestTablesNextAndChecksum(t *testing.T) {
	tables := buildTables(t, WithVariant(CornersOnly))

	next, err := tables.Next(U, CornerPermutation, 0)
	if err != nil {
		t.Fatal(err)
	}
	if next != 15120 {
		t.Errorf("U from solved cp = %d, want 15120", next)
	}

	if _, err := tables.Next(U, CornerPermutation, 40320); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := tables.Next(U, EdgeOrientation, 0); !errors.Is(err, ErrTableMissing) {
		t.Errorf("expected ErrTableMissing, got %v", err)
	}

	ctx := context.Background()
	a, err := tables.Checksum(ctx, R, CornerOrientation)
	if err != nil {
		t.Fatal(err)
	}
	other := buildTables(t, WithVariant(CornersOnly), WithWorkers(1))
	b, err := other.Checksum(ctx, R, CornerOrientation)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || len(a) != 64 {
		t.Errorf("checksums differ or malformed: %q vs %q", a, b)
	}
}

func TestTablesVerify(t *testing.T) {
	tables := buildTables(t, WithVariant(CornersOnly))
	if err := tables.Verify(context.Background(), 0); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
	if tables.Bytes() == 0 {
		t.Error("dense tables should hold memory")
	}
}

func TestBuildTablesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildTables(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
