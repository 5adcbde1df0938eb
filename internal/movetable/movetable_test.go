package movetable

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/pkg/types"
)

var (
	moveR     = types.Move{Face: types.FaceR, Turn: types.TurnCW}
	moveU     = types.Move{Face: types.FaceU, Turn: types.TurnCW}
	moveF2    = types.Move{Face: types.FaceF, Turn: types.Turn180}
	moveDPrim = types.Move{Face: types.FaceD, Turn: types.TurnCCW}
)

func buildSet(t *testing.T, opts ...Option) *Set {
	t.Helper()
	set, err := NewBuilder(opts...).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return set
}

func TestPlanDefaultStandard(t *testing.T) {
	plans, err := NewBuilder().Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plans) != 4*types.NumTokens {
		t.Fatalf("expected %d plans, got %d", 4*types.NumTokens, len(plans))
	}
	for _, p := range plans {
		want := Dense
		if p.Family == cube.EdgePermutation {
			want = Computed
		}
		if p.Strategy != want {
			t.Errorf("%s/%s: expected %s, got %s", p.Move, p.Family, want, p.Strategy)
		}
		if p.Size != p.Family.Size() {
			t.Errorf("%s/%s: size %d", p.Move, p.Family, p.Size)
		}
	}
}

func TestPlanMemoryBudget(t *testing.T) {
	_, err := NewBuilder(WithDenseLimit(cube.EdgePermutationSize)).Plan()
	if !errors.Is(err, ErrMemoryBudget) {
		t.Fatalf("expected ErrMemoryBudget, got %v", err)
	}

	_, err = NewBuilder(WithFamilies(cube.CornerPermutation), WithMemoryLimit(1000)).Plan()
	if !errors.Is(err, ErrMemoryBudget) {
		t.Fatalf("expected ErrMemoryBudget for tiny limit, got %v", err)
	}
}

func TestPlanRejectsEdgeFamilyOnCornersOnly(t *testing.T) {
	_, err := NewBuilder(WithVariant(cube.CornersOnly), WithFamilies(cube.EdgeOrientation)).Plan()
	if !errors.Is(err, cube.ErrFamilyUnavailable) {
		t.Fatalf("expected ErrFamilyUnavailable, got %v", err)
	}
}

func TestBuildCornersOnly(t *testing.T) {
	set := buildSet(t, WithVariant(cube.CornersOnly))

	if got := len(set.Tables()); got != 2*types.NumTokens {
		t.Fatalf("expected %d tables, got %d", 2*types.NumTokens, got)
	}
	if _, err := set.Table(moveR, cube.EdgeOrientation); !errors.Is(err, ErrTableMissing) {
		t.Errorf("expected ErrTableMissing, got %v", err)
	}
	if set.Variant() != cube.CornersOnly {
		t.Errorf("variant = %s", set.Variant())
	}
}

func TestDenseTablesUseNarrowStorage(t *testing.T) {
	set := buildSet(t, WithFamilies(cube.CornerOrientation, cube.CornerPermutation), WithMoves(moveR))

	co, _ := set.Table(moveR, cube.CornerOrientation)
	if got := Bytes(co); got != cube.CornerOrientationSize*2 {
		t.Errorf("co table holds %d bytes", got)
	}
	cp, _ := set.Table(moveR, cube.CornerPermutation)
	if got := Bytes(cp); got != cube.CornerPermutationSize*2 {
		t.Errorf("cp table holds %d bytes", got)
	}
}

func TestSetVerifiesExhaustively(t *testing.T) {
	set := buildSet(t, WithWorkers(4), WithChunkSize(1000))
	if err := VerifySet(context.Background(), set, 0); err != nil {
		t.Fatalf("VerifySet: %v", err)
	}
}

func TestTransitionsFromSolved(t *testing.T) {
	set := buildSet(t, WithVariant(cube.CornersOnly))
	for _, tbl := range set.Tables() {
		next := tbl.Next(0)
		// Every face turn cycles four corners.
		if tbl.Family() == cube.CornerPermutation && next == 0 {
			t.Errorf("%s/%s: solved permutation unchanged", tbl.Move(), tbl.Family())
		}
	}
	tbl, _ := set.Table(moveU, cube.CornerPermutation)
	if got := tbl.Next(0); got != 15120 {
		t.Errorf("U from solved cp: expected 15120, got %d", got)
	}
	tbl, _ = set.Table(moveU, cube.CornerOrientation)
	if got := tbl.Next(0); got != 0 {
		t.Errorf("U from solved co: expected 0, got %d", got)
	}
}

func TestStepMatchesExplicitState(t *testing.T) {
	set := buildSet(t)
	tokens := cube.MoveTokens()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		seq := make([]types.Move, 25)
		for i := range seq {
			seq[i] = tokens[rng.Intn(len(tokens))]
		}
		state, err := cube.New(cube.Standard).ApplySequence(seq)
		if err != nil {
			t.Fatalf("ApplySequence: %v", err)
		}
		got, err := set.StepAll(cube.Coordinates{}, seq)
		if err != nil {
			t.Fatalf("StepAll: %v", err)
		}
		if want := state.Coordinates(); got != want {
			t.Fatalf("trial %d: tables give %s, state gives %s", trial, got, want)
		}
	}
}

func TestRThenRPrimeStepsBackToZero(t *testing.T) {
	set := buildSet(t)
	c, err := set.StepAll(cube.Coordinates{}, []types.Move{moveR, moveR.Inverse()})
	if err != nil {
		t.Fatalf("StepAll: %v", err)
	}
	if !c.IsZero() {
		t.Errorf("expected zero coordinates, got %s", c)
	}
}

func TestChecksumDeterministicAcrossWorkers(t *testing.T) {
	a := buildSet(t, WithWorkers(1), WithFamilies(cube.CornerPermutation, cube.EdgeOrientation))
	b := buildSet(t, WithWorkers(8), WithChunkSize(333), WithFamilies(cube.CornerPermutation, cube.EdgeOrientation))

	ta, tb := a.Tables(), b.Tables()
	if len(ta) != len(tb) {
		t.Fatalf("table counts differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if Checksum(ta[i]) != Checksum(tb[i]) {
			t.Errorf("%s/%s: checksums differ", ta[i].Move(), ta[i].Family())
		}
	}
}

func TestChecksumIndependentOfStrategy(t *testing.T) {
	dense := buildSet(t, WithFamilies(cube.CornerOrientation), WithMoves(moveF2))
	computed := buildSet(t, WithFamilies(cube.CornerOrientation), WithMoves(moveF2), WithDenseLimit(0))

	td, _ := dense.Table(moveF2, cube.CornerOrientation)
	tc, _ := computed.Table(moveF2, cube.CornerOrientation)
	if td.Strategy() != Dense || tc.Strategy() != Computed {
		t.Fatalf("strategies: %s, %s", td.Strategy(), tc.Strategy())
	}
	if Checksum(td) != Checksum(tc) {
		t.Error("dense and computed checksums differ")
	}

	stream, err := NewBuilder(WithWorkers(3), WithChunkSize(100)).ChecksumStream(context.Background(), moveF2, cube.CornerOrientation)
	if err != nil {
		t.Fatalf("ChecksumStream: %v", err)
	}
	if stream != Checksum(td) {
		t.Error("streamed checksum differs")
	}
}

func TestChecksumDiffersBetweenMoves(t *testing.T) {
	set := buildSet(t, WithFamilies(cube.CornerPermutation), WithMoves(moveR, moveU))
	r, _ := set.Table(moveR, cube.CornerPermutation)
	u, _ := set.Table(moveU, cube.CornerPermutation)
	if Checksum(r) == Checksum(u) {
		t.Error("R and U share a checksum")
	}
}

func TestStreamDeliversInOrder(t *testing.T) {
	m, _ := cube.MoveFor(moveDPrim)
	b := NewBuilder(WithWorkers(3), WithChunkSize(1000))

	var expected uint32
	calls := 0
	err := b.Stream(context.Background(), moveDPrim, cube.CornerPermutation, func(start uint32, next []uint32) error {
		calls++
		if start != expected {
			t.Fatalf("expected window at %d, got %d", expected, start)
		}
		if len(next) > 3000 {
			t.Fatalf("window of %d entries exceeds workers x chunk", len(next))
		}
		for i := 0; i < len(next); i += 97 {
			want, _ := cube.StepCoordinate(cube.CornerPermutation, start+uint32(i), m)
			if next[i] != want {
				t.Fatalf("coordinate %d: got %d, want %d", start+uint32(i), next[i], want)
			}
		}
		expected += uint32(len(next))
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if expected != cube.CornerPermutationSize {
		t.Errorf("streamed %d entries", expected)
	}
	if calls != 14 {
		t.Errorf("expected 14 windows, got %d", calls)
	}
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := NewBuilder(WithWorkers(2), WithChunkSize(500)).Stream(context.Background(), moveR, cube.CornerOrientation, func(uint32, []uint32) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestStreamEdgePermutationWindowBounded(t *testing.T) {
	// Only the first window is consumed; the domain is never materialized.
	windows := 0
	stop := errors.New("enough")
	err := NewBuilder(WithWorkers(2), WithChunkSize(256)).Stream(context.Background(), moveR, cube.EdgePermutation, func(start uint32, next []uint32) error {
		windows++
		if len(next) != 512 {
			t.Errorf("window length %d", len(next))
		}
		if start >= 1024 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop, got %v", err)
	}
	if windows != 3 {
		t.Errorf("expected 3 windows, got %d", windows)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(WithWorkers(1), WithChunkSize(1), WithFamilies(cube.CornerPermutation)).Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProgressReportsCompletion(t *testing.T) {
	var last Progress
	calls := 0
	buildSet(t,
		WithFamilies(cube.EdgeOrientation),
		WithMoves(moveR, moveU),
		WithChunkSize(512),
		WithProgress(func(p Progress) {
			calls++
			if p.Done > p.Total {
				t.Errorf("done %d exceeds total %d", p.Done, p.Total)
			}
			last = p
		}),
	)
	if calls != 2*cube.EdgeOrientationSize/512 {
		t.Errorf("expected %d progress calls, got %d", 2*cube.EdgeOrientationSize/512, calls)
	}
	if last.Table != 2 || last.Tables != 2 || last.Done != last.Total {
		t.Errorf("final progress %+v", last)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	set := buildSet(t, WithFamilies(cube.EdgeOrientation), WithMoves(moveR))
	tbl, _ := set.Table(moveR, cube.EdgeOrientation)
	if _, err := Lookup(tbl, cube.EdgeOrientationSize); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := set.Step(cube.Coordinates{EdgeOrientation: cube.EdgeOrientationSize}, moveR); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Step: expected ErrOutOfRange, got %v", err)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	set := buildSet(t, WithFamilies(cube.CornerOrientation), WithMoves(moveR, moveR.Inverse()))
	good, _ := set.Table(moveR, cube.CornerOrientation)
	d := good.(*denseTable[uint16])

	bad := &denseTable[uint16]{move: d.move, family: d.family, next: append([]uint16(nil), d.next...)}
	bad.next[10], bad.next[11] = bad.next[11], bad.next[10]
	set.put(bad)

	if err := VerifyInverse(set, moveR, cube.CornerOrientation, 0); !errors.Is(err, ErrInconsistent) {
		t.Errorf("VerifyInverse: expected ErrInconsistent, got %v", err)
	}
	if err := VerifyDirect(set, moveR, cube.CornerOrientation, 0); !errors.Is(err, ErrInconsistent) {
		t.Errorf("VerifyDirect: expected ErrInconsistent, got %v", err)
	}
}

func TestEachSample(t *testing.T) {
	var seen []uint32
	_ = eachSample(100, 4, func(c uint32) error {
		seen = append(seen, c)
		return nil
	})
	want := []uint32{0, 25, 50, 75, 99}
	if len(seen) != len(want) {
		t.Fatalf("got %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("got %v, want %v", seen, want)
		}
	}
}

func TestDuplicateFamiliesAndMovesCollapse(t *testing.T) {
	b := NewBuilder(
		WithFamilies(cube.CornerPermutation, cube.CornerPermutation),
		WithMoves(moveR, moveU, moveR),
	)
	plans, err := b.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	set, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := len(set.Tables()); n != 2 {
		t.Errorf("expected 2 tables, got %d", n)
	}
	if fams := set.Families(); len(fams) != 1 || fams[0] != cube.CornerPermutation {
		t.Errorf("Families() = %v", fams)
	}
	if moves := set.Moves(); len(moves) != 2 || moves[0] != moveR || moves[1] != moveU {
		t.Errorf("Moves() = %v", moves)
	}

	m, _ := cube.MoveFor(moveR)
	want := cube.New(cube.Standard).Apply(m).Coordinates().CornerPermutation
	got, err := set.Step(cube.Coordinates{}, moveR)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got.CornerPermutation != want {
		t.Errorf("Step(R).cp = %d, want %d", got.CornerPermutation, want)
	}
}

func TestStreamWindowRespectsMemoryLimit(t *testing.T) {
	const limit = 4 * 300
	b := NewBuilder(WithWorkers(4), WithChunkSize(1<<14), WithMemoryLimit(limit))
	var total, widest int
	err := b.Stream(context.Background(), moveR, cube.CornerOrientation, func(start uint32, next []uint32) error {
		if int(start) != total {
			t.Errorf("window starts at %d, want %d", start, total)
		}
		total += len(next)
		widest = max(widest, len(next))
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if total != cube.CornerOrientationSize {
		t.Errorf("streamed %d entries, want %d", total, cube.CornerOrientationSize)
	}
	if widest > limit/4 {
		t.Errorf("widest window %d exceeds %d entries", widest, limit/4)
	}
}

func TestProgressReportsComputedTables(t *testing.T) {
	var reports []Progress
	buildSet(t,
		WithFamilies(cube.EdgeOrientation),
		WithMoves(moveR),
		WithDenseLimit(1000),
		WithProgress(func(p Progress) { reports = append(reports, p) }),
	)
	if len(reports) != 1 {
		t.Fatalf("expected 1 progress report, got %d", len(reports))
	}
	p := reports[0]
	if p.Strategy != Computed || p.Done != p.Total || p.Total != cube.EdgeOrientationSize || p.Table != 1 || p.Tables != 1 {
		t.Errorf("computed table progress %+v", p)
	}
}
