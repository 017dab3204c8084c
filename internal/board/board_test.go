package board

import (
	"errors"
	"image"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestInitializeProducesPermutation(t *testing.T) {
	for size := MinSize; size <= MaxSize; size++ {
		for seed := uint64(1); seed <= 5; seed++ {
			b, err := Initialize(size, seeded(seed), ParityEven)
			if err != nil {
				t.Fatalf("size %d: %v", size, err)
			}
			got := b.Tiles()
			if len(got) != size*size {
				t.Fatalf("size %d: expected %d tiles, got %d", size, size*size, len(got))
			}
			sort.Ints(got)
			if diff := cmp.Diff(identity(size*size), got); diff != "" {
				t.Fatalf("size %d: not a permutation (-want +got):\n%s", size, diff)
			}
		}
	}
}

func TestInitializeNeverStartsSolved(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		b, err := Initialize(2, seeded(seed), ParityAny)
		if err != nil {
			t.Fatal(err)
		}
		if b.IsSolved() {
			t.Fatalf("seed %d produced a solved board", seed)
		}
	}
}

func TestInitializeEvenParity(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		b, err := Initialize(3, seeded(seed), ParityEven)
		if err != nil {
			t.Fatal(err)
		}
		if inv := Inversions(b.Tiles()); inv%2 != 0 {
			t.Fatalf("seed %d: expected even inversions, got %d", seed, inv)
		}
	}
}

func TestInitializeRejectsBadSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, MaxSize + 1} {
		if _, err := Initialize(size, seeded(1), ParityEven); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestInitializeIsDeterministicForSeed(t *testing.T) {
	a, _ := Initialize(4, seeded(42), ParityEven)
	b, _ := Initialize(4, seeded(42), ParityEven)
	if diff := cmp.Diff(a.Tiles(), b.Tiles()); diff != "" {
		t.Fatalf("same seed gave different boards:\n%s", diff)
	}
}

func TestSwapSelfIsNoop(t *testing.T) {
	b, err := FromTiles([]int{1, 0, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	before := b.Tiles()
	changed, isSolved, err := b.Swap(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if changed || isSolved {
		t.Fatalf("expected no-op, got changed=%v solved=%v", changed, isSolved)
	}
	if diff := cmp.Diff(before, b.Tiles()); diff != "" {
		t.Fatalf("self swap mutated board:\n%s", diff)
	}
}

func TestSwapSelfOnSolvedBoardDoesNotSignal(t *testing.T) {
	b, _ := FromTiles([]int{0, 1, 2, 3})
	_, isSolved, _ := b.Swap(2, 2)
	if isSolved {
		t.Fatalf("self swap must not report solved")
	}
}

func TestSwapTwiceRestores(t *testing.T) {
	b, err := Initialize(3, seeded(7), ParityEven)
	if err != nil {
		t.Fatal(err)
	}
	original := b.Tiles()
	for from := 0; from < b.Len(); from++ {
		for to := 0; to < b.Len(); to++ {
			if from == to {
				continue
			}
			if _, _, err := b.Swap(from, to); err != nil {
				t.Fatal(err)
			}
			if _, _, err := b.Swap(from, to); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(original, b.Tiles()); diff != "" {
				t.Fatalf("swap(%d,%d) twice did not restore:\n%s", from, to, diff)
			}
		}
	}
}

func TestSwapRejectsOutOfRange(t *testing.T) {
	b, _ := FromTiles([]int{3, 2, 1, 0})
	if _, _, err := b.Swap(0, 4); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if _, _, err := b.Swap(-1, 0); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestIsSolvedOnlyForIdentity(t *testing.T) {
	tests := []struct {
		tiles []int
		want  bool
	}{
		{tiles: []int{0, 1, 2, 3}, want: true},
		{tiles: []int{1, 0, 2, 3}, want: false},
		{tiles: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, want: true},
		{tiles: []int{0, 1, 2, 3, 4, 5, 6, 8, 7}, want: false},
	}
	for _, tt := range tests {
		b, err := FromTiles(tt.tiles)
		if err != nil {
			t.Fatal(err)
		}
		if got := b.IsSolved(); got != tt.want {
			t.Fatalf("%v: got %v want %v", tt.tiles, got, tt.want)
		}
	}
}

func TestNearSolvedScenario(t *testing.T) {
	b, err := FromTiles([]int{1, 0, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	changed, isSolved, err := b.Swap(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !changed || !isSolved {
		t.Fatalf("expected solving swap, got changed=%v solved=%v", changed, isSolved)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}, b.Tiles()); diff != "" {
		t.Fatalf("unexpected board:\n%s", diff)
	}
	if b.InPlace() != 9 {
		t.Fatalf("expected all tiles in place, got %d", b.InPlace())
	}
}

func TestFromTilesValidates(t *testing.T) {
	if _, err := FromTiles([]int{0, 1, 2}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected size error, got %v", err)
	}
	if _, err := FromTiles([]int{0, 0, 2, 3}); !errors.Is(err, ErrNotPermutation) {
		t.Fatalf("expected permutation error, got %v", err)
	}
	if _, err := FromTiles([]int{0, 1, 2, 9}); !errors.Is(err, ErrNotPermutation) {
		t.Fatalf("expected permutation error, got %v", err)
	}
}

func TestInversions(t *testing.T) {
	if got := Inversions([]int{0, 1, 2}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Inversions([]int{2, 1, 0}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestGeometryOrigin(t *testing.T) {
	g := Geometry{Size: 3, BoardPx: 300}
	if g.CellPx() != 100 {
		t.Fatalf("expected 100px cells, got %d", g.CellPx())
	}
	if got := g.Origin(5); got != image.Pt(200, 100) {
		t.Fatalf("unexpected origin for tile 5: %v", got)
	}
	if got := g.Origin(7); got != image.Pt(100, 200) {
		t.Fatalf("unexpected origin for tile 7: %v", got)
	}
}

func TestNormalizeParity(t *testing.T) {
	if NormalizeParity("any") != ParityAny {
		t.Fatalf("expected any")
	}
	if NormalizeParity("") != ParityEven || NormalizeParity("odd") != ParityEven {
		t.Fatalf("expected even fallback")
	}
}
