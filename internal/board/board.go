package board

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	MinSize = 2
	MaxSize = 8
)

var (
	ErrInvalidSize     = errors.New("board: size out of range")
	ErrInvalidPosition = errors.New("board: position out of range")
	ErrNotPermutation  = errors.New("board: tiles are not a permutation")
)

// Parity selects which shuffles Initialize accepts.
type Parity string

const (
	// ParityEven keeps only arrangements with an even inversion count.
	ParityEven Parity = "even"
	// ParityAny accepts every arrangement. Tiles swap freely, so all of
	// them are reachable.
	ParityAny Parity = "any"
)

// Board holds the tile identifier sitting in each grid cell.
type Board struct {
	size  int
	tiles []int
}

// Initialize returns a shuffled, unsolved board of side size.
func Initialize(size int, rng *rand.Rand, parity Parity) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	tiles := identity(size * size)
	for {
		rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })
		if solved(tiles) {
			continue
		}
		if parity != ParityAny && Inversions(tiles)%2 != 0 {
			continue
		}
		return &Board{size: size, tiles: tiles}, nil
	}
}

// FromTiles builds a board from an explicit arrangement.
func FromTiles(tiles []int) (*Board, error) {
	n := len(tiles)
	size := 0
	for size*size < n {
		size++
	}
	if size*size != n || size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d tiles", ErrInvalidSize, n)
	}
	seen := make([]bool, n)
	for _, id := range tiles {
		if id < 0 || id >= n || seen[id] {
			return nil, ErrNotPermutation
		}
		seen[id] = true
	}
	return &Board{size: size, tiles: append([]int(nil), tiles...)}, nil
}

func (b *Board) Size() int { return b.size }

func (b *Board) Len() int { return len(b.tiles) }

// At returns the tile identifier in cell pos.
func (b *Board) At(pos int) int { return b.tiles[pos] }

// Tiles returns a copy of the arrangement.
func (b *Board) Tiles() []int { return append([]int(nil), b.tiles...) }

// Swap exchanges the tiles in cells from and to. A swap of a cell with itself
// changes nothing and reports changed=false without checking solved state.
func (b *Board) Swap(from, to int) (changed, isSolved bool, err error) {
	if !b.valid(from) || !b.valid(to) {
		return false, false, fmt.Errorf("%w: %d -> %d", ErrInvalidPosition, from, to)
	}
	if from == to {
		return false, false, nil
	}
	b.tiles[from], b.tiles[to] = b.tiles[to], b.tiles[from]
	return true, b.IsSolved(), nil
}

func (b *Board) IsSolved() bool { return solved(b.tiles) }

// InPlace counts cells already holding their own tile.
func (b *Board) InPlace() int {
	n := 0
	for pos, id := range b.tiles {
		if pos == id {
			n++
		}
	}
	return n
}

func (b *Board) valid(pos int) bool { return pos >= 0 && pos < len(b.tiles) }

// Inversions counts pairs i<j with tiles[i] > tiles[j].
func Inversions(tiles []int) int {
	n := 0
	for i := 0; i < len(tiles); i++ {
		for j := i + 1; j < len(tiles); j++ {
			if tiles[i] > tiles[j] {
				n++
			}
		}
	}
	return n
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func solved(tiles []int) bool {
	for pos, id := range tiles {
		if pos != id {
			return false
		}
	}
	return true
}

func NormalizeParity(raw string) Parity {
	if Parity(raw) == ParityAny {
		return ParityAny
	}
	return ParityEven
}
