package devtools

import "strings"

// Screen names the screen a demo scenario opens on.
type Screen string

const (
	ScreenGate    Screen = "gate"
	ScreenPuzzle  Screen = "puzzle"
	ScreenSuccess Screen = "success"
)

type Scenario struct {
	Name   string
	Screen Screen
	// Tiles is the starting arrangement, or nil for a normal shuffle.
	Tiles []int
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// Resolve maps a --demo name to a scenario for a board of side size.
// Unknown names fall back to the gate.
func (m *Manager) Resolve(name string, size int) Scenario {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "gate":
		return Scenario{Name: name, Screen: ScreenGate}
	case "puzzle", "playing":
		return Scenario{Name: "puzzle", Screen: ScreenPuzzle}
	case "near_solved", "near-solved":
		return Scenario{Name: "near_solved", Screen: ScreenPuzzle, Tiles: NearSolved(size)}
	case "success", "solved":
		return Scenario{Name: "success", Screen: ScreenSuccess}
	default:
		return Scenario{Name: "gate", Screen: ScreenGate}
	}
}

// Names lists the accepted scenario names.
func (m *Manager) Names() []string {
	return []string{"gate", "puzzle", "near_solved", "success"}
}

// NearSolved is the identity arrangement with the first two tiles swapped, so
// a single drag from cell 0 to cell 1 solves it.
func NearSolved(size int) []int {
	n := size * size
	if n < 2 {
		return nil
	}
	tiles := make([]int, n)
	for i := range tiles {
		tiles[i] = i
	}
	tiles[0], tiles[1] = 1, 0
	return tiles
}
