package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is a validated set of puzzles plus the file system they came from,
// which also serves their images.
type Catalog struct {
	fsys    fs.FS
	Puzzles []Puzzle
}

// LoadDir reads every *.yaml puzzle under dir.
func LoadDir(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("puzzle dir: %w", err)
	}
	return Load(os.DirFS(dir))
}

// Load reads every *.yaml puzzle in fsys, sorted by puzzle_id.
func Load(fsys fs.FS) (*Catalog, error) {
	puzzles := make([]Puzzle, 0)
	seen := map[string]string{}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ext := strings.ToLower(path.Ext(p)); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		puzzle, err := loadPuzzleFile(fsys, p)
		if err != nil {
			return err
		}
		if prev, ok := seen[puzzle.PuzzleID]; ok {
			return fmt.Errorf("duplicate puzzle_id %q in %s and %s", puzzle.PuzzleID, prev, p)
		}
		seen[puzzle.PuzzleID] = p
		puzzles = append(puzzles, puzzle)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(puzzles) == 0 {
		return nil, fmt.Errorf("no puzzles found")
	}
	sort.Slice(puzzles, func(i, j int) bool { return puzzles[i].PuzzleID < puzzles[j].PuzzleID })
	return &Catalog{fsys: fsys, Puzzles: puzzles}, nil
}

func loadPuzzleFile(fsys fs.FS, p string) (Puzzle, error) {
	var puzzle Puzzle
	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return puzzle, err
	}
	if err := yaml.Unmarshal(b, &puzzle); err != nil {
		return puzzle, fmt.Errorf("parse %s: %w", p, err)
	}
	if err := puzzle.Validate(); err != nil {
		return puzzle, fmt.Errorf("validate %s: %w", p, err)
	}
	puzzle.Path = p
	applyDefaults(&puzzle)
	return puzzle, nil
}

func applyDefaults(p *Puzzle) {
	if p.Size == 0 {
		p.Size = 3
	}
	if p.Gate.Title == "" {
		p.Gate.Title = p.Title
	}
	if p.Gate.Placeholder == "" {
		p.Gate.Placeholder = "Enter the secret password..."
	}
	if p.Success.Title == "" {
		p.Success.Title = "Solved!"
	}
	if p.Scoring.BasePoints <= 0 {
		p.Scoring.BasePoints = 1000
	}
	if p.Scoring.ParMoves <= 0 {
		p.Scoring.ParMoves = p.Size * p.Size
	}
	if p.Scoring.MovePenaltyPoints <= 0 {
		p.Scoring.MovePenaltyPoints = 15
	}
	if p.Scoring.TimeGraceSeconds <= 0 {
		p.Scoring.TimeGraceSeconds = 60
	}
	if p.Scoring.TimePenaltyPerSecond <= 0 {
		p.Scoring.TimePenaltyPerSecond = 1
	}
}

func (c *Catalog) Find(puzzleID string) (Puzzle, error) {
	for _, p := range c.Puzzles {
		if p.PuzzleID == puzzleID {
			return p, nil
		}
	}
	return Puzzle{}, fmt.Errorf("puzzle %s not found", puzzleID)
}

// Resolve returns the named puzzle, or the first one when puzzleID is empty.
func (c *Catalog) Resolve(puzzleID string) (Puzzle, error) {
	if strings.TrimSpace(puzzleID) == "" {
		return c.Puzzles[0], nil
	}
	return c.Find(puzzleID)
}

// ReadImage returns the raw bytes of the puzzle's background image, or nil
// when the puzzle does not name one.
func (c *Catalog) ReadImage(p Puzzle) ([]byte, error) {
	ip := p.ImagePath()
	if ip == "" {
		return nil, nil
	}
	b, err := fs.ReadFile(c.fsys, ip)
	if err != nil {
		return nil, fmt.Errorf("read image for %s: %w", p.PuzzleID, err)
	}
	return b, nil
}
