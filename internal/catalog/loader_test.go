package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"treasuregate/puzzles"
)

func TestBuiltinPackLoads(t *testing.T) {
	c, err := Load(puzzles.Builtin)
	if err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	if len(c.Puzzles) < 1 {
		t.Fatalf("expected builtin puzzles")
	}
	p, err := c.Find("black-pearl-map")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Secret != "blackpearl" || p.Size != 3 {
		t.Fatalf("unexpected builtin puzzle: %+v", p)
	}
	if p.Gate.Title != "Pirate's Gate" {
		t.Fatalf("unexpected gate title %q", p.Gate.Title)
	}
	if !p.ReplayAllowed() {
		t.Fatalf("expected replay allowed")
	}
	for i := 1; i < len(c.Puzzles); i++ {
		if c.Puzzles[i-1].PuzzleID >= c.Puzzles[i].PuzzleID {
			t.Fatalf("puzzles not sorted: %q before %q", c.Puzzles[i-1].PuzzleID, c.Puzzles[i].PuzzleID)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"min.yaml": {Data: []byte("kind: puzzle\nschema_version: 1\npuzzle_id: minimal\ntitle: Minimal\nsecret: x\n")},
	}
	c, err := Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := c.Puzzles[0]
	if p.Size != 3 {
		t.Fatalf("expected default size 3, got %d", p.Size)
	}
	if p.Gate.Title != "Minimal" {
		t.Fatalf("expected gate title to default to title, got %q", p.Gate.Title)
	}
	if p.Scoring.BasePoints != 1000 || p.Scoring.ParMoves != 9 {
		t.Fatalf("unexpected scoring defaults: %+v", p.Scoring)
	}
	if p.Path != "min.yaml" {
		t.Fatalf("unexpected path %q", p.Path)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	doc := []byte("kind: puzzle\nschema_version: 1\npuzzle_id: same-id\ntitle: T\nsecret: x\n")
	fsys := fstest.MapFS{
		"a.yaml": {Data: doc},
		"b.yaml": {Data: doc},
	}
	_, err := Load(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate puzzle_id") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	if _, err := Load(fstest.MapFS{"README.md": {Data: []byte("x")}}); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestLoadDirReadsImageRelativeToPuzzle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "maps")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "kind: puzzle\nschema_version: 1\npuzzle_id: with-image\ntitle: T\nsecret: x\nimage:\n  path: art.png\n"
	if err := os.WriteFile(filepath.Join(sub, "p.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "art.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	p, err := c.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if p.ImagePath() != "maps/art.png" {
		t.Fatalf("unexpected image path %q", p.ImagePath())
	}
	b, err := c.ReadImage(p)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if string(b) != "png-bytes" {
		t.Fatalf("unexpected image bytes %q", b)
	}
}

func TestReadImageWithoutPathIsNil(t *testing.T) {
	c, err := Load(puzzles.Builtin)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.ReadImage(c.Puzzles[0])
	if err != nil || b != nil {
		t.Fatalf("expected nil image, got %v %v", b, err)
	}
}

func TestFindMissing(t *testing.T) {
	c, err := Load(puzzles.Builtin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Find("nope-nope"); err == nil {
		t.Fatalf("expected not found")
	}
}
