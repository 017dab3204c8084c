package catalog

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	PuzzleKind             = "puzzle"
	SupportedSchemaVersion = 1

	MinSize = 2
	MaxSize = 8
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Puzzle struct {
	Kind          string      `yaml:"kind"`
	SchemaVersion int         `yaml:"schema_version"`
	PuzzleID      string      `yaml:"puzzle_id"`
	Title         string      `yaml:"title"`
	Size          int         `yaml:"size"`
	Secret        string      `yaml:"secret"`
	AllowReplay   *bool       `yaml:"allow_replay"`
	Gate          GateSpec    `yaml:"gate"`
	Image         ImageSpec   `yaml:"image"`
	Success       SuccessSpec `yaml:"success"`
	Scoring       ScoringSpec `yaml:"scoring"`

	// Path is the file the puzzle was read from, relative to the catalog root.
	Path string `yaml:"-"`
}

type GateSpec struct {
	Title       string `yaml:"title"`
	PromptMD    string `yaml:"prompt_md"`
	HintMD      string `yaml:"hint_md"`
	Placeholder string `yaml:"placeholder"`
}

type ImageSpec struct {
	Path string `yaml:"path"`
	Seed int64  `yaml:"seed"`
}

type SuccessSpec struct {
	Title  string `yaml:"title"`
	BodyMD string `yaml:"body_md"`
}

type ScoringSpec struct {
	BasePoints           int `yaml:"base_points"`
	ParMoves             int `yaml:"par_moves"`
	MovePenaltyPoints    int `yaml:"move_penalty_points"`
	TimeGraceSeconds     int `yaml:"time_grace_seconds"`
	TimePenaltyPerSecond int `yaml:"time_penalty_per_second"`
}

func (p Puzzle) Validate() error {
	if p.Kind != PuzzleKind {
		return fmt.Errorf("kind must be %q", PuzzleKind)
	}
	if p.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if p.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported puzzle schema_version %d (max supported %d)", p.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(p.PuzzleID) {
		return fmt.Errorf("invalid puzzle_id %q", p.PuzzleID)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if p.Size != 0 && (p.Size < MinSize || p.Size > MaxSize) {
		return fmt.Errorf("size must be %d..%d", MinSize, MaxSize)
	}
	if p.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if p.Image.Path != "" {
		if path.IsAbs(p.Image.Path) || strings.HasPrefix(path.Clean(p.Image.Path), "..") {
			return fmt.Errorf("image.path must stay inside the catalog")
		}
	}
	s := p.Scoring
	if s.BasePoints < 0 || s.ParMoves < 0 || s.MovePenaltyPoints < 0 || s.TimeGraceSeconds < 0 || s.TimePenaltyPerSecond < 0 {
		return fmt.Errorf("scoring values must be >= 0")
	}
	return nil
}

// ReplayAllowed defaults to true when allow_replay is omitted.
func (p Puzzle) ReplayAllowed() bool {
	return p.AllowReplay == nil || *p.AllowReplay
}

// ImagePath resolves image.path against the puzzle file's directory.
func (p Puzzle) ImagePath() string {
	if p.Image.Path == "" {
		return ""
	}
	return path.Join(path.Dir(p.Path), p.Image.Path)
}
