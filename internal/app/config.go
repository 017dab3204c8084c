package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"treasuregate/internal/board"
)

const EnvPrefix = "TREASUREGATE_"

// Config controls runtime behavior for the TUI app.
type Config struct {
	PuzzleID     string `env:"PUZZLE"`
	PuzzleDir    string `env:"PUZZLE_DIR"`
	Size         int    `env:"SIZE"`
	Secret       string `env:"SECRET"`
	Parity       string `env:"PARITY"`
	Seed         int64  `env:"SEED"`
	DemoScenario string `env:"DEMO"`
	ASCIIOnly    bool   `env:"ASCII"`
	DataDir      string `env:"DATA_DIR"`
	LogPath      string `env:"LOG_PATH"`
	Debug        bool   `env:"DEBUG"`
	NoHistory    bool   `env:"NO_HISTORY"`
	Timing       TimingConfig
	UI           UIConfig
}

type TimingConfig struct {
	ErrorClearMS int `env:"ERROR_CLEAR_MS"`
	SolveDelayMS int `env:"SOLVE_DELAY_MS"`
}

type UIConfig struct {
	StyleVariant string `env:"THEME"`
	MotionLevel  string `env:"MOTION"`
}

func DefaultConfig() Config {
	return Config{
		Parity: string(board.ParityEven),
		Timing: TimingConfig{
			ErrorClearMS: 1000,
			SolveDelayMS: 500,
		},
		UI: UIConfig{
			StyleVariant: "black_pearl",
			MotionLevel:  "full",
		},
	}
}

// LoadEnv overlays TREASUREGATE_* variables onto cfg.
func LoadEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Size != 0 && (c.Size < board.MinSize || c.Size > board.MaxSize) {
		return fmt.Errorf("invalid size %d: must be between %d and %d", c.Size, board.MinSize, board.MaxSize)
	}

	switch c.Parity {
	case "", string(board.ParityEven), string(board.ParityAny):
	default:
		return fmt.Errorf("invalid parity %q", c.Parity)
	}
	if c.Parity == "" {
		c.Parity = string(board.ParityEven)
	}

	if c.Timing.ErrorClearMS <= 0 {
		c.Timing.ErrorClearMS = 1000
	}
	if c.Timing.SolveDelayMS < 0 {
		return fmt.Errorf("invalid solve delay %dms", c.Timing.SolveDelayMS)
	}

	switch c.UI.StyleVariant {
	case "", "black_pearl", "parchment", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui theme %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "black_pearl"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "treasuregate")
	}

	return nil
}
