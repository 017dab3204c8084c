package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"treasuregate/internal/app"
	"treasuregate/internal/devtools"
)

var (
	cfg app.Config

	flagPuzzle    string
	flagPuzzleDir string
	flagSize      int
	flagSecret    string
	flagParity    string
	flagSeed      int64
	flagTheme     string
	flagMotion    string
	flagASCII     bool
	flagDataDir   string
	flagLogPath   string
	flagDemo      string
	flagDebug     bool
	flagNoHistory bool
)

var rootCmd = &cobra.Command{
	Use:   "treasuregate",
	Short: "Speak the password, then piece the treasure map back together",
	Long: `treasuregate is a terminal puzzle game.

A pirate's gate asks for a secret word. Once it opens, drag the scrambled
map tiles with the mouse until the picture is whole again.

Settings come from TREASUREGATE_* environment variables; flags win.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runGame,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available puzzles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := app.OpenCatalog(cfg.PuzzleDir)
		if err != nil {
			return err
		}
		store, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		progress, err := store.GetPuzzleProgressMap(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), app.FormatCatalog(cat, progress))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show play history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := app.OpenCatalog(cfg.PuzzleDir)
		if err != nil {
			return err
		}
		store, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		summary, err := store.GetSummary(cmd.Context())
		if err != nil {
			return err
		}
		progress, err := store.GetPuzzleProgressMap(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), app.FormatStats(summary, progress, cat, time.Now()))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPuzzle, "puzzle", "", "puzzle id to play")
	pf.StringVar(&flagPuzzleDir, "puzzle-dir", "", "directory of puzzle yaml files (default: built-in pack)")
	pf.StringVar(&flagDataDir, "data-dir", "", "history directory (default: ~/.local/share/treasuregate)")
	pf.BoolVar(&flagNoHistory, "no-history", false, "do not record play history")

	f := rootCmd.Flags()
	f.IntVar(&flagSize, "size", 0, "board size override (2-8)")
	f.StringVar(&flagSecret, "secret", "", "gate password override")
	f.StringVar(&flagParity, "parity", "", "shuffle parity: even or any")
	f.Int64Var(&flagSeed, "seed", 0, "shuffle seed (0 picks one)")
	f.StringVar(&flagTheme, "theme", "", "black_pearl, parchment or retro_terminal")
	f.StringVar(&flagMotion, "motion", "", "off, reduced or full")
	f.BoolVar(&flagASCII, "ascii", false, "draw tiles with ascii shading only")
	f.StringVar(&flagLogPath, "log-path", "", "write json logs to this file")
	f.StringVar(&flagDemo, "demo", "", "start in a demo scenario: "+strings.Join(devtools.NewManager().Names(), ", "))
	f.BoolVar(&flagDebug, "debug", false, "log debug events")

	rootCmd.AddCommand(listCmd, statsCmd)
}

// loadConfig layers defaults, environment and explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = app.DefaultConfig()
	if err := app.LoadEnv(&cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("puzzle") {
		cfg.PuzzleID = flagPuzzle
	}
	if flags.Changed("puzzle-dir") {
		cfg.PuzzleDir = flagPuzzleDir
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("no-history") {
		cfg.NoHistory = flagNoHistory
	}
	if flags.Changed("size") {
		cfg.Size = flagSize
	}
	if flags.Changed("secret") {
		cfg.Secret = flagSecret
	}
	if flags.Changed("parity") {
		cfg.Parity = flagParity
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("theme") {
		cfg.UI.StyleVariant = flagTheme
	}
	if flags.Changed("motion") {
		cfg.UI.MotionLevel = flagMotion
	}
	if flags.Changed("ascii") {
		cfg.ASCIIOnly = flagASCII
	}
	if flags.Changed("log-path") {
		cfg.LogPath = flagLogPath
	}
	if flags.Changed("demo") {
		cfg.DemoScenario = flagDemo
	}
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}

	return cfg.Validate()
}

func runGame(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "treasuregate:", err)
		os.Exit(1)
	}
}
