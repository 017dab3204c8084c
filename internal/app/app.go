package app

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"treasuregate/internal/art"
	"treasuregate/internal/board"
	"treasuregate/internal/catalog"
	"treasuregate/internal/devtools"
	"treasuregate/internal/gate"
	"treasuregate/internal/scoring"
	"treasuregate/internal/state"
	"treasuregate/internal/telemetry"
	"treasuregate/internal/ui"
	"treasuregate/puzzles"
)

type App struct {
	cfg     Config
	logger  telemetry.Logger
	store   state.Store
	catalog *catalog.Catalog
	puzzle  catalog.Puzzle
	demo    *devtools.Manager
	view    ui.View
	art     image.Image

	after func(time.Duration, func())
	now   func() time.Time

	mu        sync.Mutex
	rng       *rand.Rand
	flow      *Flow
	gate      *gate.Gate
	board     *board.Board
	sessionID string
	runID     int64
	round     int
	moves     int
	startTime time.Time
	locked    bool
}

func New(cfg Config) (*App, error) {
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	cat, err := OpenCatalog(cfg.PuzzleDir)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.Debug,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
	})

	a, err := NewWithDeps(cfg, Deps{Logger: logger, Store: store, Catalog: cat, View: view})
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDeps wires an App around already built collaborators.
func NewWithDeps(cfg Config, deps Deps) (*App, error) {
	if deps.Catalog == nil || len(deps.Catalog.Puzzles) == 0 {
		return nil, fmt.Errorf("no puzzles available")
	}
	if deps.View == nil {
		return nil, fmt.Errorf("no view")
	}
	if deps.Logger == nil {
		nop, _ := telemetry.NewJSONLogger("", false)
		deps.Logger = nop
	}
	if deps.Store == nil {
		deps.Store = state.NopStore{}
	}
	if deps.Rand == nil {
		seed := uint64(cfg.Seed)
		if seed == 0 {
			seed = rand.Uint64()
		}
		deps.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if deps.After == nil {
		deps.After = afterFunc
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	p, err := deps.Catalog.Resolve(cfg.PuzzleID)
	if err != nil {
		return nil, err
	}
	if cfg.Size > 0 && cfg.Size != p.Size {
		p.Size = cfg.Size
		p.Scoring.ParMoves = cfg.Size * cfg.Size
	}
	if cfg.Secret != "" {
		p.Secret = cfg.Secret
	}

	img, err := loadArt(deps.Catalog, p)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		logger:    deps.Logger,
		store:     deps.Store,
		catalog:   deps.Catalog,
		puzzle:    p,
		demo:      devtools.NewManager(),
		view:      deps.View,
		art:       img,
		after:     deps.After,
		now:       deps.Now,
		rng:       deps.Rand,
		flow:      NewFlow(ui.ScreenGate, p.ReplayAllowed()),
		gate:      gate.New(p.Secret),
		sessionID: uuid.NewString(),
	}
	deps.View.SetController(a)
	return a, nil
}

// OpenCatalog loads dir, or the built-in pack when dir is empty.
func OpenCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Load(puzzles.Builtin)
	}
	return catalog.LoadDir(dir)
}

// OpenStore opens the history database under cfg.DataDir. Demo runs keep
// no history.
func OpenStore(ctx context.Context, cfg Config) (state.Store, error) {
	if cfg.NoHistory || cfg.DemoScenario != "" {
		return state.NopStore{}, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func loadArt(cat *catalog.Catalog, p catalog.Puzzle) (image.Image, error) {
	b, err := cat.ReadImage(p)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return art.TreasureMap(p.Image.Seed), nil
	}
	img, err := art.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", p.PuzzleID, err)
	}
	return img, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.sessionID,
		"puzzle":  a.puzzle.PuzzleID,
		"size":    a.puzzle.Size,
		"demo":    a.cfg.DemoScenario,
	})
	if err := a.store.StartSession(ctx, state.Session{ID: a.sessionID, PuzzleID: a.puzzle.PuzzleID, StartTS: a.now()}); err != nil {
		a.logger.Error("history.session_failed", map[string]any{"error": err.Error()})
	}

	a.mu.Lock()
	a.pushGate()
	a.view.SetScreen(ui.ScreenGate)
	if a.cfg.DemoScenario != "" {
		if err := a.applyDemoLocked(a.cfg.DemoScenario); err != nil {
			a.mu.Unlock()
			return err
		}
	}
	a.mu.Unlock()

	return a.view.Run(ctx)
}

func (a *App) Close() {
	_ = a.store.Close()
	_ = a.logger.Close()
}

// Screen reports the current screen of the flow.
func (a *App) Screen() ui.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flow.Screen()
}

func (a *App) OnSubmitPassword(candidate string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.flow.Screen() != ui.ScreenGate {
		return
	}

	outcome := a.gate.Submit(candidate)
	if outcome == gate.Ignored {
		return
	}
	a.recordGateAttempt(outcome == gate.Unlocked)

	switch outcome {
	case gate.Rejected:
		a.logger.Info("gate.rejected", map[string]any{"puzzle": a.puzzle.PuzzleID, "attempts": a.gate.Attempts()})
		a.pushGate()
		a.after(a.errorClearDelay(), a.clearGateError)
	case gate.Unlocked:
		a.logger.Info("gate.unlocked", map[string]any{"puzzle": a.puzzle.PuzzleID, "attempts": a.gate.Attempts()})
		a.pushGate()
		a.flow.Unlock()
		if err := a.startRoundLocked(nil); err != nil {
			a.view.FlashStatus(err.Error())
			return
		}
		a.view.SetScreen(ui.ScreenPuzzle)
		a.logger.Info("screen.puzzle", map[string]any{"puzzle": a.puzzle.PuzzleID, "round": a.round})
	}
}

func (a *App) clearGateError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gate.ClearError()
	if a.flow.Screen() == ui.ScreenGate {
		a.pushGate()
	}
}

func (a *App) OnSwap(from, to int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.flow.Screen() != ui.ScreenPuzzle || a.board == nil || a.locked {
		return
	}

	changed, solved, err := a.board.Swap(from, to)
	if err != nil {
		a.logger.Error("puzzle.swap_invalid", map[string]any{"from": from, "to": to, "error": err.Error()})
		return
	}
	if !changed {
		return
	}
	a.moves++
	a.logger.Info("puzzle.swap", map[string]any{
		"from":     from,
		"to":       to,
		"moves":    a.moves,
		"in_place": a.board.InPlace(),
	})
	if solved {
		a.locked = true
		round := a.round
		a.after(a.solveDelay(), func() { a.complete(round) })
	}
	a.pushPuzzle()
}

// complete finishes round. Stale rounds and repeated calls are ignored.
func (a *App) complete(round int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completeLocked(round)
}

func (a *App) completeLocked(round int) {
	if round != a.round || !a.locked || !a.flow.Complete() {
		return
	}

	elapsed := a.now().Sub(a.startTime)
	res := scoring.Score(scoring.Request{
		BasePoints:           a.puzzle.Scoring.BasePoints,
		ParMoves:             a.puzzle.Scoring.ParMoves,
		MovePenaltyPoints:    a.puzzle.Scoring.MovePenaltyPoints,
		TimeGraceSeconds:     a.puzzle.Scoring.TimeGraceSeconds,
		TimePenaltyPerSecond: a.puzzle.Scoring.TimePenaltyPerSecond,
		Moves:                a.moves,
		Elapsed:              elapsed,
	})
	a.logger.Info("puzzle.solved", map[string]any{
		"puzzle":      a.puzzle.PuzzleID,
		"round":       round,
		"moves":       a.moves,
		"duration_ms": elapsed.Milliseconds(),
		"score":       res.TotalPoints,
	})
	a.recordSolve(res, elapsed)

	a.view.SetSuccessState(a.successState(res, elapsed))
	a.view.SetScreen(ui.ScreenSuccess)
	a.logger.Info("screen.success", map[string]any{"puzzle": a.puzzle.PuzzleID, "round": round})
}

func (a *App) OnPlayAgain() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.flow.Restart() {
		return
	}
	if err := a.startRoundLocked(nil); err != nil {
		a.view.FlashStatus(err.Error())
		return
	}
	a.view.SetScreen(ui.ScreenPuzzle)
	a.logger.Info("puzzle.replay", map[string]any{"puzzle": a.puzzle.PuzzleID, "round": a.round})
}

func (a *App) OnOpenStats() {
	ctx := context.Background()
	summary, err := a.store.GetSummary(ctx)
	if err != nil {
		a.view.FlashStatus("Stats unavailable: " + err.Error())
		return
	}
	progress, err := a.store.GetPuzzleProgressMap(ctx)
	if err != nil {
		a.view.FlashStatus("Stats unavailable: " + err.Error())
		return
	}
	a.view.SetInfo("Stats", FormatStats(summary, progress, a.catalog, a.now()), true)
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{"session": a.sessionID, "screen": a.Screen().String()})
	a.view.Stop()
}

func (a *App) OnResize(cols, rows int) {
	a.logger.Info("ui.resize", map[string]any{"cols": cols, "rows": rows})
}

// startRoundLocked deals a new board, from tiles when given.
func (a *App) startRoundLocked(tiles []int) error {
	var (
		b   *board.Board
		err error
	)
	if tiles != nil {
		b, err = board.FromTiles(tiles)
	} else {
		b, err = board.Initialize(a.puzzle.Size, a.rng, board.NormalizeParity(a.cfg.Parity))
	}
	if err != nil {
		a.logger.Error("puzzle.init_failed", map[string]any{"size": a.puzzle.Size, "error": err.Error()})
		return fmt.Errorf("deal board: %w", err)
	}

	a.board = b
	a.round++
	a.moves = 0
	a.locked = false
	a.startTime = a.now()

	runID, err := a.store.StartPuzzleRun(context.Background(), state.PuzzleRun{
		SessionID: a.sessionID,
		PuzzleID:  a.puzzle.PuzzleID,
		Size:      b.Size(),
		StartTS:   a.startTime,
	})
	if err != nil {
		a.logger.Error("history.run_failed", map[string]any{"error": err.Error()})
	}
	a.runID = runID
	err = a.store.UpsertPuzzleProgress(context.Background(), state.PuzzleProgressUpdate{
		PuzzleID:     a.puzzle.PuzzleID,
		LastPlayedTS: a.startTime,
	})
	if err != nil {
		a.logger.Error("history.progress_failed", map[string]any{"error": err.Error()})
	}

	a.logger.Info("puzzle.start", map[string]any{
		"puzzle":     a.puzzle.PuzzleID,
		"round":      a.round,
		"size":       b.Size(),
		"inversions": board.Inversions(b.Tiles()),
	})
	a.pushPuzzle()
	return nil
}

func (a *App) recordGateAttempt(accepted bool) {
	err := a.store.RecordGateAttempt(context.Background(), state.GateAttempt{
		SessionID: a.sessionID,
		PuzzleID:  a.puzzle.PuzzleID,
		Accepted:  accepted,
		TS:        a.now(),
	})
	if err != nil {
		a.logger.Error("history.gate_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) recordSolve(res scoring.Result, elapsed time.Duration) {
	ctx := context.Background()
	finish := a.now()
	if a.runID > 0 {
		err := a.store.FinishPuzzleRun(ctx, a.runID, state.RunResult{
			Moves:      a.moves,
			DurationMS: elapsed.Milliseconds(),
			Score:      res.TotalPoints,
			FinishTS:   finish,
		})
		if err != nil {
			a.logger.Error("history.finish_failed", map[string]any{"run": a.runID, "error": err.Error()})
		}
	}
	err := a.store.UpsertPuzzleProgress(ctx, state.PuzzleProgressUpdate{
		PuzzleID:     a.puzzle.PuzzleID,
		Solved:       true,
		Score:        res.TotalPoints,
		Moves:        a.moves,
		DurationMS:   elapsed.Milliseconds(),
		LastPlayedTS: finish,
	})
	if err != nil {
		a.logger.Error("history.progress_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) pushGate() {
	g := a.puzzle.Gate
	a.view.SetGateState(ui.GateState{
		Title:       g.Title,
		PromptMD:    g.PromptMD,
		HintMD:      g.HintMD,
		Placeholder: g.Placeholder,
		ShowError:   a.gate.ShowError(),
		Attempts:    a.gate.Attempts(),
	})
}

func (a *App) pushPuzzle() {
	if a.board == nil {
		return
	}
	a.view.SetPuzzleState(ui.PuzzleState{
		PuzzleID:  a.puzzle.PuzzleID,
		Title:     a.puzzle.Title,
		Subtitle:  fmt.Sprintf("Drag a piece onto another to swap them. %dx%d", a.board.Size(), a.board.Size()),
		Round:     a.round,
		Size:      a.board.Size(),
		Tiles:     a.board.Tiles(),
		InPlace:   a.board.InPlace(),
		Moves:     a.moves,
		StartedAt: a.startTime,
		Locked:    a.locked,
		Art:       a.art,
	})
}

func (a *App) successState(res scoring.Result, elapsed time.Duration) ui.SuccessState {
	rows := []ui.BreakdownRow{{Label: "Base", Value: fmt.Sprintf("%d", res.BasePoints)}}
	for _, d := range res.Breakdown {
		if d.Points == 0 {
			continue
		}
		rows = append(rows, ui.BreakdownRow{Label: d.Description, Value: fmt.Sprintf("%+d", d.Points)})
	}
	return ui.SuccessState{
		Title:     a.puzzle.Success.Title,
		BodyMD:    a.puzzle.Success.BodyMD,
		Moves:     a.moves,
		Elapsed:   elapsed,
		Score:     res.TotalPoints,
		Breakdown: rows,
		CanReplay: a.flow.CanReplay(),
	}
}

func (a *App) errorClearDelay() time.Duration {
	if a.cfg.Timing.ErrorClearMS > 0 {
		return time.Duration(a.cfg.Timing.ErrorClearMS) * time.Millisecond
	}
	return gate.ErrorClearDelay
}

func (a *App) solveDelay() time.Duration {
	return time.Duration(a.cfg.Timing.SolveDelayMS) * time.Millisecond
}
