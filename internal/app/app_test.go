package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"treasuregate/internal/board"
	"treasuregate/internal/catalog"
	"treasuregate/internal/state"
	"treasuregate/internal/ui"
	"treasuregate/puzzles"
)

type fakeView struct {
	mu           sync.Mutex
	ctrl         ui.Controller
	screen       ui.Screen
	gate         ui.GateState
	puzzle       ui.PuzzleState
	success      ui.SuccessState
	successCalls int
	infoTitle    string
	infoText     string
	flash        string
	stopped      bool
	runCtx       context.Context
}

func (v *fakeView) Run(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.runCtx = ctx
	return nil
}

func (v *fakeView) SetController(c ui.Controller) {
	v.ctrl = c
}

func (v *fakeView) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
}

func (v *fakeView) SetScreen(s ui.Screen) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screen = s
}

func (v *fakeView) SetGateState(s ui.GateState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gate = s
}

func (v *fakeView) SetPuzzleState(s ui.PuzzleState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.puzzle = s
}

func (v *fakeView) SetSuccessState(s ui.SuccessState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.success = s
	v.successCalls++
}

func (v *fakeView) SetInfo(title, text string, open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.infoTitle = title
	v.infoText = text
}

func (v *fakeView) FlashStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flash = msg
}

// fakeClock queues scheduled callbacks until the test fires them.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []scheduled
}

type scheduled struct {
	d  time.Duration
	fn func()
}

func (c *fakeClock) After(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, scheduled{d: d, fn: fn})
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Fire runs every queued callback and returns their delays.
func (c *fakeClock) Fire() []time.Duration {
	c.mu.Lock()
	queued := c.pending
	c.pending = nil
	c.mu.Unlock()
	var delays []time.Duration
	for _, s := range queued {
		delays = append(delays, s.d)
		s.fn()
	}
	return delays
}

func newTestApp(t *testing.T, cfg Config, store state.Store, cat *catalog.Catalog) (*App, *fakeView, *fakeClock) {
	t.Helper()
	if cat == nil {
		var err error
		cat, err = catalog.Load(puzzles.Builtin)
		if err != nil {
			t.Fatalf("load builtin catalog: %v", err)
		}
	}
	view := &fakeView{}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	a, err := NewWithDeps(cfg, Deps{
		Store:   store,
		Catalog: cat,
		View:    view,
		After:   clock.After,
		Now:     clock.Now,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, view, clock
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PuzzleID = "black-pearl-map"
	cfg.Seed = 42
	cfg.DataDir = "unused"
	return cfg
}

// unlockNearSolved opens the gate and replaces the dealt board with one that
// a single swap of cells 0 and 1 solves.
func unlockNearSolved(t *testing.T, a *App) {
	t.Helper()
	a.OnSubmitPassword("blackpearl")
	if a.Screen() != ui.ScreenPuzzle {
		t.Fatalf("expected puzzle screen after unlock, got %v", a.Screen())
	}
	b, err := board.FromTiles([]int{1, 0, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	a.mu.Lock()
	a.board = b
	a.mu.Unlock()
}

func TestWrongPasswordShowsErrorThenClears(t *testing.T) {
	a, view, clock := newTestApp(t, testConfig(), nil, nil)

	a.OnSubmitPassword("blackpear")
	if a.Screen() != ui.ScreenGate {
		t.Fatalf("wrong password must keep the gate")
	}
	if !view.gate.ShowError || view.gate.Attempts != 1 {
		t.Fatalf("expected error flag after a miss, got %+v", view.gate)
	}

	delays := clock.Fire()
	if len(delays) != 1 || delays[0] != time.Second {
		t.Fatalf("expected one 1s clear, got %v", delays)
	}
	if view.gate.ShowError {
		t.Fatalf("expected the error flag to clear without further input")
	}
}

func TestPasswordIsCaseInsensitive(t *testing.T) {
	a, view, _ := newTestApp(t, testConfig(), nil, nil)

	a.OnSubmitPassword("BlackPearl")
	if a.Screen() != ui.ScreenPuzzle || view.screen != ui.ScreenPuzzle {
		t.Fatalf("expected puzzle screen, got app=%v view=%v", a.Screen(), view.screen)
	}
	if len(view.puzzle.Tiles) != 9 || view.puzzle.Size != 3 {
		t.Fatalf("expected a 3x3 board, got %+v", view.puzzle)
	}
	if view.puzzle.InPlace == 9 {
		t.Fatalf("a fresh board must not start solved")
	}
	if view.puzzle.Art == nil {
		t.Fatalf("expected tile art")
	}
}

func TestSubmitAfterUnlockIsIgnored(t *testing.T) {
	a, view, clock := newTestApp(t, testConfig(), nil, nil)
	a.OnSubmitPassword("blackpearl")
	a.OnSubmitPassword("nope")
	if a.gate.Attempts() != 1 {
		t.Fatalf("expected later submits to be ignored, attempts=%d", a.gate.Attempts())
	}
	if len(clock.pending) != 0 || view.gate.ShowError {
		t.Fatalf("ignored submit must not schedule an error")
	}
}

func TestSolveSignalsCompletionOnceAfterDelay(t *testing.T) {
	a, view, clock := newTestApp(t, testConfig(), nil, nil)
	unlockNearSolved(t, a)

	clock.Advance(30 * time.Second)
	a.OnSwap(0, 1)
	if !view.puzzle.Locked || view.puzzle.InPlace != 9 {
		t.Fatalf("expected solved board to render locked before completion, got %+v", view.puzzle)
	}
	if a.Screen() != ui.ScreenPuzzle {
		t.Fatalf("completion must wait for the delay")
	}

	a.OnSwap(0, 1)
	if a.moves != 1 {
		t.Fatalf("swaps after the solve must be ignored, moves=%d", a.moves)
	}

	delays := clock.Fire()
	if len(delays) != 1 || delays[0] != 500*time.Millisecond {
		t.Fatalf("expected a single 500ms completion, got %v", delays)
	}
	if a.Screen() != ui.ScreenSuccess || view.screen != ui.ScreenSuccess {
		t.Fatalf("expected success screen")
	}

	a.complete(a.round)
	if view.successCalls != 1 {
		t.Fatalf("completion must fire once, got %d", view.successCalls)
	}
	if view.success.Moves != 1 || view.success.Elapsed != 30*time.Second {
		t.Fatalf("unexpected success state: %+v", view.success)
	}
	if view.success.Score != 1000 {
		t.Fatalf("expected full score for a par solve in grace, got %d", view.success.Score)
	}
}

func TestSelfSwapIsNoop(t *testing.T) {
	a, view, clock := newTestApp(t, testConfig(), nil, nil)
	unlockNearSolved(t, a)

	a.OnSwap(4, 4)
	if a.moves != 0 || view.puzzle.Moves != 0 {
		t.Fatalf("self swap must not count")
	}
	if len(clock.Fire()) != 0 {
		t.Fatalf("self swap must not signal completion")
	}
}

func TestSwapTwiceRestoresBoard(t *testing.T) {
	a, view, _ := newTestApp(t, testConfig(), nil, nil)
	unlockNearSolved(t, a)
	a.pushPuzzle()
	before := append([]int(nil), view.puzzle.Tiles...)

	a.OnSwap(3, 8)
	a.OnSwap(3, 8)
	if a.moves != 2 {
		t.Fatalf("expected two counted moves, got %d", a.moves)
	}
	a.pushPuzzle()
	for i := range before {
		if view.puzzle.Tiles[i] != before[i] {
			t.Fatalf("expected %v after two swaps, got %v", before, view.puzzle.Tiles)
		}
	}
}

func TestSwapBeforeUnlockIgnored(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig(), nil, nil)
	a.OnSwap(0, 1)
	if a.board != nil || a.moves != 0 {
		t.Fatalf("swaps on the gate must be ignored")
	}
}

func TestPlayAgainDealsNewRound(t *testing.T) {
	a, view, clock := newTestApp(t, testConfig(), nil, nil)
	unlockNearSolved(t, a)
	a.OnSwap(0, 1)
	clock.Fire()

	if !view.success.CanReplay {
		t.Fatalf("replay defaults to allowed")
	}
	a.OnPlayAgain()
	if a.Screen() != ui.ScreenPuzzle || view.puzzle.Round != 2 {
		t.Fatalf("expected round 2 on the puzzle screen, got %v round %d", a.Screen(), view.puzzle.Round)
	}
	if view.puzzle.Moves != 0 || view.puzzle.Locked {
		t.Fatalf("new round must start fresh: %+v", view.puzzle)
	}
	if view.gate.ShowError {
		t.Fatalf("replay must not revisit the gate")
	}
}

func TestPlayAgainDisabled(t *testing.T) {
	fsys := fstest.MapFS{
		"one.yaml": &fstest.MapFile{Data: []byte(`kind: puzzle
schema_version: 1
puzzle_id: one-shot
title: One Shot
size: 2
secret: parrot
allow_replay: false
`)},
	}
	cat, err := catalog.Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := testConfig()
	cfg.PuzzleID = "one-shot"
	a, view, clock := newTestApp(t, cfg, nil, cat)

	a.OnSubmitPassword("PARROT")
	b, _ := board.FromTiles([]int{1, 0, 2, 3})
	a.mu.Lock()
	a.board = b
	a.mu.Unlock()
	a.OnSwap(0, 1)
	clock.Fire()

	if view.success.CanReplay {
		t.Fatalf("expected replay to be disabled")
	}
	a.OnPlayAgain()
	if a.Screen() != ui.ScreenSuccess {
		t.Fatalf("success must stay terminal without replay")
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 4
	cfg.Secret = "rum"
	a, view, _ := newTestApp(t, cfg, nil, nil)

	a.OnSubmitPassword("blackpearl")
	if a.Screen() != ui.ScreenGate {
		t.Fatalf("overridden secret must replace the catalog one")
	}
	a.OnSubmitPassword("RUM")
	if view.puzzle.Size != 4 || len(view.puzzle.Tiles) != 16 {
		t.Fatalf("expected a 4x4 board, got %+v", view.puzzle)
	}
}

func TestHistoryIsRecorded(t *testing.T) {
	store, err := state.NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	a, view, clock := newTestApp(t, testConfig(), store, nil)
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	a.OnSubmitPassword("kraken")
	unlockNearSolved(t, a)
	clock.Fire()
	clock.Advance(10 * time.Second)
	a.OnSwap(0, 1)
	clock.Fire()

	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Sessions != 1 || sum.GateAttempts != 2 || sum.GateRejections != 1 || sum.Solves != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	prog, err := store.GetPuzzleProgressMap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p := prog["black-pearl-map"]; p.SolvedCount != 1 || p.BestMoves != 1 || p.BestTimeMS != 10000 {
		t.Fatalf("unexpected progress: %+v", p)
	}

	a.OnOpenStats()
	if view.infoTitle != "Stats" || !strings.Contains(view.infoText, "Solves: 1") {
		t.Fatalf("expected stats overlay, got %q %q", view.infoTitle, view.infoText)
	}
}

func TestDealMarksPuzzlePlayedBeforeSolve(t *testing.T) {
	store, err := state.NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	a, view, clock := newTestApp(t, testConfig(), store, nil)
	a.OnSubmitPassword("blackpearl")

	prog, err := store.GetPuzzleProgressMap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := prog["black-pearl-map"]
	if !ok {
		t.Fatalf("expected a progress row once a board is dealt")
	}
	if p.SolvedCount != 0 || !p.LastPlayedTS.Equal(clock.Now()) {
		t.Fatalf("unexpected progress after deal: %+v", p)
	}

	a.OnOpenStats()
	if !strings.Contains(view.infoText, "unsolved, last played") {
		t.Fatalf("expected an unsolved entry, got %q", view.infoText)
	}
}

func TestDemoScenarios(t *testing.T) {
	tests := []struct {
		demo string
		want ui.Screen
	}{
		{"gate", ui.ScreenGate},
		{"puzzle", ui.ScreenPuzzle},
		{"near_solved", ui.ScreenPuzzle},
		{"success", ui.ScreenSuccess},
		{"bogus", ui.ScreenGate},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.DemoScenario = tt.demo
		a, view, _ := newTestApp(t, cfg, nil, nil)
		if err := a.Run(context.Background()); err != nil {
			t.Fatalf("%s: run: %v", tt.demo, err)
		}
		if a.Screen() != tt.want || view.screen != tt.want {
			t.Fatalf("%s: expected %v, got app=%v view=%v", tt.demo, tt.want, a.Screen(), view.screen)
		}
		if tt.demo == "near_solved" && view.puzzle.InPlace != 7 {
			t.Fatalf("near_solved must be one swap away, in place=%d", view.puzzle.InPlace)
		}
	}
}

func TestQuitStopsView(t *testing.T) {
	a, view, _ := newTestApp(t, testConfig(), nil, nil)
	a.OnQuit()
	if !view.stopped {
		t.Fatalf("expected quit to stop the view")
	}
}

func TestRunHandsContextToView(t *testing.T) {
	a, view, _ := newTestApp(t, testConfig(), nil, nil)
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "voyage")
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	if view.runCtx == nil || view.runCtx.Value(ctxKey{}) != "voyage" {
		t.Fatalf("expected the run context to reach the view")
	}
}

func TestFlowOnlyMovesForward(t *testing.T) {
	f := NewFlow(ui.ScreenGate, true)
	if f.Complete() || f.Restart() {
		t.Fatalf("gate can only unlock")
	}
	if !f.Unlock() || f.Screen() != ui.ScreenPuzzle {
		t.Fatalf("expected puzzle after unlock")
	}
	if f.Unlock() || f.Restart() {
		t.Fatalf("puzzle can only complete")
	}
	if !f.Complete() || f.Screen() != ui.ScreenSuccess {
		t.Fatalf("expected success after complete")
	}
	if f.Unlock() || f.Complete() {
		t.Fatalf("success cannot move back to the gate")
	}
	if !f.Restart() || f.Screen() != ui.ScreenPuzzle {
		t.Fatalf("expected replay to return to the puzzle")
	}

	g := NewFlow(ui.ScreenGate, false)
	g.Unlock()
	g.Complete()
	if g.Restart() || g.Screen() != ui.ScreenSuccess {
		t.Fatalf("success is terminal without replay")
	}
}
