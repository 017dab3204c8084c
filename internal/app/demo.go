package app

import (
	"treasuregate/internal/devtools"
	"treasuregate/internal/ui"
)

// applyDemoLocked jumps straight to a demo scenario's screen.
func (a *App) applyDemoLocked(name string) error {
	sc := a.demo.Resolve(name, a.puzzle.Size)
	a.logger.Info("demo.apply", map[string]any{"demo": sc.Name, "screen": string(sc.Screen)})
	if sc.Screen == devtools.ScreenGate {
		return nil
	}

	a.gate.Submit(a.puzzle.Secret)
	a.pushGate()
	a.flow.Unlock()
	if err := a.startRoundLocked(sc.Tiles); err != nil {
		return err
	}
	a.view.SetScreen(ui.ScreenPuzzle)

	if sc.Screen == devtools.ScreenSuccess {
		a.locked = true
		a.completeLocked(a.round)
	}
	return nil
}
