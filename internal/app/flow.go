package app

import "treasuregate/internal/ui"

// Flow is the screen state machine. It only moves forward, except for an
// explicit replay from the success screen back to a fresh puzzle.
type Flow struct {
	screen      ui.Screen
	allowReplay bool
}

func NewFlow(start ui.Screen, allowReplay bool) *Flow {
	return &Flow{screen: start, allowReplay: allowReplay}
}

func (f *Flow) Screen() ui.Screen { return f.screen }

// Unlock moves Gate to Puzzle.
func (f *Flow) Unlock() bool {
	if f.screen != ui.ScreenGate {
		return false
	}
	f.screen = ui.ScreenPuzzle
	return true
}

// Complete moves Puzzle to Success.
func (f *Flow) Complete() bool {
	if f.screen != ui.ScreenPuzzle {
		return false
	}
	f.screen = ui.ScreenSuccess
	return true
}

// Restart moves Success back to Puzzle when replay is allowed.
func (f *Flow) Restart() bool {
	if f.screen != ui.ScreenSuccess || !f.allowReplay {
		return false
	}
	f.screen = ui.ScreenPuzzle
	return true
}

func (f *Flow) CanReplay() bool { return f.allowReplay }
