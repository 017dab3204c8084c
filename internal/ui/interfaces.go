package ui

import (
	"context"
	"image"
	"time"
)

type Controller interface {
	OnSubmitPassword(candidate string)
	OnSwap(from, to int)
	OnPlayAgain()
	OnOpenStats()
	OnQuit()
	OnResize(cols, rows int)
}

type View interface {
	Run(ctx context.Context) error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetGateState(GateState)
	SetPuzzleState(PuzzleState)
	SetSuccessState(SuccessState)
	SetInfo(title, text string, open bool)
	FlashStatus(msg string)
}

type Screen int

const (
	ScreenGate Screen = iota
	ScreenPuzzle
	ScreenSuccess
)

func (s Screen) String() string {
	switch s {
	case ScreenGate:
		return "gate"
	case ScreenPuzzle:
		return "puzzle"
	case ScreenSuccess:
		return "success"
	default:
		return "unknown"
	}
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutTooSmall
)

type GateState struct {
	Title       string
	PromptMD    string
	HintMD      string
	Placeholder string
	ShowError   bool
	Attempts    int
}

type PuzzleState struct {
	PuzzleID string
	Title    string
	Subtitle string
	// Round changes every time a new board is dealt.
	Round     int
	Size      int
	Tiles     []int
	InPlace   int
	Moves     int
	StartedAt time.Time
	// Locked is set once the board is solved and completion is pending.
	Locked bool
	Art    image.Image
}

type SuccessState struct {
	Title     string
	BodyMD    string
	Moves     int
	Elapsed   time.Duration
	Score     int
	Breakdown []BreakdownRow
	CanReplay bool
}

type BreakdownRow struct {
	Label string
	Value string
}
