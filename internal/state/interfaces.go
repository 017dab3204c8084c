package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	StartSession(ctx context.Context, session Session) error
	RecordGateAttempt(ctx context.Context, attempt GateAttempt) error
	StartPuzzleRun(ctx context.Context, run PuzzleRun) (int64, error)
	FinishPuzzleRun(ctx context.Context, runID int64, result RunResult) error
	UpsertPuzzleProgress(ctx context.Context, update PuzzleProgressUpdate) error
	GetPuzzleProgressMap(ctx context.Context) (map[string]PuzzleProgress, error)
	GetSummary(ctx context.Context) (Summary, error)
	Close() error
}

type Session struct {
	ID       string
	PuzzleID string
	StartTS  time.Time
}

type GateAttempt struct {
	SessionID string
	PuzzleID  string
	Accepted  bool
	TS        time.Time
}

type PuzzleRun struct {
	SessionID string
	PuzzleID  string
	Size      int
	StartTS   time.Time
}

type RunResult struct {
	Moves      int
	DurationMS int64
	Score      int
	FinishTS   time.Time
}

type Summary struct {
	Sessions       int
	GateAttempts   int
	GateRejections int
	PuzzleRuns     int
	Solves         int
	TotalMoves     int
	LastSolvedTS   time.Time
}

type PuzzleProgress struct {
	PuzzleID     string
	SolvedCount  int
	BestScore    int
	BestMoves    int
	BestTimeMS   int64
	LastPlayedTS time.Time
	LastSolvedTS time.Time
}

type PuzzleProgressUpdate struct {
	PuzzleID     string
	Solved       bool
	Score        int
	Moves        int
	DurationMS   int64
	LastPlayedTS time.Time
}
