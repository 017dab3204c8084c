package state

import "context"

// NopStore discards history. It backs --no-history runs.
type NopStore struct{}

func (NopStore) EnsureSchema(context.Context) error {
	return nil
}

func (NopStore) StartSession(context.Context, Session) error {
	return nil
}

func (NopStore) RecordGateAttempt(context.Context, GateAttempt) error {
	return nil
}

func (NopStore) StartPuzzleRun(context.Context, PuzzleRun) (int64, error) {
	return 0, nil
}

func (NopStore) FinishPuzzleRun(context.Context, int64, RunResult) error {
	return nil
}

func (NopStore) UpsertPuzzleProgress(context.Context, PuzzleProgressUpdate) error {
	return nil
}

func (NopStore) GetPuzzleProgressMap(context.Context) (map[string]PuzzleProgress, error) {
	return map[string]PuzzleProgress{}, nil
}

func (NopStore) GetSummary(context.Context) (Summary, error) {
	return Summary{}, nil
}

func (NopStore) Close() error {
	return nil
}

var _ Store = NopStore{}
var _ Store = (*SQLiteStore)(nil)
