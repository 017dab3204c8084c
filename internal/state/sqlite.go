package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps play history. Board arrangements are never written.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			puzzle_id TEXT NOT NULL,
			start_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS gate_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			attempt_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS puzzle_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			size INTEGER NOT NULL,
			start_ts TEXT NOT NULL,
			finish_ts TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			solved INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS puzzle_progress (
			puzzle_id TEXT PRIMARY KEY,
			solved_count INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			best_moves INTEGER NOT NULL DEFAULT 0,
			best_time_ms INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT '',
			last_solved_ts TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_gate_attempts_session ON gate_attempts(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) StartSession(ctx context.Context, session Session) error {
	id := strings.TrimSpace(session.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, puzzle_id, start_ts) VALUES(?,?,?)`,
		id,
		session.PuzzleID,
		tsOrNow(session.StartTS),
	)
	return err
}

func (s *SQLiteStore) RecordGateAttempt(ctx context.Context, attempt GateAttempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gate_attempts(session_id, puzzle_id, accepted, attempt_ts) VALUES(?,?,?,?)`,
		attempt.SessionID,
		attempt.PuzzleID,
		ifThen(attempt.Accepted, 1, 0),
		tsOrNow(attempt.TS),
	)
	return err
}

func (s *SQLiteStore) StartPuzzleRun(ctx context.Context, run PuzzleRun) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO puzzle_runs(session_id, puzzle_id, size, start_ts) VALUES(?,?,?,?)`,
		run.SessionID,
		run.PuzzleID,
		run.Size,
		tsOrNow(run.StartTS),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) FinishPuzzleRun(ctx context.Context, runID int64, result RunResult) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE puzzle_runs
		SET finish_ts = ?, moves = ?, duration_ms = ?, score = ?, solved = 1
		WHERE id = ? AND solved = 0
	`,
		tsOrNow(result.FinishTS),
		max(0, result.Moves),
		max64(0, result.DurationMS),
		max(0, result.Score),
		runID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("puzzle run %d not found or already finished", runID)
	}
	return nil
}

func (s *SQLiteStore) UpsertPuzzleProgress(ctx context.Context, update PuzzleProgressUpdate) error {
	puzzleID := strings.TrimSpace(update.PuzzleID)
	if puzzleID == "" {
		return nil
	}
	playTS := update.LastPlayedTS
	if playTS.IsZero() {
		playTS = time.Now().UTC()
	}
	solvedTS := ""
	score, moves, durationMS := 0, 0, int64(0)
	if update.Solved {
		solvedTS = playTS.UTC().Format(timeLayout)
		score = max(0, update.Score)
		moves = max(0, update.Moves)
		durationMS = max64(0, update.DurationMS)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO puzzle_progress(puzzle_id, solved_count, best_score, best_moves, best_time_ms, last_played_ts, last_solved_ts)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(puzzle_id) DO UPDATE SET
			solved_count = puzzle_progress.solved_count + excluded.solved_count,
			best_score = CASE
				WHEN excluded.best_score > puzzle_progress.best_score THEN excluded.best_score
				ELSE puzzle_progress.best_score
			END,
			best_moves = CASE
				WHEN excluded.best_moves > 0 AND (puzzle_progress.best_moves = 0 OR excluded.best_moves < puzzle_progress.best_moves) THEN excluded.best_moves
				ELSE puzzle_progress.best_moves
			END,
			best_time_ms = CASE
				WHEN excluded.best_time_ms > 0 AND (puzzle_progress.best_time_ms = 0 OR excluded.best_time_ms < puzzle_progress.best_time_ms) THEN excluded.best_time_ms
				ELSE puzzle_progress.best_time_ms
			END,
			last_played_ts = excluded.last_played_ts,
			last_solved_ts = CASE
				WHEN excluded.last_solved_ts <> '' THEN excluded.last_solved_ts
				ELSE puzzle_progress.last_solved_ts
			END
	`,
		puzzleID,
		ifThen(update.Solved, 1, 0),
		score,
		moves,
		durationMS,
		playTS.UTC().Format(timeLayout),
		solvedTS,
	)
	return err
}

func (s *SQLiteStore) GetPuzzleProgressMap(ctx context.Context) (map[string]PuzzleProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT puzzle_id, solved_count, best_score, best_moves, best_time_ms, last_played_ts, last_solved_ts
		FROM puzzle_progress
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]PuzzleProgress{}
	for rows.Next() {
		var (
			p          PuzzleProgress
			lastPlayed string
			lastSolved string
		)
		if err := rows.Scan(&p.PuzzleID, &p.SolvedCount, &p.BestScore, &p.BestMoves, &p.BestTimeMS, &lastPlayed, &lastSolved); err != nil {
			return nil, err
		}
		p.LastPlayedTS = parseTS(lastPlayed)
		p.LastSolvedTS = parseTS(lastSolved)
		out[p.PuzzleID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&out.Sessions); err != nil {
		return Summary{}, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as attempts,
			COALESCE(SUM(CASE WHEN accepted = 0 THEN 1 ELSE 0 END),0) as rejections
		FROM gate_attempts
	`)
	if err := row.Scan(&out.GateAttempts, &out.GateRejections); err != nil {
		return Summary{}, err
	}
	var lastSolved string
	row = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as runs,
			COALESCE(SUM(solved),0) as solves,
			COALESCE(SUM(moves),0) as moves,
			COALESCE(MAX(finish_ts),'') as last_solved
		FROM puzzle_runs
	`)
	if err := row.Scan(&out.PuzzleRuns, &out.Solves, &out.TotalMoves, &lastSolved); err != nil {
		return Summary{}, err
	}
	out.LastSolvedTS = parseTS(lastSolved)
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func tsOrNow(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.UTC().Format(timeLayout)
}

func parseTS(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
