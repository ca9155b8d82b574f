// Package archive persists swing reports in SQLite so runs can be compared
// later.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/discochess/pgnswing"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Archive wraps SQLite access for run data.
type Archive struct {
	db *sql.DB
}

// Run describes one analysis run.
type Run struct {
	ID        int64
	StartedAt time.Time
	Sources   []string
	Dialect   string
	Games     int
	Failed    int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating archive: %w", err)
	}
	return a, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			sources TEXT NOT NULL,
			dialect TEXT NOT NULL,
			games INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			run_id INTEGER NOT NULL,
			game INTEGER NOT NULL,
			event TEXT NOT NULL,
			white TEXT NOT NULL,
			black TEXT NOT NULL,
			result TEXT NOT NULL,
			plies INTEGER NOT NULL,
			white_max_move INTEGER,
			white_max_eval REAL,
			white_min_move INTEGER,
			white_min_eval REAL,
			black_max_move INTEGER,
			black_max_eval REAL,
			black_min_move INTEGER,
			black_min_eval REAL,
			white_scored INTEGER NOT NULL,
			black_scored INTEGER NOT NULL,
			white_swing REAL NOT NULL,
			black_swing REAL NOT NULL,
			PRIMARY KEY (run_id, game)
		);`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id INTEGER NOT NULL,
			game INTEGER NOT NULL,
			white TEXT NOT NULL,
			black TEXT NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (run_id, game)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_white ON summaries(white);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_black ON summaries(black);`,
	}
	for _, stmt := range stmts {
		if _, err := a.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a report and returns the new run's ID.
func (a *Archive) SaveRun(ctx context.Context, run Run, rep *pgnswing.Report) (id int64, err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, sources, dialect, games, failed) VALUES (?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		strings.Join(run.Sources, "\n"),
		run.Dialect,
		rep.Games,
		len(rep.Errors),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	if err = insertSummaries(ctx, tx, id, rep.Summaries); err != nil {
		return 0, err
	}
	for _, ge := range rep.Errors {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, game, white, black, message) VALUES (?, ?, ?, ?, ?)`,
			id, ge.Game, ge.White, ge.Black, ge.Err.Error(),
		); err != nil {
			return 0, fmt.Errorf("inserting failure of game %d: %w", ge.Game, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertSummaries(ctx context.Context, tx *sql.Tx, runID int64, summaries []pgnswing.Summary) error {
	if len(summaries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO summaries (run_id, game, event, white, black, result, plies,
			white_max_move, white_max_eval, white_min_move, white_min_eval,
			black_max_move, black_max_eval, black_min_move, black_min_eval,
			white_scored, black_scored, white_swing, black_swing)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range summaries {
		args := []any{runID, s.Game, s.Event, s.White, s.Black, s.Result, s.Plies}
		for _, e := range []pgnswing.Extreme{s.WhiteMax, s.WhiteMin, s.BlackMax, s.BlackMin} {
			move, eval := extremeColumns(e)
			args = append(args, move, eval)
		}
		args = append(args, s.WhiteScored, s.BlackScored, s.WhiteSwing, s.BlackSwing)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting summary of game %d: %w", s.Game, err)
		}
	}
	return nil
}

// extremeColumns stores a non-applicable extreme as NULL eval and move, and an
// extreme without a move as NULL move.
func extremeColumns(e pgnswing.Extreme) (sql.NullInt64, sql.NullFloat64) {
	if !e.Applicable {
		return sql.NullInt64{}, sql.NullFloat64{}
	}
	return sql.NullInt64{Int64: int64(e.Move), Valid: e.Move > 0}, sql.NullFloat64{Float64: e.Eval, Valid: true}
}

func extremeFrom(move sql.NullInt64, eval sql.NullFloat64) pgnswing.Extreme {
	if !eval.Valid {
		return pgnswing.Extreme{}
	}
	return pgnswing.Extreme{Applicable: true, Eval: eval.Float64, Move: int(move.Int64)}
}

// Runs lists stored runs, newest first.
func (a *Archive) Runs(ctx context.Context) ([]Run, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, started_at, sources, dialect, games, failed FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			startedAt string
			sources   string
		)
		if err := rows.Scan(&r.ID, &startedAt, &sources, &r.Dialect, &r.Games, &r.Failed); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("run %d: %w", r.ID, err)
		}
		if sources != "" {
			r.Sources = strings.Split(sources, "\n")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Summaries returns the summaries of a run in game order.
func (a *Archive) Summaries(ctx context.Context, runID int64) ([]pgnswing.Summary, error) {
	return a.querySummaries(ctx, `WHERE run_id = ? ORDER BY game`, runID)
}

// PlayerSummaries returns every stored summary of games player took part in,
// across runs.
func (a *Archive) PlayerSummaries(ctx context.Context, player string) ([]pgnswing.Summary, error) {
	return a.querySummaries(ctx, `WHERE white = ? OR black = ? ORDER BY run_id, game`, player, player)
}

func (a *Archive) querySummaries(ctx context.Context, where string, args ...any) ([]pgnswing.Summary, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT game, event, white, black, result, plies,
			white_max_move, white_max_eval, white_min_move, white_min_eval,
			black_max_move, black_max_eval, black_min_move, black_min_eval,
			white_scored, black_scored, white_swing, black_swing
		 FROM summaries `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pgnswing.Summary
	for rows.Next() {
		var (
			s     pgnswing.Summary
			moves [4]sql.NullInt64
			evals [4]sql.NullFloat64
		)
		if err := rows.Scan(&s.Game, &s.Event, &s.White, &s.Black, &s.Result, &s.Plies,
			&moves[0], &evals[0], &moves[1], &evals[1],
			&moves[2], &evals[2], &moves[3], &evals[3],
			&s.WhiteScored, &s.BlackScored, &s.WhiteSwing, &s.BlackSwing,
		); err != nil {
			return nil, err
		}
		s.WhiteMax = extremeFrom(moves[0], evals[0])
		s.WhiteMin = extremeFrom(moves[1], evals[1])
		s.BlackMax = extremeFrom(moves[2], evals[2])
		s.BlackMin = extremeFrom(moves[3], evals[3])
		out = append(out, s)
	}
	return out, rows.Err()
}

// FailureCount returns the number of failed games stored for a run.
func (a *Archive) FailureCount(ctx context.Context, runID int64) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM failures WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
