package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pkgen-dev/pkgen/internal/platform"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded generation.
type Run struct {
	ID         int64
	Root       string
	Name       string
	Flavor     string
	State      string // last state reached
	Status     string
	Error      string
	Warnings   []string
	CommitHash string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
}

// Transition is a state reached by a run.
type Transition struct {
	State string
	At    time.Time
}

// Outcome is how a run ended.
type Outcome struct {
	State      string
	Err        error
	Warnings   []string
	CommitHash string
}

// Journal is an open run journal.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	// Only directories created here are private; an existing parent keeps its mode.
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 1000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure journal: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	if err := platform.PrivateFile(path); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin records the start of a run and returns its id.
func (j *Journal) Begin(ctx context.Context, root, name, flavor, state string) (int64, error) {
	var id int64
	err := WithTx(ctx, j.db, func(ctx context.Context, q Execer) error {
		at := j.stamp()
		res, err := q.ExecContext(ctx,
			`INSERT INTO runs (root, name, flavor, state, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
			root, name, flavor, state, StatusRunning, at)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `INSERT INTO transitions (run_id, state, at) VALUES (?, ?, ?)`, id, state, at)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// Transition records that run id reached state.
func (j *Journal) Transition(ctx context.Context, id int64, state string) error {
	err := WithTx(ctx, j.db, func(ctx context.Context, q Execer) error {
		at := j.stamp()
		if _, err := q.ExecContext(ctx, `INSERT INTO transitions (run_id, state, at) VALUES (?, ?, ?)`, id, state, at); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, `UPDATE runs SET state = ? WHERE id = ?`, state, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("recording state %s: %w", state, err)
	}
	return nil
}

// Finish records the outcome of run id. A nil Outcome.Err marks success.
func (j *Journal) Finish(ctx context.Context, id int64, out Outcome) error {
	status, msg := StatusSucceeded, ""
	if out.Err != nil {
		status, msg = StatusFailed, out.Err.Error()
	}
	err := WithTx(ctx, j.db, func(ctx context.Context, q Execer) error {
		_, err := q.ExecContext(ctx,
			`UPDATE runs SET state = ?, status = ?, error = ?, warnings = ?, commit_hash = ?, finished_at = ? WHERE id = ?`,
			out.State, status, msg, strings.Join(out.Warnings, "\n"), out.CommitHash, j.stamp(), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("recording run outcome: %w", err)
	}
	return nil
}

const runColumns = `id, root, name, flavor, state, status, error, warnings, commit_hash, started_at, finished_at`

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// List returns the most recent runs, newest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Get returns run id.
func (j *Journal) Get(ctx context.Context, id int64) (*Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r                 Run
		warnings          string
		started, finished string
	)
	if err := sc.Scan(&r.ID, &r.Root, &r.Name, &r.Flavor, &r.State, &r.Status, &r.Error,
		&warnings, &r.CommitHash, &started, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if warnings != "" {
		r.Warnings = strings.Split(warnings, "\n")
	}
	r.StartedAt = parseStamp(started)
	r.FinishedAt = parseStamp(finished)
	return &r, nil
}

// Transitions returns the states reached by run id in order.
func (j *Journal) Transitions(ctx context.Context, id int64) ([]Transition, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT state, at FROM transitions WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var tr Transition
		var at string
		if err := rows.Scan(&tr.State, &at); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		tr.At = parseStamp(at)
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (j *Journal) stamp() string {
	return j.now().UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
