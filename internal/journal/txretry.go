package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error labels understood by WithTx.
const (
	// LabelTransient marks an error after which the whole transaction may be
	// run again.
	LabelTransient = "TransientTransactionError"
	// LabelUnknownCommit marks a commit whose outcome is unknown; only the
	// commit is retried.
	LabelUnknownCommit = "UnknownTransactionCommitResult"
)

const (
	minBackoff = 5 * time.Millisecond
	maxBackoff = 250 * time.Millisecond
)

// LabeledError attaches retry labels to an error.
type LabeledError struct {
	Labels []string
	Err    error
}

func (e *LabeledError) Error() string {
	return fmt.Sprintf("%v %v", e.Labels, e.Err)
}

func (e *LabeledError) Unwrap() error { return e.Err }

// WithLabels wraps err with labels. A nil err stays nil.
func WithLabels(err error, labels ...string) error {
	if err == nil {
		return nil
	}
	return &LabeledError{Labels: labels, Err: err}
}

// HasLabel reports whether any error in err's chain carries label.
func HasLabel(err error, label string) bool {
	var le *LabeledError
	for e := err; errors.As(e, &le); e = le.Err {
		if slices.Contains(le.Labels, label) {
			return true
		}
	}
	return false
}

// Execer is the statement surface available inside a transaction. *sql.Conn
// satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn between BEGIN IMMEDIATE and COMMIT on a dedicated connection.
// Errors labeled LabelTransient rerun the whole transaction; errors labeled
// LabelUnknownCommit retry only the COMMIT. Any other error is returned after
// a rollback. Retries continue until success or until ctx is done.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, q Execer) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()
	return retryTx(ctx, conn, fn)
}

func retryTx(ctx context.Context, q Execer, fn func(ctx context.Context, q Execer) error) error {
	delay := minBackoff
	for {
		err := runTx(ctx, q, fn)
		if err == nil || !HasLabel(err, LabelTransient) {
			return err
		}
		var waitErr error
		if delay, waitErr = backoff(ctx, delay); waitErr != nil {
			return fmt.Errorf("%w (last error: %v)", waitErr, err)
		}
	}
}

func runTx(ctx context.Context, q Execer, fn func(ctx context.Context, q Execer) error) error {
	if _, err := q.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return classify(err, false)
	}
	if err := fn(ctx, q); err != nil {
		rollback(ctx, q)
		return classify(err, false)
	}

	delay := minBackoff
	for {
		_, err := q.ExecContext(ctx, "COMMIT")
		if err == nil {
			return nil
		}
		err = classify(err, true)
		if !HasLabel(err, LabelUnknownCommit) {
			rollback(ctx, q)
			return err
		}
		var waitErr error
		if delay, waitErr = backoff(ctx, delay); waitErr != nil {
			rollback(ctx, q)
			return fmt.Errorf("%w (last error: %v)", waitErr, err)
		}
	}
}

func rollback(ctx context.Context, q Execer) {
	_, _ = q.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
}

// classify labels SQLite contention errors. Contention while committing
// leaves the transaction open, so the commit alone can be retried.
func classify(err error, committing bool) error {
	if err == nil || HasLabel(err, LabelTransient) || HasLabel(err, LabelUnknownCommit) {
		return err
	}
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		if committing {
			return WithLabels(err, LabelUnknownCommit)
		}
		return WithLabels(err, LabelTransient)
	}
	return err
}

// backoff sleeps for the current delay and returns the next one. It returns
// the context error when ctx ends first.
func backoff(ctx context.Context, d time.Duration) (time.Duration, error) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return d, ctx.Err()
	case <-t.C:
	}
	return min(d*2, maxBackoff), nil
}
