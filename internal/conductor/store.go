// Package conductor dispatches build_order.json's batches against a
// transpile/verify oracle, tracking per-unit progress durably so an
// interrupted run can resume without redoing completed work.
package conductor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pipelineerrors "github.com/standardbeagle/transpile-pipeline/internal/errors"
	_ "modernc.org/sqlite"
)

// TaskState is the blackboard's task lifecycle state.
type TaskState string

const (
	StatePending    TaskState = "PENDING"
	StateInProgress TaskState = "IN_PROGRESS"
	StateCompleted  TaskState = "COMPLETED"
	StateFailed     TaskState = "FAILED"
)

// terminal reports whether a state is a final resting state for a task.
func (s TaskState) terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Task is one row of the blackboard: a unit's progress through
// transpile-then-verify.
type Task struct {
	ID           string
	AtomicUnitID string
	State        TaskState
	CodeRust     string
	ErrorLog     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the durable blackboard backing the conductor's dispatch loop. A
// single connection is held open (SetMaxOpenConns(1)) since SQLite allows
// only one writer at a time and the conductor writes far more than it reads.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the SQLite blackboard at path and
// ensures its schema exists.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, pipelineerrors.NewStageError("conductor", "open blackboard", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, pipelineerrors.NewStageError("conductor", "initialize blackboard schema", path, err)
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			atomic_unit_id TEXT NOT NULL,
			state TEXT NOT NULL,
			code_rust TEXT,
			error_log TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating tasks table: %w", err)
	}
	return nil
}

// CreateTask idempotently registers a task as pending. A second call for the
// same id is a no-op, so re-running the conductor over the same build order
// never clobbers prior progress.
func (s *Store) CreateTask(ctx context.Context, id, atomicUnitID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tasks (id, atomic_unit_id, state) VALUES (?, ?, ?)`,
		id, atomicUnitID, StatePending)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", id, err)
	}
	return nil
}

// GetTaskState returns a task's current state, and false if no row exists.
func (s *Store) GetTaskState(ctx context.Context, id string) (TaskState, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM tasks WHERE id = ?`, id).Scan(&state)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetching task state %s: %w", id, err)
	}
	return TaskState(state), true, nil
}

// UpdateTaskState transitions a task, recording whichever of code/errLog is
// non-empty. Either may be left blank depending on which step produced the
// transition.
func (s *Store) UpdateTaskState(ctx context.Context, id string, state TaskState, code, errLog string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET state = ?, code_rust = ?, error_log = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		state, nullableString(code), nullableString(errLog), id)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	return nil
}

// ShouldSkip reports whether a task already sitting in a terminal state
// should be left alone rather than redispatched. forceRetry overrides this,
// so a row in Completed/Failed is only ever revisited on explicit request.
func (s *Store) ShouldSkip(ctx context.Context, id string, forceRetry bool) (bool, error) {
	if forceRetry {
		return false, nil
	}
	state, found, err := s.GetTaskState(ctx, id)
	if err != nil {
		return false, err
	}
	return found && state.terminal(), nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
