package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists checkpoints in a single-file SQLite database.
//
// Designed for:
//   - Development and testing with zero setup
//   - Single-process deployments that want checkpoints to survive restarts
//   - Prototyping before migrating to a shared server store
//
// WAL mode is enabled so readers (resume, checkpoint listing) never block
// the background checkpoint writer.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewSQLiteStore opens (and if needed creates) the database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS workflow_checkpoints (
			id TEXT NOT NULL PRIMARY KEY,
			execution_id TEXT NOT NULL,
			node_id TEXT NOT NULL,
			completed TEXT NOT NULL,
			variables TEXT NOT NULL,
			retries TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create workflow_checkpoints table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_checkpoints_execution ON workflow_checkpoints(execution_id, created_at)"); err != nil {
		return fmt.Errorf("failed to create idx_checkpoints_execution: %w", err)
	}
	return nil
}

// Save persists one checkpoint.
func (s *SQLiteStore) Save(ctx context.Context, cp Checkpoint) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("store is closed")
	}
	s.mu.RUnlock()

	completed, variables, retries, err := marshalCheckpoint(cp)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO workflow_checkpoints
			(id, execution_id, node_id, completed, variables, retries, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.ExecutionID, cp.NodeID, completed, variables, retries, cp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// List returns all checkpoints for an execution, oldest first.
func (s *SQLiteStore) List(ctx context.Context, executionID string) ([]Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, execution_id, node_id, completed, variables, retries, created_at
		FROM workflow_checkpoints
		WHERE execution_id = ?
		ORDER BY created_at ASC, id ASC`, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkpoints: %w", err)
	}
	return out, nil
}

// Latest returns the most recent checkpoint for an execution.
func (s *SQLiteStore) Latest(ctx context.Context, executionID string) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, execution_id, node_id, completed, variables, retries, created_at
		FROM workflow_checkpoints
		WHERE execution_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, executionID)

	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return Checkpoint{}, ErrNotFound
	}
	return cp, err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row rowScanner) (Checkpoint, error) {
	var cp Checkpoint
	var completed, variables, retries []byte
	if err := row.Scan(&cp.ID, &cp.ExecutionID, &cp.NodeID, &completed, &variables, &retries, &cp.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Checkpoint{}, err
		}
		return Checkpoint{}, fmt.Errorf("failed to scan checkpoint: %w", err)
	}
	if err := json.Unmarshal(completed, &cp.Completed); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to unmarshal completed set: %w", err)
	}
	if err := json.Unmarshal(variables, &cp.Variables); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to unmarshal variables: %w", err)
	}
	if err := json.Unmarshal(retries, &cp.Retries); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to unmarshal retries: %w", err)
	}
	return cp, nil
}

func marshalCheckpoint(cp Checkpoint) (completed, variables, retries []byte, err error) {
	if cp.Completed == nil {
		cp.Completed = []string{}
	}
	if cp.Variables == nil {
		cp.Variables = map[string]any{}
	}
	if cp.Retries == nil {
		cp.Retries = map[string]int{}
	}
	if completed, err = json.Marshal(cp.Completed); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal completed set: %w", err)
	}
	if variables, err = json.Marshal(cp.Variables); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal variables: %w", err)
	}
	if retries, err = json.Marshal(cp.Retries); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal retries: %w", err)
	}
	return completed, variables, retries, nil
}
