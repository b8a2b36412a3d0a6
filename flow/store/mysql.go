package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists checkpoints in a MySQL database.
//
// Designed for deployments where several engine instances (or an engine and
// its surrounding API layer) share checkpoint history. The DSN must include
// parseTime=true so TIMESTAMP columns scan into time.Time:
//
//	user:pass@tcp(host:3306)/flowgrid?parseTime=true
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore connects to MySQL, verifies the connection, and ensures the
// schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	m := &MySQLStore{db: db}
	if err := m.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return m, nil
}

func (m *MySQLStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS workflow_checkpoints (
			id VARCHAR(64) NOT NULL PRIMARY KEY,
			execution_id VARCHAR(64) NOT NULL,
			node_id VARCHAR(255) NOT NULL,
			completed JSON NOT NULL,
			variables JSON NOT NULL,
			retries JSON NOT NULL,
			created_at TIMESTAMP(6) NOT NULL,
			INDEX idx_checkpoints_execution (execution_id, created_at)
		)
	`
	if _, err := m.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create workflow_checkpoints table: %w", err)
	}
	return nil
}

// Save persists one checkpoint.
func (m *MySQLStore) Save(ctx context.Context, cp Checkpoint) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return fmt.Errorf("store is closed")
	}
	m.mu.RUnlock()

	completed, variables, retries, err := marshalCheckpoint(cp)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		REPLACE INTO workflow_checkpoints
			(id, execution_id, node_id, completed, variables, retries, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.ExecutionID, cp.NodeID, completed, variables, retries, cp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// List returns all checkpoints for an execution, oldest first.
func (m *MySQLStore) List(ctx context.Context, executionID string) ([]Checkpoint, error) {
	rows, err := m.db.QueryContext(ctx, `
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
func (m *MySQLStore) Latest(ctx context.Context, executionID string) (Checkpoint, error) {
	row := m.db.QueryRowContext(ctx, `
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

// Close closes the underlying database connection pool.
func (m *MySQLStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}

// Ping verifies the database connection.
func (m *MySQLStore) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Stats exposes connection pool statistics for monitoring.
func (m *MySQLStore) Stats() sql.DBStats {
	return m.db.Stats()
}
