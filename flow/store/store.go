// Package store provides checkpoint persistence for workflow runs.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an execution has no checkpoints.
var ErrNotFound = errors.New("not found")

// Checkpoint is a snapshot of run progress, created by the scheduler every
// N completed nodes and used to seed the completed set on resume.
type Checkpoint struct {
	// ID uniquely identifies this checkpoint.
	ID string `json:"id"`

	// ExecutionID identifies the run this checkpoint belongs to.
	ExecutionID string `json:"execution_id"`

	// NodeID is the node most recently completed at checkpoint time.
	NodeID string `json:"node_id"`

	// Completed lists every node ID that had completed when the
	// checkpoint was taken. Resume validates this set against the graph's
	// dependency closure before trusting it.
	Completed []string `json:"completed"`

	// Variables is a snapshot of the run's variable mapping, including
	// node outputs.
	Variables map[string]any `json:"variables"`

	// Retries maps node IDs to retry counts recorded so far.
	Retries map[string]int `json:"retries,omitempty"`

	// CreatedAt is the checkpoint creation time.
	CreatedAt time.Time `json:"created_at"`
}

// Store persists checkpoints.
//
// The engine treats persistence as best effort: Save is called from a
// background goroutine and a failure is logged through the emitter, never
// surfaced to the run.
//
// Implementations: MemStore (in-memory, tests and short-lived runs),
// SQLiteStore (single-file local persistence), MySQLStore (shared server).
type Store interface {
	// Save persists one checkpoint.
	Save(ctx context.Context, cp Checkpoint) error

	// List returns all checkpoints for an execution, oldest first.
	// An execution with no checkpoints yields an empty slice, not an error.
	List(ctx context.Context, executionID string) ([]Checkpoint, error)

	// Latest returns the most recent checkpoint for an execution, or
	// ErrNotFound when none exists.
	Latest(ctx context.Context, executionID string) (Checkpoint, error)
}
