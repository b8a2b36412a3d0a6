package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store.
//
// Designed for tests, development, and short-lived single-process runs
// where durable checkpoints are not required. Thread-safe. Data is lost
// when the process exits.
type MemStore struct {
	mu          sync.RWMutex
	checkpoints map[string][]Checkpoint // executionID -> checkpoints in save order
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{checkpoints: make(map[string][]Checkpoint)}
}

// Save appends the checkpoint to the execution's history.
func (m *MemStore) Save(_ context.Context, cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[cp.ExecutionID] = append(m.checkpoints[cp.ExecutionID], cp)
	return nil
}

// List returns a copy of the execution's checkpoints, oldest first.
func (m *MemStore) List(_ context.Context, executionID string) ([]Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cps := m.checkpoints[executionID]
	out := make([]Checkpoint, len(cps))
	copy(out, cps)
	return out, nil
}

// Latest returns the most recently saved checkpoint for the execution.
func (m *MemStore) Latest(_ context.Context, executionID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cps := m.checkpoints[executionID]
	if len(cps) == 0 {
		return Checkpoint{}, ErrNotFound
	}
	return cps[len(cps)-1], nil
}
