package flow

import (
	"sync"
	"time"
)

// ExecutionContext carries the mutable state of one workflow run: the
// variable mapping seeded with caller inputs and extended with node outputs,
// plus per-node retry counters.
//
// The variable map is mutated by concurrently running executors within the
// same dispatch window, so access goes through the locked accessors. Each
// node writes only its own "<nodeID>_output" key, and a node never starts
// before its dependencies have written theirs (enforced by the dependency
// gate in the scheduler), so downstream reads are always consistent.
type ExecutionContext struct {
	// ID uniquely identifies this run, generated at start.
	ID string

	// WorkflowID identifies the workflow definition being executed.
	WorkflowID string

	// StartedAt is the run start time.
	StartedAt time.Time

	// Config is the configuration active for this run.
	Config Config

	mu        sync.RWMutex
	variables map[string]any
	retries   map[string]int // nodeID -> attempts beyond the first
}

func newExecutionContext(id, workflowID string, variables map[string]any, cfg Config) *ExecutionContext {
	vars := make(map[string]any, len(variables))
	for k, v := range variables {
		vars[k] = v
	}
	return &ExecutionContext{
		ID:         id,
		WorkflowID: workflowID,
		StartedAt:  time.Now(),
		Config:     cfg,
		variables:  vars,
		retries:    make(map[string]int),
	}
}

// NewExecutionContext creates a standalone context with default
// configuration, for exercising executors outside a run. The engine builds
// its own contexts when starting a run.
func NewExecutionContext(id, workflowID string, variables map[string]any) *ExecutionContext {
	return newExecutionContext(id, workflowID, variables, DefaultConfig())
}

// Variable returns the value of a single execution variable.
func (ec *ExecutionContext) Variable(key string) (any, bool) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	v, ok := ec.variables[key]
	return v, ok
}

// SetVariable stores an execution variable.
func (ec *ExecutionContext) SetVariable(key string, value any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.variables[key] = value
}

// Output returns the recorded output of a completed node, i.e. the value
// stored under "<nodeID>_output".
func (ec *ExecutionContext) Output(nodeID string) (any, bool) {
	return ec.Variable(nodeID + outputSuffix)
}

// Variables returns a snapshot copy of the variable mapping.
func (ec *ExecutionContext) Variables() map[string]any {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	snap := make(map[string]any, len(ec.variables))
	for k, v := range ec.variables {
		snap[k] = v
	}
	return snap
}

// RetryCounts returns a snapshot of per-node retry counters: for each node
// that was retried, the number of attempts beyond the first.
func (ec *ExecutionContext) RetryCounts() map[string]int {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	snap := make(map[string]int, len(ec.retries))
	for k, v := range ec.retries {
		snap[k] = v
	}
	return snap
}

func (ec *ExecutionContext) recordRetry(nodeID string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.retries[nodeID]++
}

func (ec *ExecutionContext) seedRetries(counts map[string]int) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	for k, v := range counts {
		if v > ec.retries[k] {
			ec.retries[k] = v
		}
	}
}

// outputSuffix is appended to a node ID to form its output variable key.
const outputSuffix = "_output"
