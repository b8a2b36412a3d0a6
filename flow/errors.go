package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownExecution is returned by pause/resume/cancel and the status
// queries when the execution ID is not in the active-run registry, either
// because it never existed or because the run was evicted after its
// post-completion grace period.
var ErrUnknownExecution = errors.New("unknown execution")

// ErrExecutorNotFound indicates that no executor is registered for a node's
// type tag. This is fatal for the node and never retried, regardless of the
// retry policy in effect.
var ErrExecutorNotFound = errors.New("no executor registered")

// ErrNodeTimeout indicates a node execution attempt exceeded its configured
// timeout. Timeouts are classified by the retry policy like any other
// execution error.
var ErrNodeTimeout = errors.New("node execution timeout")

// NodeExecutionError wraps an error produced while executing a node, carrying the
// node's identity for diagnostics and event payloads.
type NodeExecutionError struct {
	// NodeID identifies the node that failed.
	NodeID string

	// Attempts is the number of execution attempts made before giving up.
	Attempts int

	// Cause is the error from the final attempt.
	Cause error
}

// Error implements the error interface.
func (e *NodeExecutionError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("node %s failed after %d attempts: %v", e.NodeID, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("node %s failed: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *NodeExecutionError) Unwrap() error {
	return e.Cause
}

// UnresolvableGraphError is returned when a run cannot make progress: no
// node is ready, none is running, and work remains. This covers genuine
// cycles as well as graphs stranded behind failed dependencies when the
// remaining nodes can never become ready.
type UnresolvableGraphError struct {
	// Remaining lists the node IDs that could not be scheduled.
	Remaining []string
}

// Error implements the error interface.
func (e *UnresolvableGraphError) Error() string {
	return "workflow cannot progress: circular or unresolvable dependencies among nodes [" +
		strings.Join(e.Remaining, ", ") + "]"
}
