// Package emit provides the event bus and observability emitters for
// workflow execution.
package emit

import "time"

// Event names published by the engine.
//
// Events for a single node are published in the order the node's state
// actually transitioned; no ordering is guaranteed across different names.
const (
	WorkflowStarted   = "workflow:started"
	WorkflowCompleted = "workflow:completed"
	WorkflowError     = "workflow:error"
	WorkflowFailed    = "workflow:failed"
	WorkflowPaused    = "workflow:paused"
	WorkflowResumed   = "workflow:resumed"
	WorkflowCancelled = "workflow:cancelled"

	NodeStarted        = "node:started"
	NodeStatusChanged  = "node:status_changed"
	NodeAttemptStarted = "node:attempt_started"
	NodeAttemptFailed  = "node:attempt_failed"
	NodeRetryScheduled = "node:retry_scheduled"
	NodeCompleted      = "node:completed"
	NodeFailed         = "node:failed"

	CheckpointCreated = "checkpoint:created"
	CheckpointError   = "checkpoint:error"
)

// Event is a structured notification about run or node lifecycle.
type Event struct {
	// Name is the event name from the catalogue above.
	Name string `json:"name"`

	// ExecutionID identifies the run that produced this event.
	ExecutionID string `json:"execution_id"`

	// WorkflowID identifies the workflow definition.
	WorkflowID string `json:"workflow_id"`

	// NodeID identifies the node, empty for workflow-level events.
	NodeID string `json:"node_id,omitempty"`

	// Time is when the event was published.
	Time time.Time `json:"time"`

	// Meta carries event-specific structured data. Common keys:
	//   "attempt"     execution attempt number
	//   "delay_ms"    scheduled retry delay
	//   "error"       failure message
	//   "status"      new node status
	//   "failed"      terminal list of failed node IDs
	//   "retries"     nodeID -> retry count mapping
	Meta map[string]any `json:"meta,omitempty"`
}
