package flow

// NodeStatus is the per-node execution state within a run.
//
// Transitions are monotonic (Idle → Running → Completed/Error/Cancelled)
// except for retries, where a node moves Error → Running for the next
// attempt until its retry policy is exhausted.
type NodeStatus string

const (
	NodeIdle      NodeStatus = "idle"
	NodeRunning   NodeStatus = "running"
	NodeCompleted NodeStatus = "completed"
	NodeError     NodeStatus = "error"
	NodeCancelled NodeStatus = "cancelled"
)

// RunStatus is the aggregate lifecycle state of a workflow run.
type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunError     RunStatus = "error"
	RunCancelled RunStatus = "cancelled"
	RunPaused    RunStatus = "paused"
)

// Terminal reports whether the run has reached a final state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunError || s == RunCancelled
}
