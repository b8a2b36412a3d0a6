// Package flow provides the workflow execution engine for FlowGrid.
package flow

// Node represents a unit of work in a workflow graph.
//
// Each node carries a type tag that selects the Executor responsible for
// performing its side effect (HTTP call, model inference, branch decision,
// and so on), plus an opaque configuration map interpreted by that executor.
//
// Position is presentation-only metadata from the canvas and has no effect
// on execution.
type Node struct {
	// ID uniquely identifies the node within a workflow graph.
	ID string `json:"id"`

	// Type selects the executor for this node (e.g. "http", "model", "branch").
	Type string `json:"type"`

	// Config holds executor-specific settings. The engine never interprets
	// these values; they are passed through to the executor verbatim.
	Config map[string]any `json:"config,omitempty"`

	// Position is the node's location on the canvas. Irrelevant to execution.
	Position Position `json:"position"`
}

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge represents a directed dependency between two nodes.
//
// The target node may not start until the source node has completed.
// SourcePort and TargetPort are optional labels used by executors that
// produce or consume multiple outputs (e.g. a branch node's "true"/"false"
// ports); the scheduler itself only cares about the From→To dependency.
type Edge struct {
	// From is the source node ID.
	From string `json:"from"`

	// To is the target node ID.
	To string `json:"to"`

	// SourcePort optionally names the output port on the source node.
	SourcePort string `json:"source_port,omitempty"`

	// TargetPort optionally names the input port on the target node.
	TargetPort string `json:"target_port,omitempty"`
}
