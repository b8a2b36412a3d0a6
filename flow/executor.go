package flow

import (
	"context"
	"fmt"
	"sync"
)

// Executor performs the side effect of a single node type.
//
// Concrete executors (HTTP calls, model inference, database queries, email,
// webhooks) live outside the engine and are registered by type tag before a
// run starts. The engine only relies on this contract: given a node and the
// current execution context, produce a result value or fail with an error.
//
// Implementations should:
//   - Respect ctx cancellation so a cancelled or timed-out run can abort
//     an in-flight call promptly
//   - Read upstream outputs via ec.Variable("<nodeID>_output")
//   - Avoid writing execution variables other than through the return value;
//     the engine records the result under "<nodeID>_output" itself
type Executor interface {
	// Execute runs the node and returns its output value.
	Execute(ctx context.Context, node Node, ec *ExecutionContext) (any, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, node Node, ec *ExecutionContext) (any, error)

// Execute implements the Executor interface.
func (f ExecutorFunc) Execute(ctx context.Context, node Node, ec *ExecutionContext) (any, error) {
	return f(ctx, node, ec)
}

// Registry maps node-type tags to executors.
//
// A Registry is an explicitly constructed value passed to the engine at
// construction time; there is no package-level singleton. Registration is
// expected to happen before runs start, but the registry is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

// NewRegistry creates an empty executor registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// Register binds an executor to a node-type tag, replacing any previous
// binding for that tag.
func (r *Registry) Register(nodeType string, ex Executor) error {
	if nodeType == "" {
		return fmt.Errorf("node type cannot be empty")
	}
	if ex == nil {
		return fmt.Errorf("executor for type %q cannot be nil", nodeType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[nodeType] = ex
	return nil
}

// Lookup returns the executor for a node-type tag. A miss is reported as an
// ErrExecutorNotFound wrapper, which the retry policy treats as fatal.
func (r *Registry) Lookup(nodeType string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.executors[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w for type %q", ErrExecutorNotFound, nodeType)
	}
	return ex, nil
}

// Types returns the registered node-type tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	return types
}
