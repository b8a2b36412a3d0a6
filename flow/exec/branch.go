package exec

import (
	"context"
	"fmt"

	"github.com/flowgrid/flowgrid-go/flow"
)

// BranchExecutor evaluates a condition against the execution variables.
//
// Config keys:
//   - variable: name of the variable supplying the left operand, required
//   - operator: one of equals, not_equals, greater_than, less_than,
//     contains, matches
//   - value: the right operand
//
// The result is a map with the boolean under "result" and the matched
// output port name ("true" or "false") under "port". Downstream edges keyed
// by SourcePort can read the port from the node's output variable.
type BranchExecutor struct{}

// NewBranchExecutor creates a BranchExecutor.
func NewBranchExecutor() *BranchExecutor { return &BranchExecutor{} }

// Execute implements flow.Executor.
func (b *BranchExecutor) Execute(ctx context.Context, node flow.Node, ec *flow.ExecutionContext) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variable := configString(node, "variable")
	if variable == "" {
		return nil, fmt.Errorf("node %s: variable config required", node.ID)
	}

	cond := flow.Condition{
		Variable: variable,
		Op:       flow.Op(configString(node, "operator")),
		Value:    node.Config["value"],
	}

	matched, err := cond.Evaluate(ec.Variables())
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", node.ID, err)
	}

	port := "false"
	if matched {
		port = "true"
	}
	return map[string]any{"result": matched, "port": port}, nil
}
