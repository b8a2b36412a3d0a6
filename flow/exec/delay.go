package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/flowgrid/flowgrid-go/flow"
)

// DelayExecutor pauses the branch for a configured duration.
//
// Config keys:
//   - duration_ms: delay in milliseconds (number)
//   - duration: alternatively, a Go duration string such as "2s"
//
// The sleep aborts when the context is cancelled, so a workflow cannot get
// stuck waiting out a long delay after Cancel.
type DelayExecutor struct{}

// NewDelayExecutor creates a DelayExecutor.
func NewDelayExecutor() *DelayExecutor { return &DelayExecutor{} }

// Execute implements flow.Executor.
func (d *DelayExecutor) Execute(ctx context.Context, node flow.Node, ec *flow.ExecutionContext) (any, error) {
	duration, err := delayDuration(node)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", node.ID, err)
	}

	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return map[string]any{"delayed_ms": duration.Milliseconds()}, nil
}

func delayDuration(node flow.Node) (time.Duration, error) {
	switch ms := node.Config["duration_ms"].(type) {
	case float64:
		return time.Duration(ms) * time.Millisecond, nil
	case int:
		return time.Duration(ms) * time.Millisecond, nil
	case int64:
		return time.Duration(ms) * time.Millisecond, nil
	}

	if s := configString(node, "duration"); s != "" {
		duration, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		return duration, nil
	}
	return 0, fmt.Errorf("duration_ms or duration config required")
}
