package exec

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flowgrid/flowgrid-go/flow"
)

// MockExecutor is a configurable test executor. Behaviour is driven by
// node config, so a single registered instance can serve many nodes:
//
//   - result: value to return (defaults to "ok")
//   - error: when set to a string, every call fails with that message
//   - fail_times: number of initial calls (per node) that fail before
//     succeeding, for exercising retry behaviour
//   - delay_ms: sleep before returning, aborted on context cancellation
//
// Every invocation is recorded in call history, failed ones included.
type MockExecutor struct {
	mu    sync.Mutex
	calls []MockCall
	seen  map[string]int // nodeID -> invocation count
}

// MockCall records a single Execute invocation.
type MockCall struct {
	NodeID  string
	Attempt int // 1-based, per node
}

// NewMockExecutor creates a MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{seen: make(map[string]int)}
}

// Execute implements flow.Executor.
func (m *MockExecutor) Execute(ctx context.Context, node flow.Node, ec *flow.ExecutionContext) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.seen[node.ID]++
	attempt := m.seen[node.ID]
	m.calls = append(m.calls, MockCall{NodeID: node.ID, Attempt: attempt})
	m.mu.Unlock()

	if ms, ok := configInt(node, "delay_ms"); ok && ms > 0 {
		timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if msg := configString(node, "error"); msg != "" {
		return nil, errors.New(msg)
	}

	if failTimes, ok := configInt(node, "fail_times"); ok && attempt <= failTimes {
		msg := configString(node, "fail_message")
		if msg == "" {
			msg = "transient failure: connection refused"
		}
		return nil, errors.New(msg)
	}

	if result, ok := node.Config["result"]; ok {
		return result, nil
	}
	return "ok", nil
}

// Calls returns a copy of the invocation history.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of invocations for one node.
func (m *MockExecutor) CallCount(nodeID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[nodeID]
}

// Reset clears the call history and per-node counters.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.seen = make(map[string]int)
}

func configInt(node flow.Node, key string) (int, bool) {
	switch n := node.Config[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
