package exec

import (
	"context"
	"testing"

	"github.com/flowgrid/flowgrid-go/flow"
)

func TestMockExecutor_ConfiguredResult(t *testing.T) {
	ex := NewMockExecutor()
	ec := flow.NewExecutionContext("run-1", "wf-1", nil)

	node := flow.Node{ID: "a", Type: "mock", Config: map[string]any{"result": map[string]any{"rows": 3}}}
	result, err := ex.Execute(context.Background(), node, ec)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.(map[string]any)["rows"] != 3 {
		t.Errorf("result = %v, want configured value", result)
	}

	// Without a configured result the default is returned.
	plain := flow.Node{ID: "b", Type: "mock", Config: nil}
	result, err = ex.Execute(context.Background(), plain, ec)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("default result = %v, want ok", result)
	}
}

func TestMockExecutor_ErrorInjection(t *testing.T) {
	ex := NewMockExecutor()
	ec := flow.NewExecutionContext("run-1", "wf-1", nil)

	node := flow.Node{ID: "a", Type: "mock", Config: map[string]any{"error": "authentication failed"}}
	if _, err := ex.Execute(context.Background(), node, ec); err == nil || err.Error() != "authentication failed" {
		t.Errorf("Execute() error = %v, want configured error", err)
	}
}

func TestMockExecutor_FailTimes(t *testing.T) {
	ex := NewMockExecutor()
	ec := flow.NewExecutionContext("run-1", "wf-1", nil)
	node := flow.Node{ID: "a", Type: "mock", Config: map[string]any{"fail_times": 2}}

	for i := 1; i <= 2; i++ {
		if _, err := ex.Execute(context.Background(), node, ec); err == nil {
			t.Fatalf("call %d error = nil, want transient failure", i)
		}
	}
	if _, err := ex.Execute(context.Background(), node, ec); err != nil {
		t.Fatalf("call 3 error = %v, want success after failures", err)
	}

	if ex.CallCount("a") != 3 {
		t.Errorf("CallCount(a) = %d, want 3", ex.CallCount("a"))
	}
}

func TestMockExecutor_TracksCallsPerNode(t *testing.T) {
	ex := NewMockExecutor()
	ec := flow.NewExecutionContext("run-1", "wf-1", nil)

	_, _ = ex.Execute(context.Background(), flow.Node{ID: "a", Type: "mock"}, ec)
	_, _ = ex.Execute(context.Background(), flow.Node{ID: "b", Type: "mock"}, ec)
	_, _ = ex.Execute(context.Background(), flow.Node{ID: "a", Type: "mock"}, ec)

	calls := ex.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() = %d entries, want 3", len(calls))
	}
	if calls[2].NodeID != "a" || calls[2].Attempt != 2 {
		t.Errorf("third call = %+v, want node a attempt 2", calls[2])
	}

	ex.Reset()
	if len(ex.Calls()) != 0 || ex.CallCount("a") != 0 {
		t.Errorf("Reset() did not clear history")
	}
}
