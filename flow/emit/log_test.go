package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLogEmitter_TextMode(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, false)

	emitter.Emit(Event{
		Name:        NodeCompleted,
		ExecutionID: "run-001",
		WorkflowID:  "wf-1",
		NodeID:      "fetch",
		Time:        time.Now(),
		Meta:        map[string]any{"attempts": 1},
	})

	line := buf.String()
	for _, want := range []string{"[node:completed]", "execution=run-001", "workflow=wf-1", "node=fetch", `"attempts":1`} {
		if !strings.Contains(line, want) {
			t.Errorf("output %q missing %q", line, want)
		}
	}
}

func TestLogEmitter_TextModeOmitsEmptyNode(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, false)

	emitter.Emit(Event{Name: WorkflowStarted, ExecutionID: "run-001", WorkflowID: "wf-1"})

	if strings.Contains(buf.String(), "node=") {
		t.Errorf("output %q should not contain node= for workflow events", buf.String())
	}
}

func TestLogEmitter_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, true)

	emitter.Emit(Event{
		Name:        WorkflowCompleted,
		ExecutionID: "run-002",
		WorkflowID:  "wf-2",
		Time:        time.Now(),
	})

	var decoded Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if decoded.Name != WorkflowCompleted {
		t.Errorf("decoded name = %q, want %q", decoded.Name, WorkflowCompleted)
	}
	if decoded.ExecutionID != "run-002" {
		t.Errorf("decoded execution id = %q, want run-002", decoded.ExecutionID)
	}
}
