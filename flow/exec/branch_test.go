package exec

import (
	"context"
	"testing"

	"github.com/flowgrid/flowgrid-go/flow"
)

func TestBranchExecutor_Evaluate(t *testing.T) {
	ec := flow.NewExecutionContext("run-1", "wf-1", map[string]any{
		"score":  float64(85),
		"status": "approved",
	})
	ex := NewBranchExecutor()

	tests := []struct {
		name     string
		config   map[string]any
		want     bool
		wantPort string
	}{
		{
			name:     "numeric comparison true",
			config:   map[string]any{"variable": "score", "operator": "greater_than", "value": 50},
			want:     true,
			wantPort: "true",
		},
		{
			name:     "numeric comparison false",
			config:   map[string]any{"variable": "score", "operator": "less_than", "value": 50},
			want:     false,
			wantPort: "false",
		},
		{
			name:     "string equality",
			config:   map[string]any{"variable": "status", "operator": "equals", "value": "approved"},
			want:     true,
			wantPort: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := flow.Node{ID: "check", Type: "branch", Config: tt.config}
			result, err := ex.Execute(context.Background(), node, ec)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			out := result.(map[string]any)
			if out["result"] != tt.want {
				t.Errorf("result = %v, want %v", out["result"], tt.want)
			}
			if out["port"] != tt.wantPort {
				t.Errorf("port = %v, want %v", out["port"], tt.wantPort)
			}
		})
	}
}

func TestBranchExecutor_Errors(t *testing.T) {
	ec := flow.NewExecutionContext("run-1", "wf-1", map[string]any{"status": "approved"})
	ex := NewBranchExecutor()

	tests := []struct {
		name   string
		config map[string]any
	}{
		{"missing variable config", map[string]any{"operator": "equals", "value": "x"}},
		{"unknown operator", map[string]any{"variable": "status", "operator": "like", "value": "x"}},
		{"numeric operator on string", map[string]any{"variable": "status", "operator": "greater_than", "value": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := flow.Node{ID: "check", Type: "branch", Config: tt.config}
			if _, err := ex.Execute(context.Background(), node, ec); err == nil {
				t.Errorf("Execute() error = nil, want error")
			}
		})
	}
}
