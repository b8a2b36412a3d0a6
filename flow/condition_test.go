package flow

import "testing"

func TestCondition_Evaluate(t *testing.T) {
	vars := map[string]any{
		"count":  float64(10),
		"status": "approved",
		"email":  "user@example.com",
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals string", Condition{Variable: "status", Op: OpEquals, Value: "approved"}, true},
		{"equals mismatch", Condition{Variable: "status", Op: OpEquals, Value: "rejected"}, false},
		{"not equals", Condition{Variable: "status", Op: OpNotEquals, Value: "rejected"}, true},
		{"numeric equals coerces types", Condition{Variable: "count", Op: OpEquals, Value: 10}, true},
		{"numeric equals from string", Condition{Variable: "count", Op: OpEquals, Value: "10"}, true},
		{"greater than", Condition{Variable: "count", Op: OpGreaterThan, Value: 5}, true},
		{"greater than false", Condition{Variable: "count", Op: OpGreaterThan, Value: 15}, false},
		{"less than", Condition{Variable: "count", Op: OpLessThan, Value: 15}, true},
		{"contains", Condition{Variable: "email", Op: OpContains, Value: "@example"}, true},
		{"contains false", Condition{Variable: "email", Op: OpContains, Value: "@other"}, false},
		{"matches", Condition{Variable: "email", Op: OpMatches, Value: `^[^@]+@example\.com$`}, true},
		{"missing variable equals nil", Condition{Variable: "ghost", Op: OpEquals, Value: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cond.Evaluate(vars)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCondition_Evaluate_Errors(t *testing.T) {
	vars := map[string]any{"status": "approved"}

	tests := []struct {
		name string
		cond Condition
	}{
		{"numeric op on non-numeric", Condition{Variable: "status", Op: OpGreaterThan, Value: 5}},
		{"invalid regex", Condition{Variable: "status", Op: OpMatches, Value: "("}},
		{"unknown operator", Condition{Variable: "status", Op: Op("like"), Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cond.Evaluate(vars); err == nil {
				t.Errorf("Evaluate() error = nil, want error")
			}
		})
	}
}
