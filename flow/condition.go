package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Op is a comparison operator usable in branch conditions.
//
// Conditions are restricted to this closed operator set over typed values;
// there is deliberately no expression language and no code evaluation.
type Op string

const (
	OpEquals      Op = "equals"
	OpNotEquals   Op = "not_equals"
	OpGreaterThan Op = "greater_than"
	OpLessThan    Op = "less_than"
	OpContains    Op = "contains"
	OpMatches     Op = "matches" // regular-expression match
)

// Condition compares a run variable against a literal value.
type Condition struct {
	// Variable names the execution variable supplying the left operand.
	Variable string `json:"variable"`

	// Op is the comparison operator.
	Op Op `json:"operator"`

	// Value is the right operand.
	Value any `json:"value"`
}

// Evaluate resolves the variable from vars and applies the operator.
//
// Numeric comparisons coerce both operands to float64; equality falls back
// to string form when the operands are not both numeric. A missing variable
// is not an error: it compares as the empty value (nil).
func (c Condition) Evaluate(vars map[string]any) (bool, error) {
	left := vars[c.Variable]

	switch c.Op {
	case OpEquals:
		return equalValues(left, c.Value), nil
	case OpNotEquals:
		return !equalValues(left, c.Value), nil
	case OpGreaterThan, OpLessThan:
		lf, lok := toFloat(left)
		rf, rok := toFloat(c.Value)
		if !lok || !rok {
			return false, fmt.Errorf("condition on %q: operator %q requires numeric operands", c.Variable, c.Op)
		}
		if c.Op == OpGreaterThan {
			return lf > rf, nil
		}
		return lf < rf, nil
	case OpContains:
		return strings.Contains(toString(left), toString(c.Value)), nil
	case OpMatches:
		re, err := regexp.Compile(toString(c.Value))
		if err != nil {
			return false, fmt.Errorf("condition on %q: invalid pattern: %w", c.Variable, err)
		}
		return re.MatchString(toString(left)), nil
	default:
		return false, fmt.Errorf("condition on %q: unsupported operator %q", c.Variable, c.Op)
	}
}

func equalValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return toString(a) == toString(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
