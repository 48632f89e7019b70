package tools

import (
	"context"
	"testing"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected float64
		wantErr  bool
	}{
		{name: "addition", expr: "2+2", expected: 4},
		{name: "precedence", expr: "2+3*4", expected: 14},
		{name: "parentheses", expr: "(2+3)*4", expected: 20},
		{name: "division", expr: "10/4", expected: 2.5},
		{name: "unary minus", expr: "-5+8", expected: 3},
		{name: "nested", expr: "((1+2)*(3+4))", expected: 21},
		{name: "spaces", expr: " 7 - 2 ", expected: 5},
		{name: "modulo", expr: "10%3", expected: 1},
		{name: "division by zero", expr: "1/0", wantErr: true},
		{name: "trailing garbage", expr: "2+2abc", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
		{name: "unbalanced paren", expr: "(2+3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Evaluate(%q) = %v, want error", tt.expr, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.expected {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestCalculatorToolDispatch(t *testing.T) {
	reg := function.NewRegistry()
	if err := RegisterCalculator(reg); err != nil {
		t.Fatalf("RegisterCalculator: %v", err)
	}

	obs, err := reg.Dispatch(context.Background(), "calculator", map[string]interface{}{"query": "2+2"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if obs != "4" {
		t.Errorf("observation = %q, want %q", obs, "4")
	}
}
