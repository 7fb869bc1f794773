package expr_test

import (
	"testing"

	"github.com/leaappelsmeier/hydra/expr"
)

func testValues() expr.ValueTable {
	return expr.ValueTable{
		"A":        1,
		"B":        2,
		"C":        -3,
		"D":        -4,
		"SetValue": 10,
		"A10":      15,
		"Foo::Bar": 42,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"SetValue", 10},
		{"true", 1},
		{"false", 0},
		{"20", 20},
		{"0x20", 32},
		{"0X20", 32},
		{"0x010", 16},
		{"-0x20", -32},
		{"0x10 | 0x01", 17},
		{"0x7 & 0x13", 3},
		{"0xABCD", 43981},
		{"A||B", 1},
		{"(A||B)", 1},
		{"A==B", 0},
		{"A<B", 1},
		{"A > B", 0},
		{"A10 < 20", 1},
		{"C < D", 0},
		{"C >= D", 1},
		{"(A<B) || (C<D)", 1},
		{"(A >= B) && (C > D)", 0},
		{"-20 < D", 1},
		{"-0x10 < D", 1},
		{"0x10 < D", 0},
		{"Foo::Bar", 42},
		{"!A", 0},
		{"!0", 1},
		{"~0", -1},
		{"+ + 5", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"7 / 2", 3},
		{"7 % 4", 3},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"1 << 2 + 1", 8}, // shift binds looser than +
		{"3 ^ 5", 6},
		{"A != B", 1},
		{"A <= B", 1},
		{"B <= B", 1},

		// comments are skipped
		{"A // line comment", 1},
		{"A /* block comment */", 1},
		{"A /* comment */ || /* more \ncomment */ B", 1},

		// a trailing newline ends the expression
		{"B // line comment 2 \n // next line", 2},
		{"C // line comment 3 \r\n//next line", -3},
	}

	values := testValues()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := expr.Evaluate(tt.input, values, expr.Strict, nil)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	tests := []string{
		"no_value",
		"UnsetValue1 || UnsetValue2",
		"Invalid Expression", // two identifiers in a row
		"A +",
		"(A",
		"A ==",
		"1 / 0",
		"1 % 0",
		"A1B != 2B\n Not Quite Right",
	}

	values := testValues()
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := expr.Evaluate(input, values, expr.Strict, nil); err == nil {
				t.Errorf("Evaluate(%q) succeeded, want failure", input)
			}
		})
	}
}

func TestEvaluateLenient(t *testing.T) {
	values := testValues()

	// unknown identifiers read as 0 in lenient mode
	got, err := expr.Evaluate("no_value", values, expr.Lenient, nil)
	if err != nil || got != 0 {
		t.Fatalf("lenient Evaluate(no_value) = %d, %v; want 0, nil", got, err)
	}

	got, err = expr.Evaluate("no_value || A", values, expr.Lenient, nil)
	if err != nil || got != 1 {
		t.Fatalf("lenient Evaluate(no_value || A) = %d, %v; want 1, nil", got, err)
	}

	// strict mode fails on the same input
	if _, err := expr.Evaluate("no_value", values, expr.Strict, nil); err == nil {
		t.Fatal("strict Evaluate(no_value) succeeded")
	}

	// an empty expression fails in strict mode only
	if _, err := expr.Evaluate(" // line comment", values, expr.Strict, nil); err == nil {
		t.Fatal("strict Evaluate of empty expression succeeded")
	}
	if _, err := expr.Evaluate(" // line comment", values, expr.Lenient, nil); err != nil {
		t.Fatalf("lenient Evaluate of empty expression failed: %v", err)
	}
}

func TestEvaluateRecordsUsedIdentifiers(t *testing.T) {
	used := make(expr.ValueSet)

	_, err := expr.Evaluate("(USE_FOG || MODE::DEFERRED) && !true", expr.ValueTable{}, expr.Lenient, used)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	want := []string{"USE_FOG", "MODE::DEFERRED"}
	if len(used) != len(want) {
		t.Fatalf("used = %v, want %v", used, want)
	}
	for _, name := range want {
		if _, ok := used[name]; !ok {
			t.Errorf("identifier %q not recorded", name)
		}
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	// a || b && c groups as a || (b && c)
	values := expr.ValueTable{"a": 1, "b": 0, "c": 0}
	got, err := expr.Evaluate("a || b && c", values, expr.Strict, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("a || b && c = %d with a=1,b=0,c=0; want 1", got)
	}

	got, err = expr.Evaluate("(a || b) && c", values, expr.Strict, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("(a || b) && c = %d, want 0", got)
	}

	// comparison binds tighter than bitwise or
	got, err = expr.Evaluate("1 | 2 == 3", expr.ValueTable{}, expr.Strict, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 { // 1 | (2 == 3) -> 1 | 0 -> 1
		t.Fatalf("1 | 2 == 3 = %d, want 1", got)
	}
}
