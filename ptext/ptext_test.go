package ptext_test

import (
	"testing"

	"github.com/leaappelsmeier/hydra/expr"
	"github.com/leaappelsmeier/hydra/ptext"
)

func TestGenerateBranchSelection(t *testing.T) {
	const input = "pre\n#[if A]\nX\n#[elif B]\nY\n#[else]\nZ\n#[endif]\npost\n"

	tests := []struct {
		name   string
		values expr.ValueTable
		want   string
	}{
		{"elif taken", expr.ValueTable{"A": 0, "B": 1}, "pre\nY\npost\n"},
		{"else taken", expr.ValueTable{"A": 0, "B": 0}, "pre\nZ\npost\n"},
		{"if shadows elif", expr.ValueTable{"A": 1, "B": 1}, "pre\nX\npost\n"},
	}

	var pt ptext.Text
	pt.SetText(input)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pt.Generate(tt.values)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateConservation(t *testing.T) {
	// text without directives is reproduced unchanged
	const input = "float4 main() {\n  // #include is no directive\n  return 0;\n}\n"

	var pt ptext.Text
	pt.SetText(input)

	if pt.OriginalText() != input {
		t.Fatal("OriginalText differs from the input")
	}

	got, err := pt.Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != input {
		t.Errorf("Generate = %q, want the unchanged input", got)
	}
}

func TestGenerateNestedBlocks(t *testing.T) {
	const input = "a\n" +
		"#[if OUTER]\n" +
		"b\n" +
		"#[if INNER]\n" +
		"c\n" +
		"#[else]\n" +
		"d\n" +
		"#[endif]\n" +
		"e\n" +
		"#[endif]\n" +
		"f\n"

	tests := []struct {
		name   string
		values expr.ValueTable
		want   string
	}{
		{"both taken", expr.ValueTable{"OUTER": 1, "INNER": 1}, "a\nb\nc\ne\nf\n"},
		{"inner else", expr.ValueTable{"OUTER": 1, "INNER": 0}, "a\nb\nd\ne\nf\n"},
		{"outer skipped", expr.ValueTable{"OUTER": 0, "INNER": 1}, "a\nf\n"},
	}

	var pt ptext.Text
	pt.SetText(input)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pt.Generate(tt.values)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateDirectiveForms(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values expr.ValueTable
		want   string
	}{
		{
			"whitespace around directive",
			"  #[ if A ]  \nX\n  #[ endif ]  \n",
			expr.ValueTable{"A": 1},
			"X\n",
		},
		{
			"missing closing bracket",
			"#[if A\nX\n#[endif\n",
			expr.ValueTable{"A": 1},
			"X\n",
		},
		{
			"expression condition",
			"#[if (A < B) || C]\nX\n#[endif]\n",
			expr.ValueTable{"A": 2, "B": 1, "C": 1},
			"X\n",
		},
		{
			"condition using enum constant",
			"#[if MODE == MODE::WIRE]\nwire\n#[else]\nsolid\n#[endif]\n",
			expr.ValueTable{"MODE": 11, "MODE::WIRE": 11},
			"wire\n",
		},
		{
			"directive without final newline",
			"X\n#[if A]\nY\n#[endif]",
			expr.ValueTable{"A": 0},
			"X\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pt ptext.Text
			pt.SetText(tt.input)

			got, err := pt.Generate(tt.values)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values expr.ValueTable
	}{
		{"unterminated if", "#[if A]\nX\n", expr.ValueTable{"A": 1}},
		{"unterminated skipped if", "#[if A]\nX\n", expr.ValueTable{"A": 0}},
		{"unmatched endif", "X\n#[endif]\nY\n", nil},
		{"unmatched elif", "X\n#[elif A]\nY\n", expr.ValueTable{"A": 1}},
		{"unmatched else", "X\n#[else]\nY\n", nil},
		{"condition failure", "#[if UNKNOWN_VAR]\nX\n#[endif]\n", expr.ValueTable{}},
		{"malformed condition", "#[if A +]\nX\n#[endif]\n", expr.ValueTable{"A": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pt ptext.Text
			pt.SetText(tt.input)

			if _, err := pt.Generate(tt.values); err == nil {
				t.Error("Generate succeeded, want failure")
			}
		})
	}
}

func TestGenerateSkippedConditionsNotEvaluated(t *testing.T) {
	// conditions after the taken branch must not be evaluated, so an
	// unknown identifier there cannot fail the generation
	const input = "#[if A]\nX\n#[elif UNKNOWN_VAR]\nY\n#[endif]\n"

	var pt ptext.Text
	pt.SetText(input)

	got, err := pt.Generate(expr.ValueTable{"A": 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "X\n" {
		t.Errorf("Generate = %q, want %q", got, "X\n")
	}
}

func TestDetermineUsedVariables(t *testing.T) {
	const input = "pre\n" +
		"#[if USE_FOG && LIGHTING_MODE == LIGHTING_MODE::DEFERRED]\n" +
		"a\n" +
		"#[elif USE_NORMALMAP]\n" +
		"b\n" +
		"#[else]\n" + // else conditions are not scanned
		"c\n" +
		"#[endif]\n" +
		"#[if USE_FOG]\n" + // duplicates collapse
		"d\n" +
		"#[endif]\n"

	var pt ptext.Text
	pt.SetText(input)

	vars, err := pt.DetermineUsedVariables()
	if err != nil {
		t.Fatalf("DetermineUsedVariables: %v", err)
	}

	want := []string{"LIGHTING_MODE", "LIGHTING_MODE::DEFERRED", "USE_FOG", "USE_NORMALMAP"}
	if len(vars) != len(want) {
		t.Fatalf("vars = %v, want %v", vars, want)
	}
	for i := range want {
		if vars[i] != want[i] {
			t.Fatalf("vars = %v, want %v", vars, want)
		}
	}
}

func TestDetermineUsedVariablesBestEffort(t *testing.T) {
	// one malformed condition is reported, but discovery still returns
	// the variables of the readable conditions
	const input = "#[if GOOD_VAR]\na\n#[endif]\n#[if +]\nb\n#[endif]\n"

	var pt ptext.Text
	pt.SetText(input)

	vars, err := pt.DetermineUsedVariables()
	if err == nil {
		t.Fatal("DetermineUsedVariables did not report the malformed condition")
	}
	if len(vars) != 1 || vars[0] != "GOOD_VAR" {
		t.Fatalf("vars = %v, want [GOOD_VAR]", vars)
	}
}
