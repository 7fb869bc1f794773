package shader

import "testing"

func TestParsePermutationsSection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"bare name", "A\n", map[string]string{"A": FreeValue}},
		{"star is free", "A = *\n", map[string]string{"A": FreeValue}},
		{"pinned identifier", "A = TRUE\n", map[string]string{"A": "TRUE"}},
		{"pinned integer", "A = 8\n", map[string]string{"A": "8"}},
		{"pinned enum label", "MODE = WIREFRAME\n", map[string]string{"MODE": "WIREFRAME"}},
		{"several declarations", "A\nB = *\nC = 2\n", map[string]string{"A": FreeValue, "B": FreeValue, "C": "2"}},
		{"comments and blanks", "// header\n\nA\n/* note */\nB\n", map[string]string{"A": FreeValue, "B": FreeValue}},
		{"no trailing newline", "A", map[string]string{"A": FreeValue}},
		{"empty section", "\n\n", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := make(map[string]string)
			if err := parsePermutationsSection(allowed, tt.input); err != nil {
				t.Fatalf("parsePermutationsSection(%q): %v", tt.input, err)
			}

			if len(allowed) != len(tt.want) {
				t.Fatalf("allowed = %v, want %v", allowed, tt.want)
			}
			for name, value := range tt.want {
				if got, ok := allowed[name]; !ok || got != value {
					t.Errorf("allowed[%q] = %q (%v), want %q", name, got, ok, value)
				}
			}
		})
	}
}

func TestParsePermutationsSectionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing value", "A =\n"},
		{"two names on one line", "A B\n"},
		{"leading equals", "= A\n"},
		{"value without name", "5\n"},
		{"double assignment", "A = 1 = 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := make(map[string]string)
			if err := parsePermutationsSection(allowed, tt.input); err == nil {
				t.Errorf("parsePermutationsSection(%q) succeeded, want failure", tt.input)
			}
		})
	}
}

func TestIncludeReference(t *testing.T) {
	tests := []struct {
		line string
		ref  string
		ok   bool
	}{
		{"#include \"a.h\"\n", `"a.h"`, true},
		{"  #include <dir/b.h>\n", "<dir/b.h>", true},
		{"# include <c.h>\n", "<c.h>", true},
		{"#include   \"d.h\"   \n", `"d.h"`, true},
		{"#[if A]\n", "", false},
		{"// #include \"a.h\"\n", "", false},
		{"int x;\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ref, ok := includeReference(tt.line)
			if ok != tt.ok || ref != tt.ref {
				t.Errorf("includeReference(%q) = %q, %v; want %q, %v", tt.line, ref, ok, tt.ref, tt.ok)
			}
		})
	}
}
