package expr_test

import (
	"testing"

	"github.com/leaappelsmeier/hydra/expr"
)

func TestTokenizeTypes(t *testing.T) {
	tests := []struct {
		input string
		types []expr.TokenType
	}{
		{"A", []expr.TokenType{expr.TokenIdentifier}},
		{":", []expr.TokenType{expr.TokenNonIdentifier}},
		{"1", []expr.TokenType{expr.TokenInteger}},
		{"0x10", []expr.TokenType{expr.TokenInteger}},
		{"0X10", []expr.TokenType{expr.TokenInteger}},
		{"\n", []expr.TokenType{expr.TokenNewLine}},
		{"\r\n", []expr.TokenType{expr.TokenNewLine}},
		{"// line comment", []expr.TokenType{expr.TokenLineComment}},
		{"/* block comment */", []expr.TokenType{expr.TokenBlockComment}},

		// identifier concatenation and corner cases
		{"A::B", []expr.TokenType{expr.TokenIdentifier}},
		{"A::B::C", []expr.TokenType{expr.TokenIdentifier}},
		{"A:B", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier}},
		{"::B", []expr.TokenType{expr.TokenNonIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier}},
		{"A::", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenNonIdentifier}},

		// whitespace removal
		{"A:B:C", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier}},
		{" A:B :C", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier}},
		{"A :B:  C  ", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenIdentifier}},

		// comment termination
		{"// a \n// b", []expr.TokenType{expr.TokenLineComment, expr.TokenNewLine, expr.TokenLineComment}},
		{"A /* c */ B", []expr.TokenType{expr.TokenIdentifier, expr.TokenBlockComment, expr.TokenIdentifier}},
		{"/* open block comment", []expr.TokenType{expr.TokenBlockComment}},

		// operators split into single symbols
		{"a<<2", []expr.TokenType{expr.TokenIdentifier, expr.TokenNonIdentifier, expr.TokenNonIdentifier, expr.TokenInteger}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := expr.Tokenize(tt.input)
			if len(tokens) != len(tt.types) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.types))
			}
			for i, tok := range tokens {
				if tok.Type != tt.types[i] {
					t.Errorf("token %d (%q) type = %v, want %v", i, tok.Value, tok.Type, tt.types[i])
				}
			}
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	tests := []struct {
		input  string
		values []string
	}{
		{"Foo::Bar::Baz", []string{"Foo::Bar::Baz"}},
		{"A10 < 20", []string{"A10", "<", "20"}},
		{"0x7 & 0x13", []string{"0x7", "&", "0x13"}},
		{"a\r\nb", []string{"a", "\r\n", "b"}},
		{"0x", []string{"0", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := expr.Tokenize(tt.input)
			if len(tokens) != len(tt.values) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.values))
			}
			for i, tok := range tokens {
				if tok.Value != tt.values[i] {
					t.Errorf("token %d = %q, want %q", i, tok.Value, tt.values[i])
				}
			}
		})
	}
}
